package handler

import (
	"net/http"
	"time"

	"github.com/stridelog/stridelog/internal/ctxkeys"
	"github.com/stridelog/stridelog/internal/format"
	"github.com/stridelog/stridelog/internal/model"
	"github.com/stridelog/stridelog/internal/problem"
	"github.com/stridelog/stridelog/internal/service"
	"github.com/stridelog/stridelog/internal/usecase"
)

type goalResponse struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	Type          model.GoalType `json:"type"`
	Label         string         `json:"label"`
	TargetValue   float64        `json:"targetValue"`
	Deadline      time.Time      `json:"deadline"`
	Progress      float64        `json:"progress"`
	ProgressLabel string         `json:"progressLabel"`
	Completed     bool           `json:"completed"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func toGoalResponse(goal *model.Goal) goalResponse {
	return goalResponse{
		ID:            goal.ID,
		UserID:        goal.UserID,
		Type:          goal.Type,
		Label:         format.GoalType(goal.Type),
		TargetValue:   goal.TargetValue,
		Deadline:      goal.Deadline,
		Progress:      goal.Progress,
		ProgressLabel: format.Percentage(goal.Progress),
		Completed:     goal.IsCompleted(),
		CreatedAt:     goal.CreatedAt,
		UpdatedAt:     goal.UpdatedAt,
	}
}

type createGoalRequest struct {
	Type        model.GoalType `json:"type"`
	TargetValue float64        `json:"targetValue"`
	Deadline    time.Time      `json:"deadline"`
}

// updateGoalRequest lists the only fields a client may change.
// Anything else in the body, such as id or userId, is ignored.
type updateGoalRequest struct {
	Type        *model.GoalType `json:"type"`
	TargetValue *float64        `json:"targetValue"`
	Deadline    *time.Time      `json:"deadline"`
}

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req createGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		problem.BadRequest(w, r, "Invalid request body")
		return
	}

	goal, err := h.goalService.Create(r.Context(), usecase.NewGoal{
		UserID:      userID,
		Type:        req.Type,
		TargetValue: req.TargetValue,
		Deadline:    req.Deadline,
	})
	if err != nil {
		writeError(w, r, err, "failed to create goal")
		return
	}

	w.Header().Set("Location", "/goals/"+goal.ID)
	writeJSON(w, http.StatusCreated, toGoalResponse(goal))
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	goals, err := h.goalService.Goals(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "failed to list goals")
		return
	}

	resp := make([]goalResponse, 0, len(goals))
	for _, goal := range goals {
		resp = append(resp, toGoalResponse(goal))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	goal, err := h.goalService.ByID(r.Context(), userID, goalID)
	if err != nil {
		writeError(w, r, err, "failed to get goal")
		return
	}

	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	var req updateGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		problem.BadRequest(w, r, "Invalid request body")
		return
	}

	patch := model.GoalPatch{
		Type:        req.Type,
		TargetValue: req.TargetValue,
		Deadline:    req.Deadline,
	}

	err = h.goalService.Update(r.Context(), userID, goalID, patch)
	if err != nil {
		writeError(w, r, err, "failed to update goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	err := h.goalService.Delete(r.Context(), userID, goalID)
	if err != nil {
		writeError(w, r, err, "failed to delete goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
