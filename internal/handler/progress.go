package handler

import (
	"net/http"
	"time"

	"github.com/stridelog/stridelog/internal/ctxkeys"
	"github.com/stridelog/stridelog/internal/format"
	"github.com/stridelog/stridelog/internal/model"
	"github.com/stridelog/stridelog/internal/problem"
	"github.com/stridelog/stridelog/internal/progress"
	"github.com/stridelog/stridelog/internal/service"
	"github.com/stridelog/stridelog/internal/usecase"
)

type entryResponse struct {
	ID        string    `json:"id"`
	GoalID    string    `json:"goalId"`
	Value     float64   `json:"value"`
	Date      time.Time `json:"date"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

func toEntryResponse(entry *model.ProgressEntry) entryResponse {
	return entryResponse{
		ID:        entry.ID,
		GoalID:    entry.GoalID,
		Value:     entry.Value,
		Date:      entry.Date,
		Label:     format.ProgressEntry(entry),
		CreatedAt: entry.CreatedAt,
	}
}

func toEntryResponses(entries []*model.ProgressEntry) []entryResponse {
	resp := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, toEntryResponse(entry))
	}
	return resp
}

type logProgressRequest struct {
	GoalID string     `json:"goalId"`
	Value  *float64   `json:"value"`
	Date   *time.Time `json:"date"`
}

type summaryResponse struct {
	Goal           goalResponse       `json:"goal"`
	Percentage     float64            `json:"percentage"`
	AveragePerDay  float64            `json:"averagePerDay"`
	Total          float64            `json:"total"`
	Remaining      progress.Remaining `json:"remaining"`
	RemainingLabel string             `json:"remainingLabel"`
}

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

func (h *ProgressHandler) Log(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req logProgressRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		problem.BadRequest(w, r, "Invalid request body")
		return
	}

	if req.Value == nil {
		writeValidation(w, r, "value")
		return
	}

	in := usecase.LogProgress{GoalID: req.GoalID, Value: *req.Value}
	if req.Date != nil {
		in.Date = *req.Date
	}

	_, err = h.progressService.Log(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err, "failed to log progress")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns one goal's entries when goalId is given, otherwise every
// entry of the requester.
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.URL.Query().Get("goalId")

	var (
		entries []*model.ProgressEntry
		err     error
	)
	if goalID != "" {
		entries, err = h.progressService.Entries(r.Context(), userID, goalID)
	} else {
		entries, err = h.progressService.EntriesByUser(r.Context(), userID)
	}
	if err != nil {
		writeError(w, r, err, "failed to list progress")
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponses(entries))
}

func (h *ProgressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	entryID := r.PathValue("id")

	err := h.progressService.Delete(r.Context(), userID, entryID)
	if err != nil {
		writeError(w, r, err, "failed to delete progress entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProgressHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	goalID := r.PathValue("id")

	goal, summary, err := h.progressService.Summary(r.Context(), userID, goalID)
	if err != nil {
		writeError(w, r, err, "failed to summarize progress")
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Goal:           toGoalResponse(goal),
		Percentage:     summary.Percentage,
		AveragePerDay:  summary.AveragePerDay,
		Total:          summary.Total,
		Remaining:      summary.Remaining,
		RemainingLabel: format.Remaining(summary.Remaining),
	})
}
