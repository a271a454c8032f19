package handler

import (
	"net/http"

	"github.com/stridelog/stridelog/internal/ctxkeys"
	"github.com/stridelog/stridelog/internal/format"
	"github.com/stridelog/stridelog/internal/service"
)

type dashboardResponse struct {
	ActiveGoals          int             `json:"activeGoals"`
	CompletedGoals       int             `json:"completedGoals"`
	OverallProgress      float64         `json:"overallProgress"`
	OverallProgressLabel string          `json:"overallProgressLabel"`
	RecentActivity       []entryResponse `json:"recentActivity"`
}

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	dashboard, err := h.dashboardService.Dashboard(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "failed to load dashboard")
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		ActiveGoals:          dashboard.ActiveGoals,
		CompletedGoals:       dashboard.CompletedGoals,
		OverallProgress:      dashboard.OverallProgress,
		OverallProgressLabel: format.Percentage(dashboard.OverallProgress),
		RecentActivity:       toEntryResponses(dashboard.RecentActivity),
	})
}
