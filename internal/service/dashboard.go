package service

import (
	"context"

	"github.com/stridelog/stridelog/internal/model"
	"github.com/stridelog/stridelog/internal/usecase"
)

const defaultRecentActivityLimit = 5

type Dashboard struct {
	ActiveGoals     int
	CompletedGoals  int
	OverallProgress float64
	RecentActivity  []*model.ProgressEntry
}

type DashboardService struct {
	goals       *usecase.Goals
	progress    *usecase.Progress
	recentLimit int
}

func NewDashboardService(goals *usecase.Goals, progress *usecase.Progress, recentLimit int) *DashboardService {
	if recentLimit <= 0 {
		recentLimit = defaultRecentActivityLimit
	}
	return &DashboardService{
		goals:       goals,
		progress:    progress,
		recentLimit: recentLimit,
	}
}

// Dashboard summarizes the requester's goals. A goal counts as completed once
// its progress reaches 100; overall progress is the mean across all goals.
func (s *DashboardService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	goals, err := s.goals.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.progress.Recent(ctx, userID, s.recentLimit)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{RecentActivity: recent}

	var total float64
	for _, goal := range goals {
		total += goal.Progress
		if goal.IsCompleted() {
			dashboard.CompletedGoals++
		} else {
			dashboard.ActiveGoals++
		}
	}
	if len(goals) > 0 {
		dashboard.OverallProgress = total / float64(len(goals))
	}

	return dashboard, nil
}
