package service

import (
	"context"

	"github.com/stridelog/stridelog/internal/model"
	"github.com/stridelog/stridelog/internal/progress"
	"github.com/stridelog/stridelog/internal/usecase"
)

type ProgressService struct {
	progress *usecase.Progress
}

func NewProgressService(progress *usecase.Progress) *ProgressService {
	return &ProgressService{
		progress: progress,
	}
}

func (s *ProgressService) Log(ctx context.Context, userID string, in usecase.LogProgress) (*model.ProgressEntry, error) {
	return s.progress.Log(ctx, userID, in)
}

func (s *ProgressService) Entries(ctx context.Context, userID, goalID string) ([]*model.ProgressEntry, error) {
	return s.progress.Entries(ctx, userID, goalID)
}

func (s *ProgressService) EntriesByUser(ctx context.Context, userID string) ([]*model.ProgressEntry, error) {
	return s.progress.EntriesByUser(ctx, userID)
}

func (s *ProgressService) Delete(ctx context.Context, userID, entryID string) error {
	return s.progress.Delete(ctx, userID, entryID)
}

func (s *ProgressService) Summary(ctx context.Context, userID, goalID string) (*model.Goal, progress.Summary, error) {
	return s.progress.Summary(ctx, userID, goalID)
}
