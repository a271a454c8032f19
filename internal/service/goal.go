package service

import (
	"context"

	"github.com/stridelog/stridelog/internal/model"
	"github.com/stridelog/stridelog/internal/usecase"
)

// GoalService is the entry point handlers use for goal operations.
// It adds nothing to the use cases and returns their errors unchanged.
type GoalService struct {
	goals *usecase.Goals
}

func NewGoalService(goals *usecase.Goals) *GoalService {
	return &GoalService{
		goals: goals,
	}
}

func (s *GoalService) Create(ctx context.Context, in usecase.NewGoal) (*model.Goal, error) {
	return s.goals.Create(ctx, in)
}

func (s *GoalService) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	return s.goals.List(ctx, userID)
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return s.goals.Get(ctx, userID, goalID)
}

func (s *GoalService) Update(ctx context.Context, userID, goalID string, patch model.GoalPatch) error {
	return s.goals.Update(ctx, userID, goalID, patch)
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	return s.goals.Delete(ctx, userID, goalID)
}
