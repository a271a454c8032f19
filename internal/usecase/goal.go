// Package usecase holds the application operations on goals and progress
// entries. Each operation validates input, checks that the requester owns
// the entity it touches and delegates persistence to the repositories.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/stridelog/stridelog/internal/apperr"
	"github.com/stridelog/stridelog/internal/model"
	"github.com/stridelog/stridelog/internal/progress"
	"github.com/stridelog/stridelog/internal/repository"
	"github.com/stridelog/stridelog/internal/validation"
)

const entityGoal = "goal"

type NewGoal struct {
	UserID      string
	Type        model.GoalType
	TargetValue float64
	Deadline    time.Time
}

type Goals struct {
	goals   repository.GoalRepository
	entries repository.ProgressEntryRepository
	cache   *ProgressCache
	now     func() time.Time
}

func NewGoals(goals repository.GoalRepository, entries repository.ProgressEntryRepository, cache *ProgressCache) *Goals {
	return &Goals{
		goals:   goals,
		entries: entries,
		cache:   cache,
		now:     time.Now,
	}
}

func (uc *Goals) Create(ctx context.Context, in NewGoal) (*model.Goal, error) {
	goal := &model.Goal{
		UserID:      in.UserID,
		Type:        in.Type,
		TargetValue: in.TargetValue,
		Deadline:    in.Deadline,
	}

	result := validation.ValidateGoal(*goal, uc.now())
	if !result.Valid() {
		return nil, apperr.Validation(result.Violations()...)
	}

	err := uc.goals.Create(ctx, goal)
	if err != nil {
		return nil, apperr.Persistence("create goal", err)
	}

	return goal, nil
}

// Get returns one of the requester's goals with its progress filled in.
func (uc *Goals) Get(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal, err := uc.owned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	err = uc.fillProgress(ctx, goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// List returns the requester's goals oldest first with progress filled in.
func (uc *Goals) List(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals, err := uc.goals.Goals(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("list goals", err)
	}

	var misses []*model.Goal
	versions := make(map[string]progressVersion)
	for _, goal := range goals {
		percentage, version, ok := uc.cache.Get(ctx, goal.ID)
		if ok {
			goal.Progress = percentage
			continue
		}
		versions[goal.ID] = version
		misses = append(misses, goal)
	}

	if len(misses) == 0 {
		return goals, nil
	}

	entries, err := uc.entries.EntriesByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("list progress entries", err)
	}

	for _, goal := range misses {
		goal.Progress = progress.Percentage(goal, entries)
		uc.cache.Store(ctx, goal.ID, versions[goal.ID], goal.Progress)
	}

	return goals, nil
}

// Update merges the allowed patch fields onto the stored goal and validates
// the merged record before writing it. Concurrent updates are last-write-wins.
func (uc *Goals) Update(ctx context.Context, userID, goalID string, patch model.GoalPatch) error {
	existing, err := uc.owned(ctx, userID, goalID)
	if err != nil {
		return err
	}

	merged := patch.Apply(*existing)

	result := validation.ValidateGoal(merged, uc.now())
	if !result.Valid() {
		return apperr.Validation(result.Violations()...)
	}

	err = uc.goals.Update(ctx, &merged)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return apperr.NotFound(entityGoal, goalID)
	}
	if err != nil {
		return apperr.Persistence("update goal", err)
	}

	uc.cache.Invalidate(ctx, goalID)
	return nil
}

// Delete removes the goal and its progress entries. A missing goal is
// reported as a NotFoundError.
func (uc *Goals) Delete(ctx context.Context, userID, goalID string) error {
	_, err := uc.owned(ctx, userID, goalID)
	if err != nil {
		return err
	}

	err = uc.goals.Delete(ctx, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return apperr.NotFound(entityGoal, goalID)
	}
	if err != nil {
		return apperr.Persistence("delete goal", err)
	}

	uc.cache.Invalidate(ctx, goalID)
	return nil
}

// owned loads a goal and checks that userID owns it.
func (uc *Goals) owned(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return loadOwnedGoal(ctx, uc.goals, userID, goalID)
}

func (uc *Goals) fillProgress(ctx context.Context, goal *model.Goal) error {
	percentage, version, ok := uc.cache.Get(ctx, goal.ID)
	if ok {
		goal.Progress = percentage
		return nil
	}

	entries, err := uc.entries.Entries(ctx, goal.ID)
	if err != nil {
		return apperr.Persistence("list progress entries", err)
	}

	goal.Progress = progress.Percentage(goal, entries)
	uc.cache.Store(ctx, goal.ID, version, goal.Progress)
	return nil
}

func loadOwnedGoal(ctx context.Context, goals repository.GoalRepository, userID, goalID string) (*model.Goal, error) {
	goal, err := goals.ByID(ctx, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, apperr.NotFound(entityGoal, goalID)
	}
	if err != nil {
		return nil, apperr.Persistence("load goal", err)
	}

	if !goal.IsOwnedBy(userID) {
		return nil, apperr.Unauthorized(entityGoal, goalID)
	}

	return goal, nil
}
