package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/stridelog/stridelog/internal/apperr"
	"github.com/stridelog/stridelog/internal/model"
	"github.com/stridelog/stridelog/internal/progress"
	"github.com/stridelog/stridelog/internal/repository"
	"github.com/stridelog/stridelog/internal/validation"
)

const (
	entityProgressEntry = "progress entry"

	ruleGoalID = "goal_id"
	ruleValue  = "value"
)

type LogProgress struct {
	GoalID string
	Value  float64
	// Date is recorded as provided; the zero value means now.
	Date time.Time
}

type Progress struct {
	goals   repository.GoalRepository
	entries repository.ProgressEntryRepository
	cache   *ProgressCache
	now     func() time.Time
}

func NewProgress(goals repository.GoalRepository, entries repository.ProgressEntryRepository, cache *ProgressCache) *Progress {
	return &Progress{
		goals:   goals,
		entries: entries,
		cache:   cache,
		now:     time.Now,
	}
}

// Log records a progress entry against one of the requester's goals.
// Past and future dates are both accepted.
func (uc *Progress) Log(ctx context.Context, userID string, in LogProgress) (*model.ProgressEntry, error) {
	var violated []string
	if strings.TrimSpace(in.GoalID) == "" {
		violated = append(violated, ruleGoalID)
	}
	if !validation.ValidProgressValue(in.Value) {
		violated = append(violated, ruleValue)
	}
	if len(violated) > 0 {
		return nil, apperr.Validation(violated...)
	}

	_, err := loadOwnedGoal(ctx, uc.goals, userID, in.GoalID)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = uc.now()
	}

	entry := &model.ProgressEntry{
		GoalID: in.GoalID,
		Value:  in.Value,
		Date:   date,
	}

	err = uc.entries.Create(ctx, entry)
	if err != nil {
		return nil, apperr.Persistence("log progress", err)
	}

	uc.cache.Invalidate(ctx, in.GoalID)
	return entry, nil
}

// Entries lists one goal's entries ordered by date.
func (uc *Progress) Entries(ctx context.Context, userID, goalID string) ([]*model.ProgressEntry, error) {
	_, err := loadOwnedGoal(ctx, uc.goals, userID, goalID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entries.Entries(ctx, goalID)
	if err != nil {
		return nil, apperr.Persistence("list progress entries", err)
	}

	return entries, nil
}

// EntriesByUser lists the entries of every goal the requester owns.
func (uc *Progress) EntriesByUser(ctx context.Context, userID string) ([]*model.ProgressEntry, error) {
	entries, err := uc.entries.EntriesByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("list progress entries", err)
	}
	return entries, nil
}

// Recent returns the requester's latest entries, newest first.
func (uc *Progress) Recent(ctx context.Context, userID string, limit int) ([]*model.ProgressEntry, error) {
	entries, err := uc.entries.Recent(ctx, userID, limit)
	if err != nil {
		return nil, apperr.Persistence("list recent progress", err)
	}
	return entries, nil
}

func (uc *Progress) Delete(ctx context.Context, userID, entryID string) error {
	entry, err := uc.entries.ByID(ctx, entryID)
	if errors.Is(err, repository.ErrProgressEntryNotFound) {
		return apperr.NotFound(entityProgressEntry, entryID)
	}
	if err != nil {
		return apperr.Persistence("load progress entry", err)
	}

	_, err = loadOwnedGoal(ctx, uc.goals, userID, entry.GoalID)
	if apperr.IsNotFound(err) {
		// An entry whose goal is gone is nobody's to delete.
		return apperr.NotFound(entityProgressEntry, entryID)
	}
	if apperr.IsUnauthorized(err) {
		return apperr.Unauthorized(entityProgressEntry, entryID)
	}
	if err != nil {
		return err
	}

	err = uc.entries.Delete(ctx, entryID)
	if errors.Is(err, repository.ErrProgressEntryNotFound) {
		return apperr.NotFound(entityProgressEntry, entryID)
	}
	if err != nil {
		return apperr.Persistence("delete progress entry", err)
	}

	uc.cache.Invalidate(ctx, entry.GoalID)
	return nil
}

// Summary computes percentage, daily average and remaining time for one goal.
func (uc *Progress) Summary(ctx context.Context, userID, goalID string) (*model.Goal, progress.Summary, error) {
	goal, err := loadOwnedGoal(ctx, uc.goals, userID, goalID)
	if err != nil {
		return nil, progress.Summary{}, err
	}

	_, version, _ := uc.cache.Get(ctx, goalID)

	entries, err := uc.entries.Entries(ctx, goalID)
	if err != nil {
		return nil, progress.Summary{}, apperr.Persistence("list progress entries", err)
	}

	summary := progress.Summarize(goal, entries, uc.now())
	goal.Progress = summary.Percentage
	uc.cache.Store(ctx, goalID, version, summary.Percentage)

	return goal, summary, nil
}
