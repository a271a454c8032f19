package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stridelog/stridelog/internal/apperr"
	"github.com/stridelog/stridelog/internal/model"
)

func validGoal(userID string) NewGoal {
	return NewGoal{
		UserID:      userID,
		Type:        model.GoalTypeRunningDistance,
		TargetValue: 50,
		Deadline:    testNow.Add(30 * 24 * time.Hour),
	}
}

func TestGoals_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	goal, err := f.goalUC.Create(ctx, validGoal("user-1"))

	require.NoError(t, err)
	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, "user-1", goal.UserID)
	assert.Equal(t, model.GoalTypeRunningDistance, goal.Type)
	assert.Zero(t, goal.Progress)

	stored, err := f.goals.ByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stored.TargetValue)
}

func TestGoals_CreateRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewGoal)
		rule   string
	}{
		{"unknown type", func(g *NewGoal) { g.Type = "swimming" }, "type"},
		{"zero target", func(g *NewGoal) { g.TargetValue = 0 }, "target_value"},
		{"negative target", func(g *NewGoal) { g.TargetValue = -5 }, "target_value"},
		{"past deadline", func(g *NewGoal) { g.Deadline = testNow.Add(-time.Hour) }, "deadline"},
		{"deadline now", func(g *NewGoal) { g.Deadline = testNow }, "deadline"},
		{"blank user", func(g *NewGoal) { g.UserID = "   " }, "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			in := validGoal("user-1")
			tt.mutate(&in)

			goal, err := f.goalUC.Create(context.Background(), in)

			assert.Nil(t, goal)
			var validationErr *apperr.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Rules, tt.rule)
			assert.Empty(t, f.goals.goals)
		})
	}
}

func TestGoals_CreatePersistenceFailure(t *testing.T) {
	f := newFixture()
	f.goals.err = errors.New("disk full")

	_, err := f.goalUC.Create(context.Background(), validGoal("user-1"))

	assert.True(t, apperr.IsPersistence(err))
	assert.ErrorContains(t, err, "disk full")
}

func TestGoals_Get(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	goal, err := f.goalUC.Create(ctx, validGoal("user-1"))
	require.NoError(t, err)

	_, err = f.progress.Log(ctx, "user-1", LogProgress{GoalID: goal.ID, Value: 10})
	require.NoError(t, err)

	got, err := f.goalUC.Get(ctx, "user-1", goal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, got.Progress, 1e-9)

	t.Run("other user", func(t *testing.T) {
		_, err := f.goalUC.Get(ctx, "user-2", goal.ID)
		assert.True(t, apperr.IsUnauthorized(err))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.goalUC.Get(ctx, "user-1", "nope")
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestGoals_GetUsesCachedProgress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	goal, err := f.goalUC.Create(ctx, validGoal("user-1"))
	require.NoError(t, err)

	_, err = f.goalUC.Get(ctx, "user-1", goal.ID)
	require.NoError(t, err)
	reads := f.entries.readCount()

	_, err = f.goalUC.Get(ctx, "user-1", goal.ID)
	require.NoError(t, err)
	assert.Equal(t, reads, f.entries.readCount())
}

func TestGoals_List(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.goalUC.Create(ctx, validGoal("user-1"))
	require.NoError(t, err)
	second, err := f.goalUC.Create(ctx, validGoal("user-1"))
	require.NoError(t, err)
	_, err = f.goalUC.Create(ctx, validGoal("user-2"))
	require.NoError(t, err)

	_, err = f.progress.Log(ctx, "user-1", LogProgress{GoalID: second.ID, Value: 25})
	require.NoError(t, err)

	goals, err := f.goalUC.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, first.ID, goals[0].ID)
	assert.Zero(t, goals[0].Progress)
	assert.Equal(t, second.ID, goals[1].ID)
	assert.InDelta(t, 50.0, goals[1].Progress, 1e-9)

	empty, err := f.goalUC.List(ctx, "user-3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGoals_Update(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	goal, err := f.goalUC.Create(ctx, validGoal("user-1"))
	require.NoError(t, err)

	err = f.goalUC.Update(ctx, "user-1", goal.ID, model.GoalPatch{TargetValue: ptr(100.0)})
	require.NoError(t, err)

	stored, err := f.goals.ByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.TargetValue)
	assert.Equal(t, model.GoalTypeRunningDistance, stored.Type)
	assert.Equal(t, "user-1", stored.UserID)
}

func TestGoals_UpdateValidatesMergedRecord(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	goal, err := f.goalUC.Create(ctx, validGoal("user-1"))
	require.NoError(t, err)

	err = f.goalUC.Update(ctx, "user-1", goal.ID, model.GoalPatch{TargetValue: ptr(0.0)})

	var validationErr *apperr.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"target_value"}, validationErr.Rules)
	assert.Zero(t, f.goals.updates)

	stored, err := f.goals.ByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stored.TargetValue)
}

func TestGoals_UpdateOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	goal, err := f.goalUC.Create(ctx, validGoal("user-1"))
	require.NoError(t, err)

	err = f.goalUC.Update(ctx, "user-2", goal.ID, model.GoalPatch{TargetValue: ptr(10.0)})
	assert.True(t, apperr.IsUnauthorized(err))

	err = f.goalUC.Update(ctx, "user-1", "missing", model.GoalPatch{TargetValue: ptr(10.0)})
	assert.True(t, apperr.IsNotFound(err))
	assert.Zero(t, f.goals.updates)
}

func TestGoals_UpdateInvalidatesProgress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	goal, err := f.goalUC.Create(ctx, validGoal("user-1"))
	require.NoError(t, err)
	_, err = f.progress.Log(ctx, "user-1", LogProgress{GoalID: goal.ID, Value: 25})
	require.NoError(t, err)

	got, err := f.goalUC.Get(ctx, "user-1", goal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got.Progress, 1e-9)

	err = f.goalUC.Update(ctx, "user-1", goal.ID, model.GoalPatch{TargetValue: ptr(100.0)})
	require.NoError(t, err)

	got, err = f.goalUC.Get(ctx, "user-1", goal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got.Progress, 1e-9)
}

func TestGoals_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	goal, err := f.goalUC.Create(ctx, validGoal("user-1"))
	require.NoError(t, err)
	_, err = f.progress.Log(ctx, "user-1", LogProgress{GoalID: goal.ID, Value: 5})
	require.NoError(t, err)

	err = f.goalUC.Delete(ctx, "user-2", goal.ID)
	assert.True(t, apperr.IsUnauthorized(err))

	err = f.goalUC.Delete(ctx, "user-1", goal.ID)
	require.NoError(t, err)

	_, err = f.goalUC.Get(ctx, "user-1", goal.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, f.entries.entries)

	err = f.goalUC.Delete(ctx, "user-1", goal.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestGoals_PersistenceFailureIsWrapped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	goal, err := f.goalUC.Create(ctx, validGoal("user-1"))
	require.NoError(t, err)

	f.goals.err = errors.New("connection refused")

	_, err = f.goalUC.Get(ctx, "user-1", goal.ID)
	assert.True(t, apperr.IsPersistence(err))
	_, err = f.goalUC.List(ctx, "user-1")
	assert.True(t, apperr.IsPersistence(err))
	err = f.goalUC.Delete(ctx, "user-1", goal.ID)
	assert.True(t, apperr.IsPersistence(err))
}

func TestGoals_GetDoesNotCacheProgressOverlappingAWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := validGoal("user-1")
	in.TargetValue = 10
	goal, err := f.goalUC.Create(ctx, in)
	require.NoError(t, err)

	// The entry lands after Get has read entries but before it caches.
	f.entries.onNextRead(func() {
		_, err := f.progress.Log(ctx, "user-1", LogProgress{GoalID: goal.ID, Value: 5})
		require.NoError(t, err)
	})

	stale, err := f.goalUC.Get(ctx, "user-1", goal.ID)
	require.NoError(t, err)
	assert.Zero(t, stale.Progress)

	fresh, err := f.goalUC.Get(ctx, "user-1", goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, fresh.Progress)
}

func TestGoals_ListDoesNotCacheProgressOverlappingAWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := validGoal("user-1")
	in.TargetValue = 10
	goal, err := f.goalUC.Create(ctx, in)
	require.NoError(t, err)

	f.entries.onNextRead(func() {
		_, err := f.progress.Log(ctx, "user-1", LogProgress{GoalID: goal.ID, Value: 4})
		require.NoError(t, err)
	})

	_, err = f.goalUC.List(ctx, "user-1")
	require.NoError(t, err)

	goals, err := f.goalUC.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, 40.0, goals[0].Progress)
}
