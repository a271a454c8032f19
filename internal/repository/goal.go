package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stridelog/stridelog/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, userID string) ([]*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, goalID string) error
}

type goalRepository struct {
	db     *sqlx.DB
	policy policy
}

func NewGoalRepository(db *sqlx.DB, timeout time.Duration) GoalRepository {
	return &goalRepository{db: db, policy: newPolicy(timeout)}
}

// Create assigns the goal's ID and timestamps before inserting it.
func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	now := time.Now().UTC()
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	goal.CreatedAt = now
	goal.UpdatedAt = now

	query := `INSERT INTO goals (id, user_id, type, target_value, deadline, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	return r.policy.write(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, query,
			goal.ID,
			goal.UserID,
			goal.Type,
			goal.TargetValue,
			goal.Deadline.UTC(),
			goal.CreatedAt,
			goal.UpdatedAt,
		)
		return err
	})
}

func (r *goalRepository) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1`

	err := r.policy.read(ctx, func(ctx context.Context) error {
		err := r.db.GetContext(ctx, goal, query, goalID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGoalNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Goals returns the user's goals oldest first; the id breaks ties so the
// order is stable across stores.
func (r *goalRepository) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	err := r.policy.read(ctx, func(ctx context.Context) error {
		goals = nil
		return r.db.SelectContext(ctx, &goals, query, userID)
	})
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// Update writes the mutable goal fields and refreshes UpdatedAt.
func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	now := time.Now().UTC()
	query := `UPDATE goals
	          SET type = $1, target_value = $2, deadline = $3, updated_at = $4
	          WHERE id = $5`

	err := r.policy.write(ctx, func(ctx context.Context) error {
		result, err := r.db.ExecContext(ctx, query,
			goal.Type,
			goal.TargetValue,
			goal.Deadline.UTC(),
			now,
			goal.ID,
		)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			return ErrGoalNotFound
		}

		return nil
	})
	if err != nil {
		return err
	}

	goal.UpdatedAt = now
	return nil
}

// Delete removes the goal together with its progress entries.
func (r *goalRepository) Delete(ctx context.Context, goalID string) error {
	return r.policy.write(ctx, func(ctx context.Context) error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(ctx, `DELETE FROM progress_entries WHERE goal_id = $1`, goalID)
		if err != nil {
			return fmt.Errorf("failed to delete progress entries: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, goalID)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			return ErrGoalNotFound
		}

		return tx.Commit()
	})
}
