package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stridelog/stridelog/internal/model"
)

var (
	ErrProgressEntryNotFound = errors.New("progress entry not found")
)

type ProgressEntryRepository interface {
	Create(ctx context.Context, entry *model.ProgressEntry) error
	ByID(ctx context.Context, entryID string) (*model.ProgressEntry, error)
	Entries(ctx context.Context, goalID string) ([]*model.ProgressEntry, error)
	EntriesByUser(ctx context.Context, userID string) ([]*model.ProgressEntry, error)
	Recent(ctx context.Context, userID string, limit int) ([]*model.ProgressEntry, error)
	Delete(ctx context.Context, entryID string) error
}

type progressEntryRepository struct {
	db     *sqlx.DB
	policy policy
}

func NewProgressEntryRepository(db *sqlx.DB, timeout time.Duration) ProgressEntryRepository {
	return &progressEntryRepository{db: db, policy: newPolicy(timeout)}
}

func (r *progressEntryRepository) Create(ctx context.Context, entry *model.ProgressEntry) error {
	now := time.Now().UTC()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `INSERT INTO progress_entries (id, goal_id, value, date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	return r.policy.write(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, query,
			entry.ID,
			entry.GoalID,
			entry.Value,
			entry.Date.UTC(),
			entry.CreatedAt,
			entry.UpdatedAt,
		)
		return err
	})
}

func (r *progressEntryRepository) ByID(ctx context.Context, entryID string) (*model.ProgressEntry, error) {
	entry := &model.ProgressEntry{}
	query := `SELECT * FROM progress_entries WHERE id = $1`

	err := r.policy.read(ctx, func(ctx context.Context) error {
		err := r.db.GetContext(ctx, entry, query, entryID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProgressEntryNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *progressEntryRepository) Entries(ctx context.Context, goalID string) ([]*model.ProgressEntry, error) {
	var entries []*model.ProgressEntry
	query := `SELECT * FROM progress_entries WHERE goal_id = $1 ORDER BY date ASC, created_at ASC`

	err := r.policy.read(ctx, func(ctx context.Context) error {
		entries = nil
		return r.db.SelectContext(ctx, &entries, query, goalID)
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// EntriesByUser returns the entries of every goal the user owns.
func (r *progressEntryRepository) EntriesByUser(ctx context.Context, userID string) ([]*model.ProgressEntry, error) {
	var entries []*model.ProgressEntry
	query := `SELECT e.id, e.goal_id, e.value, e.date, e.created_at, e.updated_at
	          FROM progress_entries e
	          JOIN goals g ON g.id = e.goal_id
	          WHERE g.user_id = $1
	          ORDER BY e.date ASC, e.created_at ASC`

	err := r.policy.read(ctx, func(ctx context.Context) error {
		entries = nil
		return r.db.SelectContext(ctx, &entries, query, userID)
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Recent returns the user's latest entries, newest first.
func (r *progressEntryRepository) Recent(ctx context.Context, userID string, limit int) ([]*model.ProgressEntry, error) {
	var entries []*model.ProgressEntry
	query := `SELECT e.id, e.goal_id, e.value, e.date, e.created_at, e.updated_at
	          FROM progress_entries e
	          JOIN goals g ON g.id = e.goal_id
	          WHERE g.user_id = $1
	          ORDER BY e.date DESC, e.created_at DESC
	          LIMIT $2`

	err := r.policy.read(ctx, func(ctx context.Context) error {
		entries = nil
		return r.db.SelectContext(ctx, &entries, query, userID, limit)
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *progressEntryRepository) Delete(ctx context.Context, entryID string) error {
	return r.policy.write(ctx, func(ctx context.Context) error {
		result, err := r.db.ExecContext(ctx, `DELETE FROM progress_entries WHERE id = $1`, entryID)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			return ErrProgressEntryNotFound
		}

		return nil
	})
}
