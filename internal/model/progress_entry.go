package model

import (
	"time"
)

type ProgressEntry struct {
	ID        string    `db:"id"`
	GoalID    string    `db:"goal_id"`
	Value     float64   `db:"value"`
	Date      time.Time `db:"date"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
