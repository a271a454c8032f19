package model

import (
	"time"
)

type GoalType string

const (
	GoalTypeWeightLoss      GoalType = "weight_loss"
	GoalTypeMuscleGain      GoalType = "muscle_gain"
	GoalTypeRunningDistance GoalType = "running_distance"
	GoalTypeOther           GoalType = "other"
)

// GoalTypes lists every accepted goal type in display order.
var GoalTypes = []GoalType{
	GoalTypeWeightLoss,
	GoalTypeMuscleGain,
	GoalTypeRunningDistance,
	GoalTypeOther,
}

func (t GoalType) IsValid() bool {
	for _, known := range GoalTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Goal struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Type        GoalType  `db:"type"`
	TargetValue float64   `db:"target_value"`
	Deadline    time.Time `db:"deadline"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	// Computed fields (not in database)
	Progress float64 `db:"-"`
}

// GoalPatch carries the fields a caller may change on an existing goal.
// Nil fields are left untouched.
type GoalPatch struct {
	Type        *GoalType
	TargetValue *float64
	Deadline    *time.Time
}

// Apply returns a copy of goal with the patch merged onto it.
// Identity, ownership and timestamps are never taken from the patch.
func (p GoalPatch) Apply(goal Goal) Goal {
	merged := goal
	if p.Type != nil {
		merged.Type = *p.Type
	}
	if p.TargetValue != nil {
		merged.TargetValue = *p.TargetValue
	}
	if p.Deadline != nil {
		merged.Deadline = *p.Deadline
	}
	return merged
}

func (g *Goal) IsOwnedBy(userID string) bool {
	return g.UserID != "" && g.UserID == userID
}

func (g *Goal) IsCompleted() bool {
	return g.Progress >= 100
}
