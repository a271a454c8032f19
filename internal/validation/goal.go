package validation

import (
	"math"
	"strings"
	"time"

	"github.com/stridelog/stridelog/internal/model"
)

type Rule string

const (
	RuleType        Rule = "type"
	RuleTargetValue Rule = "target_value"
	RuleDeadline    Rule = "deadline"
	RuleUserID      Rule = "user_id"
)

// Rules is the fixed evaluation order used when reporting violations.
var Rules = []Rule{RuleType, RuleTargetValue, RuleDeadline, RuleUserID}

// Result maps every rule to whether it passed.
type Result map[Rule]bool

func (r Result) Valid() bool {
	for _, rule := range Rules {
		if !r[rule] {
			return false
		}
	}
	return true
}

func (r Result) Violations() []string {
	var violated []string
	for _, rule := range Rules {
		if !r[rule] {
			violated = append(violated, string(rule))
		}
	}
	return violated
}

// ValidateGoal checks a goal candidate against the goal invariants at time now.
func ValidateGoal(goal model.Goal, now time.Time) Result {
	return Result{
		RuleType:        goal.Type.IsValid(),
		RuleTargetValue: goal.TargetValue > 0 && !math.IsInf(goal.TargetValue, 0),
		RuleDeadline:    goal.Deadline.After(now),
		RuleUserID:      strings.TrimSpace(goal.UserID) != "",
	}
}

// ValidProgressValue reports whether value can be logged against a goal.
func ValidProgressValue(value float64) bool {
	return value >= 0 && !math.IsInf(value, 0) && !math.IsNaN(value)
}
