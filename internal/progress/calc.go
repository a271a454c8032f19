// Package progress computes goal progress from logged entries.
// Every function here is pure: callers pass the clock in.
package progress

import (
	"math"
	"sort"
	"time"

	"github.com/stridelog/stridelog/internal/model"
)

const day = 24 * time.Hour

type Remaining struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
	Overdue bool  `json:"overdue"`
}

type Summary struct {
	Percentage    float64   `json:"percentage"`
	AveragePerDay float64   `json:"average_per_day"`
	Total         float64   `json:"total"`
	Remaining     Remaining `json:"remaining"`
}

// forGoal returns the entries that belong to goal, keeping their order.
func forGoal(goal *model.Goal, entries []*model.ProgressEntry) []*model.ProgressEntry {
	var matched []*model.ProgressEntry
	for _, entry := range entries {
		if entry != nil && entry.GoalID == goal.ID {
			matched = append(matched, entry)
		}
	}
	return matched
}

func sum(entries []*model.ProgressEntry) float64 {
	var total float64
	for _, entry := range entries {
		total += entry.Value
	}
	return total
}

// Total is the raw sum of the goal's entry values.
func Total(goal *model.Goal, entries []*model.ProgressEntry) float64 {
	return sum(forGoal(goal, entries))
}

// Percentage returns how much of the target the goal's entries cover, in [0, 100].
func Percentage(goal *model.Goal, entries []*model.ProgressEntry) float64 {
	matched := forGoal(goal, entries)
	if len(matched) == 0 || goal.TargetValue <= 0 {
		return 0
	}

	capped := math.Min(sum(matched), goal.TargetValue)
	if capped <= 0 {
		return 0
	}
	return (capped / goal.TargetValue) * 100
}

// AveragePerDay divides the goal's total by the span between its first and
// last entry. Spans shorter than a day count as one day.
func AveragePerDay(goal *model.Goal, entries []*model.ProgressEntry) float64 {
	matched := forGoal(goal, entries)
	if len(matched) == 0 {
		return 0
	}

	sorted := make([]*model.ProgressEntry, len(matched))
	copy(sorted, matched)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	first := sorted[0].Date
	last := sorted[len(sorted)-1].Date
	days := math.Max(1, float64(last.Sub(first))/float64(day))

	return sum(sorted) / days
}

// RemainingTime splits the time left until the deadline into whole units.
// A passed deadline yields zero components with Overdue set.
func RemainingTime(goal *model.Goal, now time.Time) Remaining {
	diff := goal.Deadline.Sub(now)
	if diff <= 0 {
		return Remaining{Overdue: diff < 0}
	}

	seconds := int64(diff / time.Second)
	return Remaining{
		Days:    seconds / 86400,
		Hours:   (seconds % 86400) / 3600,
		Minutes: (seconds % 3600) / 60,
		Seconds: seconds % 60,
	}
}

func Summarize(goal *model.Goal, entries []*model.ProgressEntry, now time.Time) Summary {
	return Summary{
		Percentage:    Percentage(goal, entries),
		AveragePerDay: AveragePerDay(goal, entries),
		Total:         Total(goal, entries),
		Remaining:     RemainingTime(goal, now),
	}
}
