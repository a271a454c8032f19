// Package format renders goals and progress as short human-readable text.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/stridelog/stridelog/internal/model"
	"github.com/stridelog/stridelog/internal/progress"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const dateLayout = "01/02/2006"

// Date renders t as MM/DD/YYYY in UTC.
func Date(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// Number renders v with at most two decimals and no trailing zeros.
func Number(v float64) string {
	rounded := math.Round(v*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func Percentage(p float64) string {
	return Number(p) + "%"
}

// GoalType turns "running_distance" into "Running Distance".
func GoalType(t model.GoalType) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}

func Goal(goal *model.Goal) string {
	return fmt.Sprintf("%s - Target: %s - Deadline: %s",
		GoalType(goal.Type),
		Number(goal.TargetValue),
		Date(goal.Deadline),
	)
}

func ProgressEntry(entry *model.ProgressEntry) string {
	return Date(entry.Date) + " - " + Number(entry.Value)
}

// ProgressLog renders one line per entry in the given order.
func ProgressLog(entries []*model.ProgressEntry) string {
	if len(entries) == 0 {
		return "No progress entries yet."
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, ProgressEntry(entry))
	}
	return strings.Join(lines, "\n")
}

// Remaining lists the non-zero units left until the deadline.
func Remaining(r progress.Remaining) string {
	if r.Overdue {
		return "overdue"
	}

	units := []struct {
		n    int64
		name string
	}{
		{r.Days, "day"},
		{r.Hours, "hour"},
		{r.Minutes, "minute"},
		{r.Seconds, "second"},
	}

	var parts []string
	for _, unit := range units {
		if unit.n <= 0 {
			continue
		}
		name := unit.name
		if unit.n != 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", unit.n, name))
	}

	if len(parts) == 0 {
		return "due now"
	}
	return strings.Join(parts, ", ")
}
