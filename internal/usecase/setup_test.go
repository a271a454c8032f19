package usecase

import (
	"time"

	"github.com/stridelog/stridelog/internal/cache"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	goals    *fakeGoals
	entries  *fakeEntries
	cache    *cache.Memory
	goalUC   *Goals
	progress *Progress
}

func newFixture() *fixture {
	entries := newFakeEntries()
	goals := newFakeGoals(entries)
	entries.goals = goals

	mem := cache.NewMemory(time.Hour)
	progressCache := NewProgressCache(mem)

	goalUC := NewGoals(goals, entries, progressCache)
	goalUC.now = func() time.Time { return testNow }
	progressUC := NewProgress(goals, entries, progressCache)
	progressUC.now = func() time.Time { return testNow }

	return &fixture{
		goals:    goals,
		entries:  entries,
		cache:    mem,
		goalUC:   goalUC,
		progress: progressUC,
	}
}

func ptr[T any](v T) *T {
	return &v
}
