package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stridelog/stridelog/internal/model"
	"github.com/stridelog/stridelog/internal/repository"
)

type fakeGoals struct {
	mu      sync.Mutex
	order   []string
	goals   map[string]model.Goal
	entries *fakeEntries
	err     error
	updates int
}

func newFakeGoals(entries *fakeEntries) *fakeGoals {
	return &fakeGoals{goals: map[string]model.Goal{}, entries: entries}
}

func (f *fakeGoals) Create(ctx context.Context, goal *model.Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	goal.ID = uuid.New().String()
	goal.CreatedAt = time.Now().UTC()
	goal.UpdatedAt = goal.CreatedAt
	f.goals[goal.ID] = *goal
	f.order = append(f.order, goal.ID)
	return nil
}

func (f *fakeGoals) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	goal, ok := f.goals[goalID]
	if !ok {
		return nil, repository.ErrGoalNotFound
	}
	return &goal, nil
}

func (f *fakeGoals) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var goals []*model.Goal
	for _, id := range f.order {
		goal, ok := f.goals[id]
		if ok && goal.UserID == userID {
			goals = append(goals, &goal)
		}
	}
	return goals, nil
}

func (f *fakeGoals) Update(ctx context.Context, goal *model.Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.goals[goal.ID]; !ok {
		return repository.ErrGoalNotFound
	}
	goal.UpdatedAt = time.Now().UTC()
	f.goals[goal.ID] = *goal
	f.updates++
	return nil
}

func (f *fakeGoals) Delete(ctx context.Context, goalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.goals[goalID]; !ok {
		return repository.ErrGoalNotFound
	}
	delete(f.goals, goalID)
	if f.entries != nil {
		f.entries.deleteForGoal(goalID)
	}
	return nil
}

func (f *fakeGoals) owner(goalID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.goals[goalID].UserID
}

type fakeEntries struct {
	mu      sync.Mutex
	entries map[string]model.ProgressEntry
	goals   *fakeGoals
	err     error
	reads   int
	// afterRead runs once, after the next read has taken its snapshot.
	afterRead func()
}

func newFakeEntries() *fakeEntries {
	return &fakeEntries{entries: map[string]model.ProgressEntry{}}
}

func (f *fakeEntries) Create(ctx context.Context, entry *model.ProgressEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()
	entry.UpdatedAt = entry.CreatedAt
	f.entries[entry.ID] = *entry
	return nil
}

func (f *fakeEntries) ByID(ctx context.Context, entryID string) (*model.ProgressEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	entry, ok := f.entries[entryID]
	if !ok {
		return nil, repository.ErrProgressEntryNotFound
	}
	return &entry, nil
}

func (f *fakeEntries) Entries(ctx context.Context, goalID string) ([]*model.ProgressEntry, error) {
	return f.filter(func(entry model.ProgressEntry) bool { return entry.GoalID == goalID })
}

func (f *fakeEntries) EntriesByUser(ctx context.Context, userID string) ([]*model.ProgressEntry, error) {
	return f.filter(func(entry model.ProgressEntry) bool { return f.goals.owner(entry.GoalID) == userID })
}

func (f *fakeEntries) Recent(ctx context.Context, userID string, limit int) ([]*model.ProgressEntry, error) {
	entries, err := f.EntriesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeEntries) Delete(ctx context.Context, entryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.entries[entryID]; !ok {
		return repository.ErrProgressEntryNotFound
	}
	delete(f.entries, entryID)
	return nil
}

func (f *fakeEntries) filter(keep func(model.ProgressEntry) bool) ([]*model.ProgressEntry, error) {
	f.mu.Lock()
	if f.err != nil {
		f.mu.Unlock()
		return nil, f.err
	}
	f.reads++
	var matched []model.ProgressEntry
	for _, entry := range f.entries {
		matched = append(matched, entry)
	}
	hook := f.afterRead
	f.afterRead = nil
	f.mu.Unlock()

	if hook != nil {
		hook()
	}

	var entries []*model.ProgressEntry
	for i := range matched {
		if keep(matched[i]) {
			entries = append(entries, &matched[i])
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

func (f *fakeEntries) deleteForGoal(goalID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, entry := range f.entries {
		if entry.GoalID == goalID {
			delete(f.entries, id)
		}
	}
}

func (f *fakeEntries) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *fakeEntries) onNextRead(hook func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.afterRead = hook
}
