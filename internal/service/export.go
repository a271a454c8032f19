package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/stridelog/stridelog/internal/apperr"
	"github.com/stridelog/stridelog/internal/format"
	"github.com/stridelog/stridelog/internal/model"
	"github.com/stridelog/stridelog/internal/progress"
	"github.com/stridelog/stridelog/internal/storage"
	"github.com/stridelog/stridelog/internal/usecase"
)

type ExportEntry struct {
	ID    string    `json:"id"`
	Value float64   `json:"value"`
	Date  time.Time `json:"date"`
}

type ExportGoal struct {
	ID          string         `json:"id"`
	Type        model.GoalType `json:"type"`
	Label       string         `json:"label"`
	TargetValue float64        `json:"targetValue"`
	Deadline    time.Time      `json:"deadline"`
	Progress    string         `json:"progress"`
	Remaining   string         `json:"remaining"`
	Log         string         `json:"log"`
	Entries     []ExportEntry  `json:"entries"`
}

type ExportDocument struct {
	UserID     string       `json:"userId"`
	ExportedAt time.Time    `json:"exportedAt"`
	Goals      []ExportGoal `json:"goals"`
}

// Export is either uploaded (URL set) or returned inline for streaming.
type Export struct {
	Document *ExportDocument
	URL      string
}

type ExportService struct {
	goals    *usecase.Goals
	progress *usecase.Progress
	storage  storage.Storage
	now      func() time.Time
}

// NewExportService builds the export service. A nil store disables uploads
// and every export is returned inline.
func NewExportService(goals *usecase.Goals, progress *usecase.Progress, store storage.Storage) *ExportService {
	return &ExportService{
		goals:    goals,
		progress: progress,
		storage:  store,
		now:      time.Now,
	}
}

func (s *ExportService) Export(ctx context.Context, userID string) (*Export, error) {
	doc, err := s.Document(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.storage == nil {
		return &Export{Document: doc}, nil
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/goals-%s.json", userID, doc.ExportedAt.Format("20060102T150405Z"))

	err = s.storage.Save(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Persistence("upload export", err)
	}

	url, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		// An export nobody can download is removed
		deleteErr := s.storage.Delete(ctx, key)
		if deleteErr != nil {
			slog.Warn("failed to remove unsigned export", "error", deleteErr, "key", key)
		}
		return nil, apperr.Persistence("sign export url", err)
	}

	return &Export{Document: doc, URL: url}, nil
}

// Document collects every goal of the requester with its entries.
func (s *ExportService) Document(ctx context.Context, userID string) (*ExportDocument, error) {
	goals, err := s.goals.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.progress.EntriesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byGoal := make(map[string][]*model.ProgressEntry, len(goals))
	for _, entry := range entries {
		byGoal[entry.GoalID] = append(byGoal[entry.GoalID], entry)
	}

	now := s.now().UTC()
	doc := &ExportDocument{
		UserID:     userID,
		ExportedAt: now,
		Goals:      make([]ExportGoal, 0, len(goals)),
	}

	for _, goal := range goals {
		goalEntries := byGoal[goal.ID]
		exported := ExportGoal{
			ID:          goal.ID,
			Type:        goal.Type,
			Label:       format.Goal(goal),
			TargetValue: goal.TargetValue,
			Deadline:    goal.Deadline,
			Progress:    format.Percentage(goal.Progress),
			Remaining:   format.Remaining(progress.RemainingTime(goal, now)),
			Log:         format.ProgressLog(goalEntries),
			Entries:     make([]ExportEntry, 0, len(goalEntries)),
		}
		for _, entry := range goalEntries {
			exported.Entries = append(exported.Entries, ExportEntry{
				ID:    entry.ID,
				Value: entry.Value,
				Date:  entry.Date,
			})
		}
		doc.Goals = append(doc.Goals, exported)
	}

	return doc, nil
}
