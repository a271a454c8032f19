package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/stridelog/stridelog/internal/cache"
)

// ProgressCache holds computed goal percentages. Entries stay the source of
// truth: every entry write or goal change bumps the goal's generation, and
// cache failures only cost a recomputation.
//
// Values are keyed by generation. A reader captures the generation before
// loading entries and stores under it, so a result computed before a
// concurrent write lands under a key no later reader asks for.
type ProgressCache struct {
	cache cache.Cache
}

// progressVersion is the generation a reader observed; Store ignores the
// zero value.
type progressVersion struct {
	gen   int64
	valid bool
}

func NewProgressCache(c cache.Cache) *ProgressCache {
	return &ProgressCache{cache: c}
}

func generationKey(goalID string) string {
	return "goal:" + goalID + ":gen"
}

func progressKey(goalID string, gen int64) string {
	return "goal:" + goalID + ":progress:" + strconv.FormatInt(gen, 10)
}

// Get returns the cached percentage for the goal's current generation and
// the version a later Store must carry.
func (p *ProgressCache) Get(ctx context.Context, goalID string) (float64, progressVersion, bool) {
	if p == nil || p.cache == nil {
		return 0, progressVersion{}, false
	}

	var gen int64
	_, err := p.cache.Get(ctx, generationKey(goalID), &gen)
	if err != nil {
		slog.Warn("progress cache read failed", "error", err, "goal_id", goalID)
		return 0, progressVersion{}, false
	}
	version := progressVersion{gen: gen, valid: true}

	var percentage float64
	found, err := p.cache.Get(ctx, progressKey(goalID, gen), &percentage)
	if err != nil {
		slog.Warn("progress cache read failed", "error", err, "goal_id", goalID)
		return 0, version, false
	}
	return percentage, version, found
}

func (p *ProgressCache) Store(ctx context.Context, goalID string, version progressVersion, percentage float64) {
	if p == nil || p.cache == nil || !version.valid {
		return
	}

	err := p.cache.Set(ctx, progressKey(goalID, version.gen), percentage)
	if err != nil {
		slog.Warn("progress cache write failed", "error", err, "goal_id", goalID)
	}
}

// Invalidate moves the goal to a new generation. Values stored under older
// generations are never read again and expire with the cache TTL.
func (p *ProgressCache) Invalidate(ctx context.Context, goalID string) {
	if p == nil || p.cache == nil {
		return
	}

	_, err := p.cache.Incr(ctx, generationKey(goalID))
	if err != nil {
		slog.Warn("progress cache invalidation failed", "error", err, "goal_id", goalID)
	}
}
