package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stridelog/stridelog/internal/cache"
	"github.com/stridelog/stridelog/internal/config"
	"github.com/stridelog/stridelog/internal/db"
	"github.com/stridelog/stridelog/internal/repository"
	"github.com/stridelog/stridelog/internal/service"
	"github.com/stridelog/stridelog/internal/storage"
	"github.com/stridelog/stridelog/internal/usecase"
)

const memorySweepInterval = 5 * time.Minute

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	ProgressCache    cache.Cache
	IdempotencyStore cache.Cache
	GoalService      *service.GoalService
	ProgressService  *service.ProgressService
	DashboardService *service.DashboardService
	ExportService    *service.ExportService

	redis  *cache.Redis
	cancel context.CancelFunc
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.AutoMigrate {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	a := &App{
		Cfg:    cfg,
		DB:     database,
		cancel: cancel,
	}

	err = a.initCaches(ctx, bgCtx)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Export storage is optional; without it exports are streamed inline
	var exportStorage storage.Storage
	if cfg.StorageEnabled() {
		s3Storage, err := storage.New(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		exportStorage = s3Storage
	}

	// Repositories
	goalRepository := repository.NewGoalRepository(database, cfg.DBTimeout)
	progressEntryRepository := repository.NewProgressEntryRepository(database, cfg.DBTimeout)

	// Use cases
	progressCache := usecase.NewProgressCache(a.ProgressCache)
	goals := usecase.NewGoals(goalRepository, progressEntryRepository, progressCache)
	progress := usecase.NewProgress(goalRepository, progressEntryRepository, progressCache)

	// Services
	a.GoalService = service.NewGoalService(goals)
	a.ProgressService = service.NewProgressService(progress)
	a.DashboardService = service.NewDashboardService(goals, progress, cfg.RecentActivityLimit)
	a.ExportService = service.NewExportService(goals, progress, exportStorage)

	return a, nil
}

// initCaches uses Redis when configured and in-memory caches otherwise.
func (a *App) initCaches(ctx, bgCtx context.Context) error {
	if !a.Cfg.RedisEnabled() {
		progressCache := cache.NewMemory(a.Cfg.ProgressCacheTTL)
		idempotencyStore := cache.NewMemory(a.Cfg.IdempotencyTTL)
		go progressCache.Run(bgCtx, memorySweepInterval)
		go idempotencyStore.Run(bgCtx, memorySweepInterval)

		a.ProgressCache = progressCache
		a.IdempotencyStore = idempotencyStore
		slog.Info("using in-memory caches")
		return nil
	}

	redisCache, err := cache.NewRedis(ctx, cache.RedisConfig{
		Addr:     a.Cfg.RedisAddr,
		Password: a.Cfg.RedisPassword,
		DB:       a.Cfg.RedisDB,
		Prefix:   "stridelog:progress:",
		TTL:      a.Cfg.ProgressCacheTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}

	a.redis = redisCache
	a.ProgressCache = redisCache
	a.IdempotencyStore = cache.NewRedisFromClient(redisCache.Client(), "stridelog:", a.Cfg.IdempotencyTTL)
	slog.Info("redis connected", "addr", a.Cfg.RedisAddr)
	return nil
}

// Ping checks the database, and Redis when configured, within the
// configured timeout.
func (a *App) Ping(ctx context.Context) error {
	err := db.Ping(ctx, a.DB, a.Cfg.DBTimeout)
	if err != nil {
		return err
	}

	if a.redis != nil {
		ctx, cancel := context.WithTimeout(ctx, a.Cfg.DBTimeout)
		defer cancel()
		err = a.redis.Ping(ctx)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}

	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, db.Close(a.DB))
	return errors.Join(errs...)
}
