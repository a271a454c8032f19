package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/stridelog/stridelog/internal/app"
	"github.com/stridelog/stridelog/internal/config"
	"github.com/stridelog/stridelog/internal/logger"
	"github.com/stridelog/stridelog/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.AppName, cfg.IsDevelopment(), cfg.SentryDSN)

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(application),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			application.Close()
			logger.Flush(2 * time.Second)
			os.Exit(1)
		}
	}()

	// Drain requests before closing the database and caches they use
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"stridelog": func(ctx context.Context) error {
				slog.Info("graceful shutdown initiated")
				shutdownErr := srv.Shutdown(ctx)
				closeErr := application.Close()
				logger.Flush(2 * time.Second)
				return errors.Join(shutdownErr, closeErr)
			},
		},
	)

	exitCode := <-wait
	slog.Info("server stopped", "exit_code", exitCode)
	os.Exit(exitCode)
}
