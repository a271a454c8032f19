package routes

import (
	"net/http"

	"github.com/stridelog/stridelog/internal/app"
	"github.com/stridelog/stridelog/internal/handler"
	"github.com/stridelog/stridelog/internal/middleware"
	"github.com/stridelog/stridelog/internal/problem"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.Ping)
	goal := handler.NewGoalHandler(app.GoalService)
	progress := handler.NewProgressHandler(app.ProgressService)
	dashboard := handler.NewDashboardHandler(app.DashboardService)
	export := handler.NewExportHandler(app.ExportService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", health.Health)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Goals
	mux.HandleFunc("GET /goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("GET /goals/export", middleware.RequireAuth(export.Export))
	mux.HandleFunc("GET /goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("GET /goals/{id}/progress", middleware.RequireAuth(progress.Summary))
	mux.HandleFunc("POST /goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("PUT /goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /goals/{id}", middleware.RequireAuth(goal.Delete))

	// Progress
	mux.HandleFunc("GET /progress", middleware.RequireAuth(progress.List))
	mux.HandleFunc("POST /progress", middleware.RequireAuth(progress.Log))
	mux.HandleFunc("DELETE /progress/{id}", middleware.RequireAuth(progress.Delete))

	// Dashboard
	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(dashboard.Dashboard))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404, GET only so known paths keep ServeMux's 405 with Allow
	mux.HandleFunc("GET /{path...}", func(w http.ResponseWriter, r *http.Request) {
		problem.Write(w, r, http.StatusNotFound, "The requested resource was not found")
	})

	idempotency := middleware.NewIdempotency(app.IdempotencyStore, app.Cfg.IdempotencyTTL)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.WithRequestID, // Request id first so every log line carries it
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.AuthMiddleware(middleware.NewTokenVerifier(app.Cfg.JWTSecret)),
		idempotency.Middleware, // Needs the user id set by AuthMiddleware
	)

	return handler
}
