// Package rest wires the HTTP surface: middleware chain and routes.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskdeck/taskdeck/internal/api/rest/handlers"
	customMiddleware "github.com/taskdeck/taskdeck/internal/api/rest/middleware"
	"github.com/taskdeck/taskdeck/pkg/auth"
	"github.com/taskdeck/taskdeck/pkg/config"
	"github.com/taskdeck/taskdeck/pkg/logger"
	"github.com/taskdeck/taskdeck/pkg/metrics"
)

const maxRequestSize = 1 << 20 // 1 MB

// Router holds the HTTP router and dependencies
type Router struct {
	router      *chi.Mux
	logger      *logger.Logger
	handlers    *handlers.Handlers
	jwtManager  *auth.JWTManager
	keyHashes   []string
	metrics     *metrics.Metrics
	rateLimiter *customMiddleware.RateLimiter
}

// NewRouter creates a new HTTP router
func NewRouter(cfg *config.Config, log *logger.Logger, h *handlers.Handlers, jwtManager *auth.JWTManager, m *metrics.Metrics) *Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Use(customMiddleware.Metrics(m))

	r.Use(customMiddleware.SecurityHeaders())
	r.Use(customMiddleware.RequestSizeLimit(maxRequestSize))

	allowedOrigins := cfg.Server.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	// Never allow "*" with credentials enabled
	allowCredentials := true
	for _, origin := range allowedOrigins {
		if origin == "*" {
			log.Warn("CORS: Wildcard origin '*' detected with credentials enabled. Disabling credentials.")
			allowCredentials = false
			break
		}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}))

	var jm *auth.JWTManager
	if cfg.Auth.JWTSecret != "" {
		jm = jwtManager
	}

	rl := customMiddleware.NewRateLimiter(100, 200, log)
	go rl.Cleanup(context.Background(), 10*time.Minute)

	return &Router{
		router:      r,
		logger:      log,
		handlers:    h,
		jwtManager:  jm,
		keyHashes:   cfg.Auth.APIKeyHashes,
		metrics:     m,
		rateLimiter: rl,
	}
}

// SetupRoutes configures all API routes
func (r *Router) SetupRoutes() {
	// Prometheus metrics endpoint (no auth required)
	r.router.Handle("/metrics", promhttp.Handler())

	// Health endpoints (no auth required)
	r.router.Get("/health", r.handlers.Health.Health)
	r.router.Get("/ready", r.handlers.Health.Ready)

	// API v1
	r.router.Route("/api/v1", func(router chi.Router) {
		router.Group(func(router chi.Router) {
			router.Use(customMiddleware.Auth(r.jwtManager, r.keyHashes, r.logger))
			router.Use(customMiddleware.RateLimit(r.rateLimiter))

			// Translator
			router.Route("/translate", func(router chi.Router) {
				router.Post("/parse", r.handlers.Translate.Parse)
				router.Post("/build", r.handlers.Translate.Build)
				router.Post("/describe", r.handlers.Translate.Describe)
			})

			// Schedules
			router.Route("/schedules", func(router chi.Router) {
				router.Get("/", r.handlers.Schedule.ListSchedules)
				router.Post("/", r.handlers.Schedule.CreateSchedule)
				router.Get("/{id}", r.handlers.Schedule.GetSchedule)
				router.Put("/{id}", r.handlers.Schedule.UpdateSchedule)
				router.Delete("/{id}", r.handlers.Schedule.DeleteSchedule)
				router.Get("/{id}/next-runs", r.handlers.Schedule.GetNextRuns)
			})

			// Task-scoped schedule listing
			router.Get("/tasks/{id}/schedules", r.handlers.Schedule.GetTaskSchedules)

			// Live schedule events (only if the hub is configured)
			if r.handlers.WebSocket != nil {
				router.Get("/ws", r.handlers.WebSocket.HandleWebSocket)
				router.Get("/ws/stats", r.handlers.WebSocket.HandleStats)
			}
		})
	})
}

// Handler returns the http.Handler
func (r *Router) Handler() http.Handler {
	return r.router
}
