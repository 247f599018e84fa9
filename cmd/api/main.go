// Package main is the entrypoint for the Eventwall API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/eventwall/eventwall/internal/cache"
	"github.com/eventwall/eventwall/internal/config"
	"github.com/eventwall/eventwall/internal/handler"
	"github.com/eventwall/eventwall/internal/metrics"
	"github.com/eventwall/eventwall/internal/middleware"
	"github.com/eventwall/eventwall/internal/repository"
	"github.com/eventwall/eventwall/internal/server"
	"github.com/eventwall/eventwall/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	eventService := service.NewEventService(repo, cacheClient, cfg.EventsCacheTTL, metricsRecorder)
	analyticsService := service.NewAnalyticsService(repo, cfg.AnalyticsHashSalt, metricsRecorder)
	credentialService := service.NewCredentialService(repo, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	eventHandler := handler.NewEventHandler(eventService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, logger)
	authHandler := handler.NewAuthHandler(credentialService, logger)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	// Setup router
	r := setupRouter(h, healthHandler, eventHandler, analyticsHandler, authHandler, metricsHandler, cacheClient, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	eventHandler *handler.EventHandler,
	analyticsHandler *handler.AnalyticsHandler,
	authHandler *handler.AuthHandler,
	metricsHandler *handler.MetricsHandler,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.DefaultSecurityConfig()))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORSAllowedOrigins != "" {
		corsCfg.AllowedOrigins = splitOrigins(cfg.CORSAllowedOrigins)
	}
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Operational metrics
	r.Get("/metrics", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Rate limit middleware configuration for the public tracking endpoint
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:          logger,
		Cache:           cacheClient,
		TrackingEnabled: cfg.RateLimitTrackingEnabled,
		TrackingRPS:     cfg.RateLimitTrackingRPS,
		TrackingBurst:   cfg.RateLimitTrackingBurst,
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Event management
		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.List)
			r.Get("/visible", eventHandler.ListVisible)
			r.Post("/", eventHandler.Create)
			r.Put("/", eventHandler.Update)
			r.Delete("/", eventHandler.Delete)
		})

		// Ordering
		r.Post("/reorder", eventHandler.Reorder)

		// Analytics tracking and reporting
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/analytics", analyticsHandler.Track)
		r.Get("/analytics", analyticsHandler.Report)

		// Admin credential check
		r.Post("/auth", authHandler.Verify)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// splitOrigins parses a comma-separated origin list from the environment.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
