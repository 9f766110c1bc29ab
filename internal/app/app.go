package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"vitiscli/internal/config"
	apierrors "vitiscli/internal/errors"
	"vitiscli/internal/files"
	"vitiscli/internal/infrastructure"
	"vitiscli/internal/memo"
	customMiddleware "vitiscli/internal/middleware"
	"vitiscli/internal/services"
	"vitiscli/internal/store"
	handlers "vitiscli/internal/transport/http"
)

// BuildTime is set at compile time
var BuildTime = ""

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Paths            *config.Paths
	Router           *chi.Mux
	Server           *http.Server
	Store            store.Store
	Cache            *memo.Cache
	AnalyticsService *services.AnalyticsService
	HealthService    *services.HealthService
	Metrics          *infrastructure.AnalyticsMetrics
	OTelProviders    *infrastructure.OTelProviders
	Logger           *slog.Logger
}

// NewApplication wires storage, services and the HTTP router. A nil cfg is
// loaded from the environment; a nil logger uses the infrastructure logger.
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		l, err := infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	paths, err := cfg.Paths.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelCfg := infrastructure.DefaultOTelConfig(cfg.Telemetry.ServiceName, config.AppVersion)
	otelCfg.EnableTracing = cfg.Telemetry.TracingEnabled
	otelCfg.EnableMetrics = cfg.Telemetry.MetricsEnabled
	otelProviders, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	if err := app.initializeServices(ctx); err != nil {
		otelProviders.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()
	return app, nil
}

// initializeServices opens the store and builds the analytics and health services
func (a *Application) initializeServices(ctx context.Context) error {
	metrics, err := infrastructure.NewAnalyticsMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create analytics metrics: %w", err)
	}
	a.Metrics = metrics

	st, err := store.New(ctx, a.Config.Storage, a.Paths.ProcessedDir, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", a.Config.Storage.Driver, err)
	}
	a.Store = st

	a.Cache = memo.New(a.Config.Analysis.CacheTTL, a.Config.Analysis.CacheSize)

	window := services.Window{Start: a.Config.Analysis.StartYear, End: a.Config.Analysis.EndYear}
	analyticsService, err := services.NewAnalyticsService(st, a.Cache, a.Config.Analysis.Params(), window,
		services.WithLogger(a.Logger),
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithMetrics(metrics),
	)
	if err != nil {
		st.Close()
		return fmt.Errorf("failed to initialize analytics service: %w", err)
	}
	a.AnalyticsService = analyticsService

	a.HealthService = services.NewHealthService(config.AppVersion, BuildTime, st, a.Cache.Stats, a.Logger)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Server.IncludeStack)

	// RequestID → RealIP → Logger → Recoverer → OTel, then response headers and limits
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(errorHandler))
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(a.getCORSConfig()))

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		if a.Config.Server.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Server.RateLimit.RPS,
				a.Config.Server.RateLimit.Burst,
				a.Logger,
			).Handler)
		}
		a.setupAPIRoutes(r, errorHandler)
	})

	// Prometheus scrape endpoint sits outside the rate limiter
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		metricsHandler := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.Cache.Stats)
		r.Mount("/metrics", metricsHandler.Routes())

		analyticsHandler := handlers.NewAnalyticsHandler(a.AnalyticsService, a.Logger, errorHandler)
		r.Mount("/analytics", analyticsHandler.Routes())

		filesHandler := handlers.NewFilesHandler(files.NewCatalog(a.Paths), a.Logger, errorHandler)
		r.Mount("/files", filesHandler.Routes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", customMiddleware.RequestIDHeader},
		MaxAge:         300,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server in the background. A listen failure cancels ctx.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", a.Server.Addr),
		slog.String("storage", a.Config.Storage.Driver),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if a.Server != nil {
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.ErrorContext(ctx, "Error closing store", slog.String("error", err.Error()))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck verifies output directories are writable and the
// store answers. Problems are reported, not fatal.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	var warnings []string

	directories := map[string]string{
		"Processed": a.Paths.ProcessedDir,
		"Reports":   a.Paths.ReportsDir,
		"Logs":      a.Paths.LogsDir,
	}
	for name, dir := range directories {
		testFile := filepath.Join(dir, ".write_test")
		if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s directory not writable: %s", name, dir))
		} else {
			os.Remove(testFile)
		}
	}

	if !config.FileExists(a.Paths.RawDir) {
		a.Logger.InfoContext(ctx, "Raw data directory not found",
			slog.String("path", a.Paths.RawDir))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.Store.Ping(pingCtx); err != nil {
		warnings = append(warnings, fmt.Sprintf("store unavailable: %v", err))
	}

	if len(warnings) > 0 {
		return fmt.Errorf("startup health check warnings: %s", strings.Join(warnings, "; "))
	}

	a.Logger.InfoContext(ctx, "Startup health check passed")
	return nil
}
