package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"ysianalyzer/internal/config"
	"ysianalyzer/internal/dataprocessing"
	"ysianalyzer/internal/errors"
	"ysianalyzer/internal/exporter"
	"ysianalyzer/internal/infrastructure"
	customMiddleware "ysianalyzer/internal/middleware"
	"ysianalyzer/internal/plates"
	"ysianalyzer/internal/services"
	handlers "ysianalyzer/internal/transport/http"
	"ysianalyzer/internal/validation"
	"ysianalyzer/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
	Metrics         *infrastructure.Metrics
	ErrorHandler    *errors.ErrorHandler
	AnalysisService *services.AnalysisService
	HealthService   *services.HealthService

	paths    *config.Paths
	uploads  *validation.FileValidator
	listener net.Listener
}

// NewApplication loads the configuration, initializes the global logger and
// wires the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Logging.FilePath = cfg.GetLogFile()
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires an application from an already loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("addr", cfg.Server.Addr()))

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	paths = paths.WithConfig(cfg)
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry, contracts.Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  errors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
		paths:         paths,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the pipeline services.
func (a *Application) initializeServices() error {
	policy, err := dataprocessing.ParseConcentrationPolicy(a.Config.Analysis.ConcentrationPolicy)
	if err != nil {
		return errors.NewConfigError("concentration policy", err)
	}

	a.uploads = validation.NewFileValidator(a.Logger, a.Config.Analysis.MaxUploadBytes, nil)
	if err := a.uploads.ValidateScratchDirectory(a.paths.ScratchDir); err != nil {
		return err
	}

	builder := plates.NewBuilder(a.Logger,
		customMiddleware.NewValidationMiddleware(a.Logger),
		a.uploads,
		plates.BuilderConfig{MaxPlates: a.Config.Analysis.MaxPlates})

	exp := exporter.NewExporter(a.Logger,
		exporter.NewWorkbookWriter(a.Logger, a.paths.ScratchDir),
		a.Config.Analysis.ExportFilename)

	a.AnalysisService = services.NewAnalysisService(a.Logger, builder, exp,
		services.AnalysisServiceConfig{Policy: policy},
		a.OTelProviders.Tracer, a.Metrics)

	a.HealthService = services.NewHealthService(contracts.Version, a.paths.ScratchDir, a.uploads, a.Logger)

	a.Logger.Info("Services initialized",
		slog.String("policy", policy.String()),
		slog.Int("max_plates", a.Config.Analysis.MaxPlates),
		slog.Int64("max_upload_bytes", a.Config.Analysis.MaxUploadBytes))
	return nil
}

// setupRouter builds the chi router.
// Middleware order: RequestID → RealIP → OTel → Logger → Recoverer →
// SecurityHeaders → CORS → RateLimiter → Timeout.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
	} else {
		r.Use(otelMiddleware.Handler)
	}

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))

	secure := customMiddleware.DefaultSecureHeaders()
	secure.DevMode = a.Config.Telemetry.Environment == "development"
	r.Use(secure.Handler)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	// Scrapes are not rate limited or bounded by the request timeout.
	r.Method(http.MethodGet, config.MetricsEndpoint,
		handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))

	r.Group(func(r chi.Router) {
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		maxBytes := a.Config.Analysis.MaxUploadBytes

		pages := handlers.NewPageHandler(a.AnalysisService, a.Logger, a.ErrorHandler, maxBytes, contracts.Version)
		pages.RegisterRoutes(r)

		health := handlers.NewHealthHandler(a.HealthService, a.Logger)
		analysis := handlers.NewAnalysisHandler(a.AnalysisService, a.Logger, a.ErrorHandler, maxBytes)

		r.Route("/api", func(r chi.Router) {
			health.RegisterRoutes(r)
			r.Mount("/v1", analysis.Routes())
		})
	})

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// Start binds the listener and serves in the background. A serve failure
// cancels ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln

	go func() {
		if err := a.Server.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://%s", ln.Addr().String())),
		slog.String("metrics", config.MetricsEndpoint))
	return nil
}

// Addr returns the bound listen address once Start has run.
func (a *Application) Addr() string {
	if a.listener == nil {
		return a.Server.Addr
	}
	return a.listener.Addr().String()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted or until the server fails.
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.Info("Received shutdown signal")

	return a.Stop(context.Background())
}
