package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pfbeta/internal/config"
	apierrors "pfbeta/internal/errors"
	"pfbeta/internal/infrastructure"
	"pfbeta/internal/marketdata"
	customMiddleware "pfbeta/internal/middleware"
	"pfbeta/internal/normalize"
	"pfbeta/internal/portfolio"
	handlers "pfbeta/internal/transport/http"
)

const (
	// Version is the service version reported by /api/health.
	Version = "1.0.0"
	// AppName is the human-readable service name used in startup logs.
	AppName = "Portfolio Beta Calculator"
)

// Application is the assembled portfolio beta service.
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Providers *marketdata.Providers
	Pipeline  *normalize.Pipeline
	Engine    *portfolio.Engine
	Logger    *slog.Logger
}

// NewApplication loads configuration and wires every component.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	providers := marketdata.NewProviders(cfg.Providers, logger)

	app := &Application{
		Config:    cfg,
		Providers: providers,
		Pipeline: normalize.NewPipeline(
			normalize.ParsePolicy(cfg.Normalize.HeaderPolicy),
			cfg.Normalize.ScanDepth,
			logger,
		),
		Engine: portfolio.NewEngine(
			cfg.Portfolio,
			providers.Symbols,
			providers.Equities,
			providers.Funds,
			providers.Benchmark,
			logger,
		),
		Logger: logger,
	}

	app.setupRouter()
	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)
	web := handlers.NewWebHandler()

	// Static assets skip the request logging and rate limit chain.
	r.Get("/", web.Index)
	r.Handle("/static/*", web.Static())

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Compress(5))
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))

		if a.Config.Server.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Server.RateLimit.RPS,
				a.Config.Server.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Route("/api", func(r chi.Router) {
			r.Mount("/health", handlers.NewHealthHandler(Version, a.Logger).Routes())
			r.Mount("/portfolio", handlers.NewPortfolioHandler(
				a.Pipeline,
				a.Engine,
				a.Config.Server.MaxUploadBytes,
				a.Logger,
				errorHandler,
			).Routes())
		})

		r.NotFound(errorHandler.NotFound)
		r.MethodNotAllowed(errorHandler.MethodNotAllowed)
	})

	// Prometheus endpoint stays outside the middleware group.
	r.Handle("/metrics", promhttp.Handler())

	a.Router = r
}

// Start begins serving. It returns immediately; the server runs until
// Stop is called or the listener fails.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	// Detach shutdown from the cancelled run context.
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*a.Config.Server.ShutdownTimeout)
	defer stopCancel()
	return a.Stop(stopCtx)
}
