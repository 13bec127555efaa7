package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"launchdash/internal/binding"
	"launchdash/internal/config"
	"launchdash/internal/dataset"
	apierrors "launchdash/internal/errors"
	"launchdash/internal/infrastructure"
	customMiddleware "launchdash/internal/middleware"
	"launchdash/internal/services"
	handlers "launchdash/internal/transport/http"
	ws "launchdash/internal/websocket"
	"launchdash/pkg/contracts"
)

// AppName is logged at startup
const AppName = "launchdash - SpaceX launch records dashboard"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.DashboardMetrics
	Dataset       *dataset.Dataset
	Dispatcher    *binding.Dispatcher
	WebSocketHub  *ws.Hub
	Services      *ServiceContainer
	ErrorHandler  *apierrors.ErrorHandler

	openBrowser bool
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Health    *services.HealthService
}

// Option configures an Application
type Option func(*Application)

// WithDataset uses ds instead of loading the configured source
func WithDataset(ds *dataset.Dataset) Option {
	return func(a *Application) { a.Dataset = ds }
}

// WithBrowser opens the dashboard in the default browser once the server
// answers its health check
func WithBrowser(open bool) Option {
	return func(a *Application) { a.openBrowser = open }
}

// NewApplication wires every component from cfg. Startup faults such as a
// malformed dataset are returned to the caller.
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("nil configuration")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	otelProviders, err := infrastructure.InitializeOTel(
		infrastructure.OTelConfigFrom(cfg.Telemetry, contracts.Version), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateDashboardMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices loads the dataset and builds the services on top of it
func (a *Application) initializeServices(ctx context.Context) error {
	if a.Dataset == nil {
		ds, err := dataset.NewLoader(a.Config.Dataset, a.Logger).Load(ctx)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		a.Dataset = ds
	}
	a.Metrics.RecordDatasetRows(ctx, a.Dataset.Source(), a.Dataset.Len())

	a.Dispatcher = binding.NewDispatcher(
		binding.NewDashboardGraph(), a.Dataset, a.Logger,
		binding.WithMetrics(a.Metrics),
		binding.WithTracer(a.OTelProviders.Tracer),
	)

	a.WebSocketHub = ws.NewHub(a.Logger,
		ws.WithHubMetrics(a.Metrics),
		ws.WithHeartbeat(a.Config.WebSocket.PingPeriod),
	)

	a.Services = &ServiceContainer{
		Dashboard: services.NewDashboardService(a.Dispatcher, a.Config.Dashboard, a.Logger),
		Health:    services.NewHealthService(a.Dataset, a.WebSocketHub, a.Logger),
	}
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Only middleware that leaves the ResponseWriter hijackable runs before /ws
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	wsHandler := ws.NewHandler(a.WebSocketHub, a.Dispatcher, a.Config.WebSocket,
		a.Config.Security.AllowedOrigins, a.Logger, a.Metrics)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", wsHandler)

	metricsHandler := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.WebSocketHub, a.Logger)
	r.Get("/metrics", metricsHandler.Prometheus)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(a.ErrorHandler.Recoverer)
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(customMiddleware.Compress(5, "text/html", "application/json", "image/svg+xml", "text/csv"))

		r.Handle("/", handlers.NewPageHandler(a.Services.Dashboard, a.Logger, a.ErrorHandler))
		a.setupAPIRoutes(r, metricsHandler)
	})

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, metricsHandler *handlers.MetricsHandler) {
	dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, a.Logger, a.ErrorHandler)
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	clientLogHandler := handlers.NewClientLogHandler(a.Logger, a.ErrorHandler, dashboardHandler.Validator())

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", dashboardHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Mount("/websocket", metricsHandler.Routes())
		r.With(render.SetContentType(render.ContentTypeJSON)).Post("/client-log", clientLogHandler.Handle)
	})
}

// getCORSConfig allows the configured origins only
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
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

// Handler returns the root HTTP handler
func (a *Application) Handler() http.Handler { return a.Router }

// Serve runs the hub and the HTTP server on l until ctx is cancelled, then
// shuts down gracefully
func (a *Application) Serve(ctx context.Context, l net.Listener) error {
	a.WebSocketHub.Start()

	addr := l.Addr().String()
	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", "http://"+addr),
		slog.Int("rows", a.Dataset.Len()),
		slog.String("level", a.Config.Logging.Level))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.Server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})
	if a.openBrowser {
		g.Go(func() error {
			a.openWhenReady(gctx, "http://"+addr)
			return nil
		})
	}

	return g.Wait()
}

// Run listens on the configured address and serves until ctx is cancelled
func (a *Application) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, l)
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	// Hijacked WebSocket connections are not tracked by Shutdown
	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete",
		slog.Duration("timeout", a.Config.Server.ShutdownTimeout))
	return errors.Join(errs...)
}

// waitReady polls the liveness endpoint until it answers 200
func waitReady(ctx context.Context, url string, attempts int, interval time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/api/health/live", nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("server at %s not ready after %d attempts", url, attempts)
}
