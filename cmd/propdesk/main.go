package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	pdhttp "github.com/Strob0t/PropDesk/internal/adapter/http"
	pdnats "github.com/Strob0t/PropDesk/internal/adapter/nats"
	"github.com/Strob0t/PropDesk/internal/adapter/otel"
	"github.com/Strob0t/PropDesk/internal/adapter/postgres"
	"github.com/Strob0t/PropDesk/internal/adapter/ws"
	"github.com/Strob0t/PropDesk/internal/config"
	"github.com/Strob0t/PropDesk/internal/logger"
	"github.com/Strob0t/PropDesk/internal/middleware"
	"github.com/Strob0t/PropDesk/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := dispatch(os.Args[1:]); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// dispatch selects the subcommand. Without arguments the server starts.
func dispatch(args []string) error {
	if len(args) == 0 {
		return run()
	}
	switch args[0] {
	case "serve":
		return run()
	case "migrate":
		return runMigrate(args[1:])
	case "estimate":
		return runEstimate(args[1:], os.Stdout)
	case "help", "--help", "-h":
		printHelp()
		return nil
	default:
		printHelp()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Usage: propdesk [command] [options]

Commands:
  serve      Start the HTTP server (default)
  migrate    Apply, roll back or inspect database migrations
  estimate   Print a rent estimate for a unit
  help       Show this help message

Examples:
  propdesk
  propdesk migrate up
  propdesk migrate down --steps 2
  propdesk estimate --sqft 850 --beds 2 --baths 1 --amenities parking,laundry
`)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closer := logger.New(cfg.Logging)
	defer closer.Close()
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
		"nats", cfg.NATS.URL != "",
	)

	ctx := context.Background()

	// --- Infrastructure ---

	otelShutdown, err := otel.Init(ctx, cfg.OTEL)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(sctx); err != nil {
			slog.Warn("otel shutdown failed", "error", err)
		}
	}()

	// PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	// NATS is optional; without it the cache is process-local.
	var queue *pdnats.Queue
	if cfg.NATS.URL != "" {
		queue, err = pdnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = queue.Close() }()
	}

	// --- Cache ---

	stack, err := buildCache(ctx, cfg, queue)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer stack.Close()

	opts, err := fetchOptions(cfg)
	if err != nil {
		return fmt.Errorf("cache metrics: %w", err)
	}

	replays, closeReplays, err := idempotencyStore(ctx, cfg, queue)
	if err != nil {
		return err
	}
	defer closeReplays()

	hub := ws.NewHub(originPatterns(cfg.Server.CORSOrigin)...)
	defer hub.Close()

	inv := service.NewInvalidator(stack.backend, stack.local, queuePort(queue), hub)
	stopInvalidation, err := inv.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe invalidations: %w", err)
	}
	defer stopInvalidation()

	// --- Services ---

	store := postgres.NewStore(pool)
	deps := service.CacheDeps{Backend: stack.backend, Options: opts, Invalidator: inv}
	ttl := cfg.Cache.TTL

	propertySvc := service.NewPropertyService(store, deps, ttl)
	unitSvc := service.NewUnitService(store, deps, ttl)
	tenantSvc := service.NewTenantService(store, deps, ttl)
	leaseSvc := service.NewLeaseService(store, deps, ttl)
	paymentSvc := service.NewPaymentService(store, deps, ttl)
	maintenanceSvc := service.NewMaintenanceService(store, deps, ttl)
	vendorSvc := service.NewVendorService(store, deps, ttl)
	dashboardSvc := service.NewDashboardService(deps, ttl.Dashboard,
		propertySvc, unitSvc, leaseSvc, paymentSvc, maintenanceSvc)
	rentSvc := service.NewRentService(cfg.Rent, unitSvc)

	handlers := &pdhttp.Handlers{
		Properties:  propertySvc,
		Units:       unitSvc,
		Tenants:     tenantSvc,
		Leases:      leaseSvc,
		Payments:    paymentSvc,
		Maintenance: maintenanceSvc,
		Vendors:     vendorSvc,
		Dashboard:   dashboardSvc,
		Rent:        rentSvc,
		BodyLimit:   cfg.Server.BodyLimit,
	}

	limiter := middleware.NewRateLimiter(cfg.Rate)
	stopCleanup := limiter.StartCleanup(cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)
	defer stopCleanup()

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(pdhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(pdhttp.SecurityHeaders)
	r.Use(middleware.Owner)
	r.Use(pdhttp.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler(store, queue, hub))

	// WebSocket endpoint; long-lived, so outside the request timeout.
	r.Get("/ws", hub.HandleWS)

	r.Group(func(r chi.Router) {
		r.Use(otel.HTTPMiddleware(cfg.OTEL.ServiceName))
		r.Use(limiter.Handler)
		r.Use(middleware.Idempotency(replays, cfg.Server.IdempotencyTTL))
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
		pdhttp.MountRoutes(r, handlers)
	})

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-done:
	case err := <-serveErr:
		return fmt.Errorf("server: %w", err)
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if queue != nil {
		if err := queue.Drain(); err != nil {
			slog.Warn("nats drain failed", "error", err)
		}
	}
	return nil
}

// pinger is the part of the store the health check needs.
type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler reports the state of PostgreSQL, NATS and live WebSocket
// clients. A failed database ping turns the response into a 503.
func healthHandler(db pinger, queue *pdnats.Queue, hub *ws.Hub) http.HandlerFunc {
	type healthStatus struct {
		Status      string `json:"status"`
		Postgres    string `json:"postgres"`
		NATS        string `json:"nats"`
		Connections int    `json:"ws_connections"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := healthStatus{Status: "ok", Postgres: "ok", NATS: "disabled", Connections: hub.ConnectionCount()}
		code := http.StatusOK

		if err := db.Ping(ctx); err != nil {
			status.Status = "degraded"
			status.Postgres = err.Error()
			code = http.StatusServiceUnavailable
		}
		if queue != nil {
			status.NATS = "ok"
			if !queue.IsConnected() {
				status.Status = "degraded"
				status.NATS = "disconnected"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}

// originPatterns turns the CORS origin into WebSocket origin patterns,
// which match on host.
func originPatterns(origin string) []string {
	switch origin {
	case "":
		return nil
	case "*":
		return []string{"*"}
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
