package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ems/internal/domain/attendance"
	"ems/internal/domain/auth"
	"ems/internal/domain/core"
	"ems/internal/platform/config"
	"ems/internal/platform/db"
	"ems/internal/platform/jobs"
	"ems/internal/platform/metrics"
	"ems/internal/transport/http/api"
	adminhandler "ems/internal/transport/http/handlers/admin"
	authhandler "ems/internal/transport/http/handlers/auth"
	employeehandler "ems/internal/transport/http/handlers/employee"
	"ems/internal/transport/http/middleware"
)

type App struct {
	Config    config.Config
	DB        *pgxpool.Pool
	Router    chi.Router
	Collector *metrics.Collector
	Ledger    *attendance.Service
}

// New connects to the database, runs migrations and seeding per the
// config, and assembles the full router. The caller owns shutdown of
// the returned pool.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed database: %w", err)
		}
	}

	loc, err := time.LoadLocation(cfg.ReferenceTimezone)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("load reference timezone: %w", err)
	}

	coreSvc := core.NewService(core.NewStore(pool))
	ledger := attendance.NewService(attendance.NewStore(pool), loc)

	collector := metrics.New()
	secureCookies := cfg.Environment == "production"

	authH := authhandler.NewHandler(coreSvc, cfg.JWTSecret, cfg.SessionTTL, secureCookies)
	employeeH := employeehandler.NewHandler(coreSvc, ledger, cfg.JWTSecret, cfg.SessionTTL, secureCookies)
	adminH := adminhandler.NewHandler(coreSvc, cfg.ImagesDir)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(collector))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders(secureCookies))
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	r.Use(middleware.Auth(cfg.JWTSecret))

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.LoginRateLimit(cfg.RateLimitPerMinute/6+1, time.Minute))
			r.Post("/adminlogin", authH.HandleAdminLogin)
			r.Post("/register_admin", authH.HandleRegisterAdmin)
		})
		r.Get("/logout", authH.HandleLogout)
		adminH.RegisterRoutes(r)
	})

	r.Route("/employee", func(r chi.Router) {
		employeeH.RegisterRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/verify", authH.HandleVerify)
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(req.Context()))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		pingCtx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			api.Fail(w, http.StatusServiceUnavailable, "database_unreachable", "database is not reachable", middleware.GetRequestID(req.Context()))
			return
		}
		api.Success(w, map[string]string{"status": "ready"}, middleware.GetRequestID(req.Context()))
	})

	if cfg.MetricsEnabled {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(req.Context()))
			})
		})
	}

	fileServer := http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.ImagesDir)))
	r.Get("/images/*", fileServer.ServeHTTP)

	return &App{
		Config:    cfg,
		DB:        pool,
		Router:    r,
		Collector: collector,
		Ledger:    ledger,
	}, nil
}

// Run builds the app and serves it until SIGINT/SIGTERM, then drains
// in-flight requests before closing the pool.
func Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.DB.Close()

	jobs.StartStaleSessionSweeper(ctx, cfg, app.Ledger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
