package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perftrack/internal/domain/audit"
	"perftrack/internal/domain/backup"
	"perftrack/internal/domain/core"
	"perftrack/internal/domain/notifications"
	"perftrack/internal/domain/performance"
	"perftrack/internal/domain/reports"
	"perftrack/internal/domain/settings"
	"perftrack/internal/platform/config"
	"perftrack/internal/platform/db"
	"perftrack/internal/platform/metrics"
	adminhandler "perftrack/internal/transport/http/handlers/admin"
	assignmentshandler "perftrack/internal/transport/http/handlers/assignments"
	authhandler "perftrack/internal/transport/http/handlers/auth"
	notificationshandler "perftrack/internal/transport/http/handlers/notifications"
	performancehandler "perftrack/internal/transport/http/handlers/performance"
	usershandler "perftrack/internal/transport/http/handlers/users"
	"perftrack/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New builds a fully wired application against an already reachable
// database. Run wraps it for production; tests call New directly and
// drive the router in-process.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	coreSvc := core.NewService(core.NewStore(pool))
	perfSvc := performance.NewService(performance.NewStore(pool))
	notifySvc := notifications.New(notifications.NewStore(pool))
	auditSvc := audit.New(pool)
	settingsSvc := settings.New(pool)
	reportsSvc := reports.New(pool)
	exporter := backup.New(backup.NewStore(pool))

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute).Middleware)
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(coreSvc, auditSvc, cfg.JWTSecret).RegisterRoutes(r)
		usershandler.NewHandler(coreSvc, auditSvc).RegisterRoutes(r)
		performancehandler.NewHandler(perfSvc, coreSvc, notifySvc).RegisterRoutes(r)
		assignmentshandler.NewHandler(coreSvc, notifySvc, auditSvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc, auditSvc).RegisterRoutes(r)
		adminhandler.NewHandler(settingsSvc, auditSvc, exporter, notifySvc, reportsSvc, collector).RegisterRoutes(r)
	})

	if err := auditSvc.Record(ctx, "", audit.ActionStartup, "system", "", map[string]string{
		"environment": cfg.Environment,
	}); err != nil {
		slog.Warn("startup audit entry failed", "err", err)
	}

	return &App{Config: cfg, DB: pool, Router: router}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("%s listening on %s", cfg.AppName, cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
