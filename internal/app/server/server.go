package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"folha/internal/domain/audit"
	"folha/internal/domain/auth"
	"folha/internal/domain/payroll"
	"folha/internal/domain/subject"
	"folha/internal/domain/tax"
	"folha/internal/platform/config"
	"folha/internal/platform/db"
	"folha/internal/platform/logging"
	"folha/internal/platform/metrics"
	"folha/internal/transport/http/api"
	audithandler "folha/internal/transport/http/handlers/audit"
	authhandler "folha/internal/transport/http/handlers/auth"
	payrollhandler "folha/internal/transport/http/handlers/payroll"
	revenuehandler "folha/internal/transport/http/handlers/revenue"
	subjecthandler "folha/internal/transport/http/handlers/subject"
	taxhandler "folha/internal/transport/http/handlers/tax"
	terminationhandler "folha/internal/transport/http/handlers/termination"
	"folha/internal/transport/http/middleware"
)

const maxBodyBytes = 1 << 20

func Run() {
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	collector := metrics.New()

	subjectStore := subject.NewStore(pool)
	taxStore := tax.NewStore(pool)
	payrollStore := payroll.NewStore(pool)
	payrollService := payroll.NewService(payrollStore, subjectStore, taxStore)
	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret)
	auditService := audit.New(pool)
	idempotency := middleware.NewIdempotencyStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(maxBodyBytes))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
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
		authhandler.NewHandler(authService).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			subjecthandler.NewHandler(subjectStore).RegisterRoutes(r)
			payrollhandler.NewHandler(payrollService, auditService, collector, idempotency, cfg.PayslipDir).RegisterRoutes(r)
			terminationhandler.NewHandler(subjectStore, taxStore, collector, cfg.PayslipDir).RegisterRoutes(r)
			revenuehandler.NewHandler(taxStore, collector).RegisterRoutes(r)
			taxhandler.NewHandler(taxStore, auditService).RegisterRoutes(r)
			audithandler.NewHandler(auditService).RegisterRoutes(r)

			r.With(middleware.RequireRole("admin")).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
			})
		})
	})

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
