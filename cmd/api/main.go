// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/admin"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/belts"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/billing"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/classes"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/commitments"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/config"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/contact"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/drawings"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/entitlement"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/gameplans"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/gyms"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/health"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/identity"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/mailer"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/middleware"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/notes"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/reports"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/server"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/storage"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/suggest"
	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/migrations"
)

const drainDelay = 5 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	legacySigner, err := identity.NewLegacyVerifier(cfg.Auth)
	if err != nil {
		return err
	}

	var verifiers []identity.TokenVerifier
	if cfg.Auth.SupabaseJWTSecret != "" {
		local, verr := identity.NewSupabaseLocalVerifier(cfg.Auth.SupabaseJWTSecret)
		if verr != nil {
			return verr
		}
		verifiers = append(verifiers, local)
		logger.Info("supabase tokens verified locally")
	} else if cfg.Auth.SupabaseURL != "" {
		verifiers = append(verifiers, identity.NewSupabaseRemoteVerifier(
			cfg.Auth.SupabaseURL,
			cfg.Auth.SupabaseAnonKey,
		))
		logger.Info("supabase tokens verified via introspection",
			"url", cfg.Auth.SupabaseURL,
		)
	}
	verifiers = append(verifiers, legacySigner)
	chain := identity.NewVerifierChain(verifiers...)

	objectStore, err := storage.NewClient(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	mail := mailer.New(cfg.SMTP, logger)

	userRepo := identity.NewRepository(db.DB)
	resolver := identity.NewResolver(chain, userRepo, cfg.Plans)
	userSvc := identity.NewService(
		userRepo, legacySigner, cfg.Plans, objectStore, mail, logger,
	)
	userHandler := identity.NewHandler(userSvc)

	ledger := entitlement.NewLedger(db.DB)
	checker := entitlement.NewChecker(ledger, cfg.Plans)

	gymSvc := gyms.NewService(gyms.NewRepository(db.DB))

	classesHandler := classes.NewHandler(
		classes.NewService(classes.NewRepository(db.DB), checker),
	)
	notesHandler := notes.NewHandler(notes.NewService(
		notes.NewRepository(db.DB),
		checker,
		objectStore,
		gymSvc,
		ledger,
		logger,
	))
	beltsHandler := belts.NewHandler(belts.NewRepository(db.DB))
	commitmentsHandler := commitments.NewHandler(
		commitments.NewRepository(db.DB),
	)
	drawingsHandler := drawings.NewHandler(drawings.NewRepository(db.DB))
	gameplansHandler := gameplans.NewHandler(
		gameplans.NewService(gameplans.NewRepository(db.DB)),
	)
	gymsHandler := gyms.NewHandler(gymSvc)
	storageHandler := storage.NewHandler(ledger, checker)
	billingHandler := billing.NewHandler(
		billing.NewStripeService(cfg.Stripe, userRepo, logger),
		billing.NewRevenueCatService(cfg.RevenueCat, userRepo),
	)
	suggestHandler := suggest.NewHandler(suggest.NewService(cfg.OpenAI))
	contactHandler := contact.NewHandler(contact.NewRepository(db.DB), mail)
	reportsHandler := reports.NewHandler(reports.NewRepository(db.DB))

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DB:         db.DB,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	if telemetry != nil {
		router.Use(middleware.Tracing(telemetry.Tracer))
	}
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	// per-user limits run after auth so the plan tier is in context
	tiered := middleware.TieredRateLimiter(redis.Client, middleware.DefaultTiers)
	strict := composeAuth(middleware.Authenticator(resolver), tiered)
	permissive := composeAuth(middleware.PermissiveAuthenticator(resolver), tiered)
	adminOnly := middleware.RequireAdmin

	router.Route("/api", func(r chi.Router) {
		userHandler.RegisterRoutes(r, permissive)

		classesHandler.RegisterRoutes(r, permissive)
		notesHandler.RegisterRoutes(r, permissive)
		beltsHandler.RegisterRoutes(r, permissive)
		commitmentsHandler.RegisterRoutes(r, permissive)
		drawingsHandler.RegisterRoutes(r, permissive)
		gameplansHandler.RegisterRoutes(r, permissive)
		gymsHandler.RegisterRoutes(r, permissive, adminOnly)
		storageHandler.RegisterRoutes(r, permissive)

		billingHandler.RegisterRoutes(r, strict)
		billingHandler.RegisterWebhookRoutes(r)
		suggestHandler.RegisterRoutes(r, strict)
		reportsHandler.RegisterRoutes(r, strict)

		contactHandler.RegisterRoutes(r)

		adminHandler.RegisterRoutes(r, strict, adminOnly)
		notesHandler.RegisterAdminRoutes(r, strict, adminOnly)
		contactHandler.RegisterAdminRoutes(r, strict, adminOnly)
		reportsHandler.RegisterAdminRoutes(r, strict, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func composeAuth(
	authn func(http.Handler) http.Handler,
	limit func(http.Handler) http.Handler,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return authn(limit(next))
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
