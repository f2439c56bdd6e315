// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/circlepicks/backend/internal/admin"
	"github.com/circlepicks/backend/internal/auth"
	"github.com/circlepicks/backend/internal/block"
	"github.com/circlepicks/backend/internal/bookmark"
	"github.com/circlepicks/backend/internal/config"
	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/experience"
	"github.com/circlepicks/backend/internal/follow"
	"github.com/circlepicks/backend/internal/health"
	"github.com/circlepicks/backend/internal/middleware"
	"github.com/circlepicks/backend/internal/notification"
	"github.com/circlepicks/backend/internal/place"
	"github.com/circlepicks/backend/internal/report"
	"github.com/circlepicks/backend/internal/server"
	"github.com/circlepicks/backend/internal/tag"
	"github.com/circlepicks/backend/internal/upload"
	"github.com/circlepicks/backend/internal/user"
)

const (
	drainDelay      = 5 * time.Second
	sessionPruneInt = time.Hour
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func runServe(parent context.Context, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(opts.configPath)
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

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized", "endpoint", cfg.Otel.Endpoint)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := migrateUp(ctx, db.DB.DB); err != nil {
			return err
		}
	}

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	var storage *core.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		storage, err = core.NewObjectStorage(cfg.Storage)
		if err != nil {
			return err
		}
		if err := storage.EnsureBuckets(
			ctx, upload.BucketExperienceImages, upload.BucketAvatars,
		); err != nil {
			return err
		}
		logger.Info("object storage configured", "endpoint", cfg.Storage.Endpoint)
	} else {
		logger.Warn("object storage not configured, uploads disabled")
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	userSvc := user.NewService(user.NewRepository(db.DB))

	authSvc := auth.NewService(auth.ServiceConfig{
		Repo:          auth.NewRepository(db.DB),
		JWT:           jwtManager,
		Users:         userSvc,
		Store:         auth.NewRedisTokenStore(rdb),
		Mailer:        auth.LogMailer{Logger: logger},
		Providers:     auth.NewOAuthProviders(cfg.OAuth),
		SiteURL:       cfg.App.SiteURL,
		ResetTokenTTL: cfg.Session.ResetTokenTTL,
		OAuthStateTTL: cfg.Session.OAuthStateTTL,
	})

	tagSvc := tag.NewService(tag.NewRepository(db.DB))
	placeSvc := place.NewService(place.NewRepository(db.DB))

	experienceRepo := experience.NewRepository(db.DB)
	experienceSvc := experience.NewService(experienceRepo, placeSvc, tagSvc)

	blockSvc := block.NewService(block.NewRepository(db.DB), userSvc)
	notificationSvc := notification.NewService(
		notification.NewRepository(db.DB), userSvc, blockSvc, logger,
	)
	followSvc := follow.NewService(follow.NewRepository(db.DB), userSvc, notificationSvc)
	bookmarkSvc := bookmark.NewService(bookmark.NewRepository(db.DB), experienceSvc)
	reportSvc := report.NewService(report.NewRepository(db.DB), experienceSvc)

	deps := []health.Dependency{
		{Name: "database", Checker: db},
		{Name: "redis", Checker: rdb},
	}
	if storage != nil {
		deps = append(deps, health.Dependency{Name: "storage", Checker: storage})
	}
	healthHandler := health.NewHandler(deps...)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: rdb.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  rdb.Ping,
		Content:    admin.NewStatsRepository(db.DB),
		Sessions:   authSvc,
		Moderation: admin.NewModerationService(experienceRepo),
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(telemetry.Tracer))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(
		middleware.NewRateLimiter(rdb.Client, middleware.RateLimitConfig{
			Limit:      middleware.LimitFromConfig(cfg.RateLimit),
			FailOpen:   true,
			BypassFunc: middleware.SkipProbes,
		}).Handler,
	)

	authLimiter := middleware.NewRateLimiter(rdb.Client, middleware.RateLimitConfig{
		Scope:    "auth",
		Limit:    middleware.AuthLimitFromConfig(cfg.RateLimit),
		FailOpen: true,
	})
	uploadLimiter := middleware.NewRateLimiter(rdb.Client, middleware.RateLimitConfig{
		Scope:    "upload",
		Limit:    middleware.UploadLimitFromConfig(cfg.RateLimit),
		KeyFunc:  middleware.KeyByIdentity,
		FailOpen: true,
	})

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	resolver := middleware.NewResolver(authSvc, cfg.Session.CookieName)
	authenticator := resolver.Authenticator
	optionalAuth := resolver.OptionalAuth
	adminOnly := middleware.RequireAdmin(userSvc)

	authHandler := auth.NewHandler(authSvc, auth.CookieConfig{
		SessionName: cfg.Session.CookieName,
		RefreshName: cfg.Session.RefreshCookieName,
		Domain:      cfg.Session.CookieDomain,
		Secure:      cfg.IsProduction(),
		AccessTTL:   jwtManager.AccessTTL(),
		RefreshTTL:  jwtManager.RefreshTTL(),
	}, cfg.App.SiteURL)

	userHandler := user.NewHandler(userSvc)

	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(cfg.Server.MaxBodyBytes))

			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Handler)
				authHandler.RegisterRoutes(r, authenticator, optionalAuth)
			})
			userHandler.RegisterRoutes(r, authenticator)
			userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

			tag.NewHandler(tagSvc).RegisterRoutes(r, authenticator)
			place.NewHandler(placeSvc).RegisterRoutes(r, authenticator)
			experience.NewHandler(experienceSvc).RegisterRoutes(r, authenticator, optionalAuth)
			bookmark.NewHandler(bookmarkSvc).RegisterRoutes(r, authenticator)
			follow.NewHandler(followSvc).RegisterRoutes(r, authenticator, optionalAuth)
			block.NewHandler(blockSvc).RegisterRoutes(r, authenticator)
			notification.NewHandler(notificationSvc).RegisterRoutes(r, authenticator)
			report.NewHandler(reportSvc).RegisterRoutes(r, authenticator)
			adminHandler.RegisterRoutes(r, authenticator, adminOnly)
		})

		if storage != nil {
			upload.NewHandler(upload.NewService(storage)).RegisterRoutes(r,
				middleware.MaxBodySize(upload.MaxRequestBytes),
				authenticator,
				uploadLimiter.Handler,
			)
		}
	})

	go pruneSessions(ctx, authSvc)

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

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := rdb.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// pruneSessions deletes long-expired sessions until ctx is cancelled.
func pruneSessions(ctx context.Context, svc *auth.Service) {
	ticker := time.NewTicker(sessionPruneInt)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PruneSessions(ctx)
			if err != nil {
				slog.Default().Warn("session prune failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Default().Info("expired sessions pruned", "count", n)
			}
		}
	}
}
