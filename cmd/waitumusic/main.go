package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/waitumusic/waitumusic/internal/app"
	"github.com/waitumusic/waitumusic/internal/observability"
	"github.com/waitumusic/waitumusic/internal/platform/cache"
	"github.com/waitumusic/waitumusic/internal/platform/db"
	"github.com/waitumusic/waitumusic/internal/rbac"
	"github.com/waitumusic/waitumusic/internal/roles"
	"github.com/waitumusic/waitumusic/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisOpts := cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	redisClient, err := cache.New(ctx, redisOpts)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	asynqOpts := asynq.RedisClientOpt{Addr: redisOpts.Addr, Password: redisOpts.Password, DB: redisOpts.DB}
	jobClient := jobs.NewClient(asynqOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	rolesService := roles.NewService(roles.NewRepository(dbpool), roles.ServiceConfig{
		Cache:    roles.NewCache(redisClient, cfg.CatalogCacheTTL),
		Enqueuer: jobClient,
		Logger:   logger,
	})
	resolver := rbac.NewResolver(rbac.DefaultCatalog(), logger, metrics.RecordDiagnostic)
	rbacMiddleware := rbac.Middleware{Resolver: resolver, Catalogs: rolesService, Logger: logger}
	rolesHandler := roles.NewHandler(logger, rolesService, resolver, rbac.DefaultSections(), rbacMiddleware)

	if count, err := rolesService.Warm(ctx); err != nil {
		logger.Warn("initial catalog warmup", slog.Any("error", err))
	} else {
		logger.Info("catalog warmed", slog.Int("custom_roles", count))
	}

	inspector := asynq.NewInspector(asynqOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		RolesHandler: rolesHandler,
		JobHandler:   jobHandler,
		Metrics:      metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
