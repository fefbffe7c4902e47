package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/waitumusic/waitumusic/internal/app"
	jobmetrics "github.com/waitumusic/waitumusic/internal/jobs"
	"github.com/waitumusic/waitumusic/internal/platform/cache"
	"github.com/waitumusic/waitumusic/internal/platform/db"
	"github.com/waitumusic/waitumusic/internal/roles"
	"github.com/waitumusic/waitumusic/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	snapshotCache := roles.NewCache(redisClient, cfg.CatalogCacheTTL)
	rolesService := roles.NewService(roles.NewRepository(pool), roles.ServiceConfig{
		Cache:  snapshotCache,
		Logger: logger,
	})
	go func() {
		err := snapshotCache.Watch(ctx, func(version int64) {
			count, err := rolesService.Warm(ctx)
			if err != nil {
				logger.Warn("catalog rewarm", slog.Int64("version", version), slog.Any("error", err))
				return
			}
			logger.Info("catalog rewarmed", slog.Int64("version", version), slog.Int("custom_roles", count))
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("catalog bump watch", slog.Any("error", err))
		}
	}()

	warmupJob := jobs.NewCatalogWarmupJob(rolesService, logger, jobmetrics.NewMetrics(nil))

	warmupTask, err := jobs.NewCatalogWarmupTask("scheduled")
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: redisOpts.Addr, Password: redisOpts.Password, DB: redisOpts.DB},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCatalogWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.CatalogWarmupCron, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("cron", cfg.CatalogWarmupCron))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
