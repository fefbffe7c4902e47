package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/waitumusic/waitumusic/internal/jobs"
)

// CatalogWarmer refreshes the cached catalog snapshot.
type CatalogWarmer interface {
	Warm(ctx context.Context) (int, error)
}

// CatalogWarmupJob re-populates the role catalog cache.
type CatalogWarmupJob struct {
	Warmer  CatalogWarmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Timeout time.Duration
}

// NewCatalogWarmupJob wires dependencies for the warmup handler.
func NewCatalogWarmupJob(warmer CatalogWarmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *CatalogWarmupJob {
	return &CatalogWarmupJob{Warmer: warmer, Logger: logger, Metrics: metrics, Timeout: 20 * time.Second}
}

// Handle processes catalog warmup tasks.
func (j *CatalogWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Warmer == nil {
		return errors.New("catalog warmup: handler not configured")
	}
	var payload CatalogWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Reason == "" {
		payload.Reason = "scheduled"
	}

	tracker := j.Metrics.Track(TaskCatalogWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("reason", payload.Reason))
	start := time.Now()

	warmCtx := ctx
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		warmCtx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}
	count, err := j.Warmer.Warm(warmCtx)
	if err != nil {
		logger.Error("catalog warmup", slog.Any("error", err))
		return err
	}
	j.Metrics.SetCatalogRoles(count)
	logger.Info("completed catalog warmup", slog.Int("custom_roles", count), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *CatalogWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
