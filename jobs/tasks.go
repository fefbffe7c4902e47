package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogWarmup reloads custom roles into the catalog snapshot cache.
	TaskCatalogWarmup = "rbac:catalog_warmup"
)

// CatalogWarmupPayload describes why a warmup was requested.
type CatalogWarmupPayload struct {
	Reason string `json:"reason"`
}

// NewCatalogWarmupTask constructs an Asynq task.
func NewCatalogWarmupTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(CatalogWarmupPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogWarmup, data, asynq.Queue(QueueDefault)), nil
}
