package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/waitumusic/waitumusic/internal/jobs"
)

type stubWarmer struct {
	count    int
	err      error
	calls    int
	deadline bool
}

func (s *stubWarmer) Warm(ctx context.Context) (int, error) {
	s.calls++
	_, s.deadline = ctx.Deadline()
	return s.count, s.err
}

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, fam := range families {
		out[fam.GetName()] = fam
	}
	return out
}

func TestCatalogWarmupJobRecordsSuccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	warmer := &stubWarmer{count: 4}
	job := NewCatalogWarmupJob(warmer, nil, jobmetrics.NewMetrics(reg))

	task, err := NewCatalogWarmupTask("mutation")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 1, warmer.calls)
	require.True(t, warmer.deadline)

	families := gather(t, reg)
	require.Equal(t, 4.0, families["waitumusic_rbac_custom_roles"].GetMetric()[0].GetGauge().GetValue())
	runs := families["waitumusic_jobs_total"].GetMetric()
	require.Len(t, runs, 1)
	require.Equal(t, 1.0, runs[0].GetCounter().GetValue())
}

func TestCatalogWarmupJobPropagatesFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	warmer := &stubWarmer{err: errors.New("pg down")}
	job := NewCatalogWarmupJob(warmer, nil, jobmetrics.NewMetrics(reg))

	task, err := NewCatalogWarmupTask("")
	require.NoError(t, err)
	require.EqualError(t, job.Handle(context.Background(), task), "pg down")

	families := gather(t, reg)
	require.Equal(t, 1.0, families["waitumusic_jobs_failures_total"].GetMetric()[0].GetCounter().GetValue())
}

func TestCatalogWarmupJobSkipsRetryOnBadPayload(t *testing.T) {
	warmer := &stubWarmer{}
	job := NewCatalogWarmupJob(warmer, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskCatalogWarmup, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Zero(t, warmer.calls)
}

func TestCatalogWarmupJobWithoutWarmer(t *testing.T) {
	var job *CatalogWarmupJob
	task, _ := NewCatalogWarmupTask("x")
	require.Error(t, job.Handle(context.Background(), task))
}

type recordingEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (r *recordingEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	r.tasks = append(r.tasks, task)
	if r.err != nil {
		return nil, r.err
	}
	return &asynq.TaskInfo{ID: "1", Queue: QueueDefault, Type: task.Type()}, nil
}

func TestClientEnqueueCatalogWarmup(t *testing.T) {
	rec := &recordingEnqueuer{}
	client := NewClientWith(rec)

	require.NoError(t, client.EnqueueCatalogWarmup(context.Background()))
	require.Len(t, rec.tasks, 1)
	require.Equal(t, TaskCatalogWarmup, rec.tasks[0].Type())
	require.JSONEq(t, `{"reason":"mutation"}`, string(rec.tasks[0].Payload()))
	require.NoError(t, client.Close())
}

func TestClientEnqueueSwallowsDuplicates(t *testing.T) {
	client := NewClientWith(&recordingEnqueuer{err: asynq.ErrDuplicateTask})
	require.NoError(t, client.EnqueueCatalogWarmup(context.Background()))

	client = NewClientWith(&recordingEnqueuer{err: errors.New("redis down")})
	require.Error(t, client.EnqueueCatalogWarmup(context.Background()))
}

func TestCatalogWarmupTimeoutApplies(t *testing.T) {
	job := &CatalogWarmupJob{Warmer: &blockingWarmer{}, Timeout: 10 * time.Millisecond}
	task, _ := NewCatalogWarmupTask("x")
	require.ErrorIs(t, job.Handle(context.Background(), task), context.DeadlineExceeded)
}

type blockingWarmer struct{}

func (blockingWarmer) Warm(ctx context.Context) (int, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}
