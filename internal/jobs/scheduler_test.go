package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"anoa.com/skillnest/pkg/apperror"
	"anoa.com/skillnest/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingSyncer struct {
	calls atomic.Int32
	err   error
}

func (c *countingSyncer) SyncViews(context.Context) (int, error) {
	c.calls.Add(1)
	return 3, c.err
}

type countingReindexer struct {
	calls atomic.Int32
}

func (c *countingReindexer) Reindex(context.Context) (int, error) {
	c.calls.Add(1)
	return 10, nil
}

func TestRunJobByName(t *testing.T) {
	s := NewScheduler(logger.Nop(), time.Second)
	syncer := &countingSyncer{}
	reindexer := &countingReindexer{}

	require.NoError(t, s.RegisterJob(NewViewSyncJob(syncer, "")))
	require.NoError(t, s.RegisterJob(NewReindexJob(reindexer, "0 3 * * *")))
	assert.ElementsMatch(t, []string{ViewSyncJobName, ReindexJobName}, s.JobNames())

	require.NoError(t, s.RunJobByName(context.Background(), ReindexJobName))
	assert.Equal(t, int32(1), reindexer.calls.Load())

	assert.ErrorIs(t, s.RunJobByName(context.Background(), "missing"), apperror.ErrNotFound)
	assert.Error(t, s.RegisterJob(NewViewSyncJob(syncer, "")), "duplicate names are rejected")

	syncer.err = errors.New("redis down")
	assert.ErrorContains(t, s.RunJobByName(context.Background(), ViewSyncJobName), "redis down")
}

func TestRegisterJobRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(logger.Nop(), time.Second)
	err := s.RegisterJob(NewViewSyncJob(&countingSyncer{}, "not a cron"))
	assert.Error(t, err)
	assert.Empty(t, s.JobNames())
}

func TestScheduledJobRunsAndStops(t *testing.T) {
	s := NewScheduler(logger.Nop(), time.Second)
	syncer := &countingSyncer{}
	require.NoError(t, s.RegisterJob(NewViewSyncJob(syncer, "@every 1s")))

	s.Start()
	assert.Eventually(t, func() bool { return syncer.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Stop(ctx)
}
