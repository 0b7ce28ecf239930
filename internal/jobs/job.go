package jobs

import (
	"context"
	"fmt"
)

// Job is a unit of background work the scheduler can run on a cron schedule or on demand.
type Job interface {
	GetName() string
	// GetSchedule returns a cron spec; empty means on-demand only.
	GetSchedule() string
	Execute(ctx context.Context) error
}

// ViewSyncer flushes buffered view counters.
type ViewSyncer interface {
	SyncViews(ctx context.Context) (int, error)
}

// Reindexer rebuilds the search indexes.
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

const (
	ViewSyncJobName = "resource-view-sync"
	ReindexJobName  = "search-reindex"
)

type funcJob struct {
	name     string
	schedule string
	run      func(ctx context.Context) error
}

func (j *funcJob) GetName() string                   { return j.name }
func (j *funcJob) GetSchedule() string               { return j.schedule }
func (j *funcJob) Execute(ctx context.Context) error { return j.run(ctx) }

func NewViewSyncJob(syncer ViewSyncer, schedule string) Job {
	return &funcJob{
		name:     ViewSyncJobName,
		schedule: schedule,
		run: func(ctx context.Context) error {
			if _, err := syncer.SyncViews(ctx); err != nil {
				return fmt.Errorf("sync views: %w", err)
			}
			return nil
		},
	}
}

func NewReindexJob(reindexer Reindexer, schedule string) Job {
	return &funcJob{
		name:     ReindexJobName,
		schedule: schedule,
		run: func(ctx context.Context) error {
			if _, err := reindexer.Reindex(ctx); err != nil {
				return fmt.Errorf("reindex: %w", err)
			}
			return nil
		},
	}
}
