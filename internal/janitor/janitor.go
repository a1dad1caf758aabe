// Package janitor periodically removes uploads older than the configured retention.
package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/metrics"
	"github.com/guttosm/stockpulse/internal/storage"
)

// Janitor owns the cron scheduler running the purge job.
type Janitor struct {
	cron      *cron.Cron
	store     storage.UploadStore
	retention time.Duration
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New registers the purge job on schedule (standard 5-field expression or descriptors like "@hourly").
//
// Parameters:
//   - schedule: cron expression.
//   - retention: uploads older than now-retention are deleted.
//   - m: optional metrics sink (may be nil).
func New(store storage.UploadStore, schedule string, retention time.Duration, m *metrics.Metrics) (*Janitor, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("retention must be positive, got %v", retention)
	}
	j := &Janitor{
		cron:      cron.New(),
		store:     store,
		retention: retention,
		metrics:   m,
		now:       time.Now,
	}
	if _, err := j.cron.AddFunc(schedule, func() { _, _ = j.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("register purge job: %w", err)
	}
	return j, nil
}

// RunOnce purges stale uploads immediately and returns how many were removed.
func (j *Janitor) RunOnce(ctx context.Context) (int, error) {
	cutoff := j.now().Add(-j.retention)
	n, err := j.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		logger.L().Error().Err(err).Time("cutoff", cutoff).Msg("upload purge failed")
		return n, err
	}
	if j.metrics != nil {
		j.metrics.PurgedFiles.Add(float64(n))
	}
	logger.L().Info().Int("removed", n).Time("cutoff", cutoff).Msg("upload purge done")
	return n, nil
}

// Start starts the scheduler in its own goroutine.
func (j *Janitor) Start() {
	j.cron.Start()
	logger.L().Info().Dur("retention", j.retention).Msg("janitor started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	logger.L().Info().Msg("janitor stopped")
}
