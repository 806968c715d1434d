package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"rawwealthy.backend/pkg/logger"
	"rawwealthy.backend/pkg/metrics"
)

// DefaultCleanupInterval is used when no interval is configured
const DefaultCleanupInterval = 5 * time.Minute

type resetTokenStore interface {
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// ResetTokenCleanupJob purges password reset tokens that expired unused
type ResetTokenCleanupJob struct {
	repo     resetTokenStore
	metrics  *metrics.Collector
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewResetTokenCleanupJob(repo resetTokenStore, collector *metrics.Collector, interval time.Duration) *ResetTokenCleanupJob {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &ResetTokenCleanupJob{
		repo:     repo,
		metrics:  collector,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Start runs the purge on every tick until ctx is cancelled or Stop is called
func (j *ResetTokenCleanupJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting reset token cleanup job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Reset token cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Reset token cleanup job stopped")
			return
		case <-ticker.C:
			j.purgeExpired(ctx)
		}
	}
}

func (j *ResetTokenCleanupJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *ResetTokenCleanupJob) purgeExpired(ctx context.Context) int64 {
	n, err := j.repo.ClearExpiredResetTokens(ctx, j.now())
	if err != nil {
		logger.Error(ctx, "Failed to purge expired reset tokens", zap.Error(err))
		return 0
	}
	if n > 0 {
		j.metrics.RecordResetTokensPurged(n)
		logger.Info(ctx, "Purged expired reset tokens", zap.Int64("count", n))
	}
	return n
}
