package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"investor-onboarding.backend/pkg/logger"
	"investor-onboarding.backend/pkg/metrics"
)

type expiredTokenCleaner interface {
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// TokenCleanupJob periodically nulls expired verification, reset and refresh
// token material. Expired material is rejected by the flows anyway; this only
// keeps the columns tidy.
type TokenCleanupJob struct {
	repo     expiredTokenCleaner
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewTokenCleanupJob(repo expiredTokenCleaner, interval time.Duration) *TokenCleanupJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenCleanupJob{
		repo:     repo,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (j *TokenCleanupJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting expired token cleanup job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Expired token cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Expired token cleanup job stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *TokenCleanupJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *TokenCleanupJob) runOnce(ctx context.Context) {
	cleared, err := j.repo.ClearExpiredTokens(ctx, j.now().UTC())
	if err != nil {
		logger.Error(ctx, "Failed to clear expired tokens", zap.Error(err))
		return
	}
	if cleared == 0 {
		return
	}
	metrics.TokensCleared.Add(float64(cleared))
	logger.Info(ctx, "Cleared expired token material", zap.Int64("count", cleared))
}
