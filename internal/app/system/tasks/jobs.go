// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/brunocaldas/portfoliohub/internal/app/store/oauthstate"
	"github.com/brunocaldas/portfoliohub/internal/app/store/ratelimit"
	"github.com/brunocaldas/portfoliohub/internal/app/store/sessions"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SessionCleanupJob creates a job that removes expired sessions from the database.
// The TTL index handles this eventually; the job keeps the collection tidy
// between TTL monitor passes.
func SessionCleanupJob(db *mongo.Database, logger *zap.Logger) Job {
	store := sessions.New(db)
	return Job{
		Name:     "session-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			deleted, err := store.DeleteExpired(ctx)
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("cleaned up expired sessions",
					zap.Int64("deleted", deleted))
			}
			return nil
		},
	}
}

// OAuthStateCleanupJob creates a job that removes expired OAuth state tokens.
func OAuthStateCleanupJob(db *mongo.Database, logger *zap.Logger) Job {
	store := oauthstate.New(db)
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			deleted, err := store.DeleteExpired(ctx)
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("cleaned up expired oauth states",
					zap.Int64("deleted", deleted))
			}
			return nil
		},
	}
}

// RateLimitCleanupJob creates a job that removes stale rate-limit windows.
func RateLimitCleanupJob(db *mongo.Database, logger *zap.Logger, window time.Duration) Job {
	store := ratelimit.New(db, 0, window)
	return Job{
		Name:     "rate-limit-cleanup",
		Interval: 6 * time.Hour,
		Run: func(ctx context.Context) error {
			// Keep windows around for a few multiples in case the limiter
			// config is loosened; the TTL index caps retention at 24h anyway.
			deleted, err := store.DeleteStale(ctx, 4*window)
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("cleaned up stale rate-limit windows",
					zap.Int64("deleted", deleted))
			}
			return nil
		},
	}
}
