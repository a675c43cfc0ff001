// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/clubworks/clubhub/internal/app/store/otps"
	"github.com/clubworks/clubhub/internal/app/system/backup"
	"go.uber.org/zap"
)

// BackupJob schedules a full database dump. The schedule is a
// six-field cron spec from config, 2 AM daily by default.
func BackupJob(runner *backup.Runner, schedule string, logger *zap.Logger) Job {
	return Job{
		Name:     "database-backup",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
			defer cancel()
			_, err := runner.Run(ctx)
			return err
		},
	}
}

// OTPSweepJob removes expired one-time codes. This is a backup for
// when MongoDB's TTL index cleanup is delayed.
func OTPSweepJob(store *otps.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "otp-sweep",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := store.DeleteExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("swept expired one-time codes", zap.Int64("count", count))
			}
			return nil
		},
	}
}
