// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/clubworks/clubhub/internal/app/store/otps"
	"github.com/clubworks/clubhub/internal/app/system/backup"
	"github.com/clubworks/clubhub/internal/app/system/tasks"
)

// Shared background machinery built once at startup. BuildHandler reuses
// backupRunner for the on-demand endpoint; Shutdown stops taskRunner.
var (
	backupRunner *backup.Runner
	taskRunner   *tasks.Runner
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// ClubHub uses it to start the background jobs: the scheduled mongodump
// backup (when enabled) and the hourly sweep of expired reset codes.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	backupRunner = backup.New(backup.Config{
		Dir:           appCfg.BackupDir,
		MongoURI:      appCfg.MongoURI,
		Database:      appCfg.MongoDatabase,
		RetentionDays: appCfg.BackupRetentionDays,
	}, logger)

	taskRunner = tasks.NewRunner(logger)

	otpStore := otps.New(deps.ClubHubMongoDatabase, appCfg.OTPExpiry)
	if err := taskRunner.Add(tasks.OTPSweepJob(otpStore, logger)); err != nil {
		return err
	}

	if appCfg.BackupEnabled {
		if err := taskRunner.Add(tasks.BackupJob(backupRunner, appCfg.BackupSchedule, logger)); err != nil {
			return err
		}
		logger.Info("scheduled backup enabled",
			zap.String("schedule", appCfg.BackupSchedule),
			zap.String("dir", appCfg.BackupDir))
	}

	taskRunner.Start()
	return nil
}
