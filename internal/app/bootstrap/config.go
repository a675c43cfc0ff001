// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// devJWTKey is the development default. Production must override it.
const devJWTKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for ClubHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_key, etc.
//   - Environment variables: CLUBHUB_MONGO_URI, CLUBHUB_JWT_KEY, etc.
//   - Command-line flags: --mongo_uri, --jwt_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "clubhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Token signing
	{Name: "jwt_key", Default: devJWTKey, Desc: "Bearer token signing key (must be strong in production)"},
	{Name: "jwt_issuer", Default: "clubhub", Desc: "Issuer claim for signed tokens"},
	{Name: "token_ttl", Default: "24h", Desc: "Bearer token lifetime (e.g., 24h, 8h)"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@clubhub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "ClubHub", Desc: "From display name"},

	{Name: "site_name", Default: "ClubHub", Desc: "Club name used in outbound email"},

	// One-time reset codes
	{Name: "otp_expiry", Default: "10m", Desc: "Password reset code expiry (e.g., 10m, 1h)"},
	{Name: "otp_require_member", Default: true, Desc: "Reject reset requests for unknown emails with 404"},

	{Name: "enforce_contact_uniqueness", Default: true, Desc: "Require member email and mobile to be unique"},

	// Scheduled backup
	{Name: "backup_enabled", Default: false, Desc: "Enable the scheduled mongodump backup job"},
	{Name: "backup_schedule", Default: "0 0 2 * * *", Desc: "Cron spec for the backup job (seconds first)"},
	{Name: "backup_dir", Default: "./backups", Desc: "Directory backup archives are written to"},
	{Name: "backup_retention_days", Default: 7, Desc: "Days of backup archives to keep (0 disables pruning)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CLUBHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CLUBHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTKey:    appValues.String("jwt_key"),
		JWTIssuer: appValues.String("jwt_issuer"),
		TokenTTL:  appValues.Duration("token_ttl", 24*time.Hour),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		SiteName: appValues.String("site_name"),

		OTPExpiry:        appValues.Duration("otp_expiry", 10*time.Minute),
		OTPRequireMember: appValues.Bool("otp_require_member"),

		EnforceContactUniqueness: appValues.Bool("enforce_contact_uniqueness"),

		BackupEnabled:       appValues.Bool("backup_enabled"),
		BackupSchedule:      appValues.String("backup_schedule"),
		BackupDir:           appValues.String("backup_dir"),
		BackupRetentionDays: appValues.Int("backup_retention_days"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// ClubHub validates the MongoDB URI and the backup schedule up front so
// a typo fails the boot instead of the 2am cron fire, and refuses the
// development signing key in production.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env == "prod" && appCfg.JWTKey == devJWTKey {
		return fmt.Errorf("jwt_key must be set to a strong secret in production")
	}

	if appCfg.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}
	if appCfg.OTPExpiry <= 0 {
		return fmt.Errorf("otp_expiry must be positive")
	}

	if appCfg.BackupEnabled {
		if _, err := cron.Parse(appCfg.BackupSchedule); err != nil {
			return fmt.Errorf("invalid backup_schedule %q: %w", appCfg.BackupSchedule, err)
		}
		if appCfg.BackupDir == "" {
			return fmt.Errorf("backup_dir must be set when backups are enabled")
		}
	}

	return nil
}
