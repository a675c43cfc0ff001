// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request body size limits.
// AppConfig is everything specific to ClubHub: the MongoDB connection,
// token signing, Google OAuth, SMTP for password-reset mail, one-time
// code behavior, and the scheduled backup.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Token signing configuration
	JWTKey    string        // Secret key for signing bearer tokens (must be strong in production)
	JWTIssuer string        // Issuer claim stamped into tokens
	TokenTTL  time.Duration // How long issued tokens stay valid

	// Google OAuth configuration (federated sign-in)
	GoogleClientID     string // Google OAuth2 client ID
	GoogleClientSecret string // Google OAuth2 client secret

	// Email/SMTP configuration (password-reset codes)
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty skips auth)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name

	// SiteName appears in outbound email subjects and bodies.
	SiteName string

	// One-time code behavior
	OTPExpiry        time.Duration // How long a reset code stays valid
	OTPRequireMember bool          // Reject reset requests for unknown emails with 404

	// EnforceContactUniqueness makes member email and mobile unique
	// across the club. Clubs that share a family email turn this off.
	EnforceContactUniqueness bool

	// Scheduled backup configuration
	BackupEnabled       bool   // Run the nightly mongodump job
	BackupSchedule      string // Cron spec with seconds field (e.g., "0 0 2 * * *")
	BackupDir           string // Directory archives are written to
	BackupRetentionDays int    // Days of archives to keep; zero disables pruning
}
