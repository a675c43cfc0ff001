// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authgooglefeature "github.com/clubworks/clubhub/internal/app/features/authgoogle"
	backupopsfeature "github.com/clubworks/clubhub/internal/app/features/backupops"
	bookrefsfeature "github.com/clubworks/clubhub/internal/app/features/bookrefs"
	healthfeature "github.com/clubworks/clubhub/internal/app/features/health"
	ledgerfeature "github.com/clubworks/clubhub/internal/app/features/ledger"
	loginfeature "github.com/clubworks/clubhub/internal/app/features/login"
	membersfeature "github.com/clubworks/clubhub/internal/app/features/members"
	passwordresetfeature "github.com/clubworks/clubhub/internal/app/features/passwordreset"
	"github.com/clubworks/clubhub/internal/app/store/otps"
	"github.com/clubworks/clubhub/internal/app/system/auth"
	"github.com/clubworks/clubhub/internal/app/system/mailer"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// ClubHub builds the token manager and SMTP mailer, applies the bearer
// token middleware globally, and mounts the feature routers: health,
// the auth trio (password login, Google federated, password reset),
// members, book references, ledger, and on-demand backup.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.ClubHubMongoDatabase

	tokens, err := auth.NewTokenManager(appCfg.JWTKey, appCfg.JWTIssuer, appCfg.TokenTTL)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	otpStore := otps.New(db, appCfg.OTPExpiry)

	r := chi.NewRouter()

	// Global auth middleware: parses a bearer token, if present, into
	// request claims. Route groups decide whether claims are required.
	r.Use(tokens.Authenticate(logger))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.ClubHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication: password login at /auth, Google federated sign-in
	// at /auth/google, one-time code password reset at /auth/password.
	loginHandler := loginfeature.NewHandler(db, tokens, logger)
	r.Mount("/auth", loginfeature.Routes(loginHandler))

	googleHandler := authgooglefeature.NewHandler(db, tokens, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	resetHandler := passwordresetfeature.NewHandler(
		db, otpStore, mail, appCfg.SiteName, appCfg.OTPRequireMember, logger)
	r.Mount("/auth/password", passwordresetfeature.Routes(resetHandler))

	// Member records
	membersHandler := membersfeature.NewHandler(db, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler))

	// Voucher and receipt book references
	bookrefsHandler := bookrefsfeature.NewHandler(db, logger)
	r.Mount("/book-references", bookrefsfeature.Routes(bookrefsHandler))

	// Ledger transactions and account balances
	ledgerHandler := ledgerfeature.NewHandler(db, logger)
	r.Mount("/ledger", ledgerfeature.Routes(ledgerHandler))

	// On-demand backup for the admin; the scheduled run is started in
	// Startup.
	backupHandler := backupopsfeature.NewHandler(backupRunner, logger)
	r.Mount("/backup", backupopsfeature.Routes(backupHandler))

	return r, nil
}
