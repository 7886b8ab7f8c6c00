// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "PORTFOLIOHUB"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: PORTFOLIOHUB_MONGO_URI, PORTFOLIOHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "portfoliohub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "portfoliohub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	// Rate limiting configuration (per client IP on auth routes)
	{Name: "rate_limit_enabled", Default: true, Desc: "Enable rate limiting for auth routes"},
	{Name: "rate_limit_max_requests", Default: 100, Desc: "Max requests per window per IP"},
	{Name: "rate_limit_window", Default: "15m", Desc: "Rate limit counting window"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	// GitHub OAuth configuration
	{Name: "github_client_id", Default: "", Desc: "GitHub OAuth app client ID"},
	{Name: "github_client_secret", Default: "", Desc: "GitHub OAuth app client secret"},

	// URLs
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public base URL of this service (OAuth callback host)"},
	{Name: "frontend_base_url", Default: "http://localhost:5173", Desc: "Base URL of the SPA frontend (login redirect target)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, PORTFOLIOHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		RateLimitEnabled:     appValues.Bool("rate_limit_enabled"),
		RateLimitMaxRequests: appValues.Int("rate_limit_max_requests"),
		RateLimitWindow:      appValues.Duration("rate_limit_window", 15*time.Minute),

		CSRFKey: appValues.String("csrf_key"),

		GitHubClientID:     appValues.String("github_client_id"),
		GitHubClientSecret: appValues.String("github_client_secret"),

		BaseURL:         appValues.String("base_url"),
		FrontendBaseURL: appValues.String("frontend_base_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	// The service is useless without OAuth credentials; fail fast rather
	// than serving a login button that can never work.
	if appCfg.GitHubClientID == "" || appCfg.GitHubClientSecret == "" {
		return fmt.Errorf("github_client_id and github_client_secret are required")
	}

	return nil
}
