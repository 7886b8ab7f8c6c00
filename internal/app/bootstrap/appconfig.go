// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS, timeouts); AppConfig
// is everything specific to this application. No component reads ambient
// environment state directly — everything flows from here at construction.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: portfoliohub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Maximum session cookie lifetime (default: 24h)

	// Rate limiting configuration (per client IP, on /auth routes)
	RateLimitEnabled     bool          // Enable rate limiting (default: true)
	RateLimitMaxRequests int           // Max requests per window (default: 100)
	RateLimitWindow      time.Duration // Counting window (default: 15m)

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// GitHub OAuth configuration
	GitHubClientID     string // GitHub OAuth app client ID
	GitHubClientSecret string // GitHub OAuth app client secret

	// BaseURL is this service's public URL; the OAuth callback is
	// registered under it (e.g., "http://localhost:3000").
	BaseURL string

	// FrontendBaseURL is where the SPA lives; login success and failure
	// redirects land there (e.g., "http://localhost:5173").
	FrontendBaseURL string
}
