// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	authgithubfeature "github.com/brunocaldas/portfoliohub/internal/app/features/authgithub"
	dashboardfeature "github.com/brunocaldas/portfoliohub/internal/app/features/dashboard"
	errorsfeature "github.com/brunocaldas/portfoliohub/internal/app/features/errors"
	healthfeature "github.com/brunocaldas/portfoliohub/internal/app/features/health"
	homefeature "github.com/brunocaldas/portfoliohub/internal/app/features/home"
	logoutfeature "github.com/brunocaldas/portfoliohub/internal/app/features/logout"
	sessioninfofeature "github.com/brunocaldas/portfoliohub/internal/app/features/sessioninfo"
	"github.com/brunocaldas/portfoliohub/internal/app/store/oauthstate"
	"github.com/brunocaldas/portfoliohub/internal/app/store/ratelimit"
	"github.com/brunocaldas/portfoliohub/internal/app/store/sessions"
	userstore "github.com/brunocaldas/portfoliohub/internal/app/store/users"
	"github.com/brunocaldas/portfoliohub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// loginURL is where unauthenticated browsers are sent to start login.
const loginURL = "/auth/github"

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// This function should:
//  1. Create a router (chi, standard mux, etc.)
//  2. Mount feature routers for different parts of your application
//  3. Add any additional middleware needed for specific routes
//  4. Return the configured router as an http.Handler
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, loginURL, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// The cookie carries only an opaque token; these two hooks resolve it.
	// The token resolver maps token -> user ID against the sessions
	// collection, and the user fetcher re-reads the user record on each
	// request so a deleted record invalidates the session immediately.
	sessionsStore := sessions.New(deps.MongoDatabase)
	sessionMgr.SetTokenResolver(sessionsStore)
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Create OAuth state store for CSRF protection of the login flow.
	oauthStateStore := oauthstate.New(deps.MongoDatabase)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	// The SPA runs on a different origin and sends credentialed requests, so
	// configure WAFFLE's CORS allowed origins to include FrontendBaseURL.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Session middleware: loads SessionUser into context if logged in.
	// Anonymous requests simply have no session, which is fine.
	r.Use(sessionMgr.LoadSessionUser)

	// CSRF protection middleware with path-based exemption for the OAuth
	// routes: GitHub's redirect back to /auth/github/callback cannot carry a
	// CSRF token, and the flow has its own state-token check.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("portfoliohub_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	trustedOrigins := []string{
		"localhost:3000",
		"localhost:5173",
		"127.0.0.1:3000",
		"127.0.0.1:5173",
	}
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins(trustedOrigins))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	csrfMiddleware := func(next http.Handler) http.Handler {
		csrfHandler := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			switch req.URL.Path {
			case "/auth/github", "/auth/github/callback", "/logout":
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	}
	r.Use(csrfMiddleware)

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Public landing data
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// GitHub OAuth login flow, rate limited per client IP
	githubHandler := authgithubfeature.NewHandler(
		deps.MongoDatabase,
		sessionMgr,
		errLog,
		sessionsStore,
		oauthStateStore,
		appCfg.GitHubClientID,
		appCfg.GitHubClientSecret,
		appCfg.BaseURL,
		appCfg.FrontendBaseURL,
		appCfg.SessionMaxAge,
		logger,
	)
	r.Route("/auth/github", func(sr chi.Router) {
		if appCfg.RateLimitEnabled {
			rateLimitStore := ratelimit.New(
				deps.MongoDatabase,
				appCfg.RateLimitMaxRequests,
				appCfg.RateLimitWindow,
			)
			sr.Use(ratelimit.Middleware(rateLimitStore, logger))
		}
		sr.Mount("/", authgithubfeature.Routes(githubHandler))
	})
	logger.Info("GitHub OAuth enabled", zap.String("redirect_url", appCfg.BaseURL+"/auth/github/callback"))

	// Session info endpoint the SPA polls to decide between views
	sessioninfoHandler := sessioninfofeature.NewHandler(logger)
	r.Mount("/session", sessioninfofeature.Routes(sessioninfoHandler))

	// Protected dashboard
	dashboardHandler := dashboardfeature.NewHandler(loginURL, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	// Logout
	logoutHandler := logoutfeature.NewHandler(sessionMgr, appCfg.FrontendBaseURL, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	return r, nil
}
