package auth

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Token: the opaque random value carried by the session cookie

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Session error classification for logging and monitoring.
type sessionErrorType int

const (
	sessionErrUnknown sessionErrorType = iota
	sessionErrExpired                  // timestamp expired - normal
	sessionErrTampered                 // MAC invalid - potential attack
	sessionErrCorrupted                // decode/decrypt failed - corruption or key rotation
	sessionErrBackend                  // store/backend failure
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// The signed cookie carries the session token and nothing else. Who the
// token belongs to is resolved server-side on every request.
const sessionTokenKey = "session_token"

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager - injectable session management                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager encapsulates the session cookie and its server-side
// resolution. It provides middleware and utilities for session-based
// authentication. Use NewSessionManager to create an instance.
type SessionManager struct {
	store       *sessions.CookieStore
	logger      *zap.Logger
	name        string
	loginURL    string
	resolver    TokenResolver
	userFetcher UserFetcher
}

// NewSessionManager creates a new SessionManager with the provided configuration.
//
// Parameters:
//   - sessionKey: signing key for cookies (must be ≥32 chars in production)
//   - name: session cookie name (defaults to "portfoliohub-session" if empty)
//   - domain: cookie domain (empty means current host)
//   - maxAge: session cookie lifetime (e.g., 24*time.Hour)
//   - secure: if true, cookies are marked Secure (for HTTPS production)
//   - loginURL: where RequireAuth sends anonymous browsers
//   - logger: zap logger for session error logging
//
// Returns an error if sessionKey is empty or too weak for production mode.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, loginURL string, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, &SessionConfigError{Message: "session key is empty; provide ≥32 random chars"}
	}

	isWeak := len(sessionKey) < 32 || isDefaultKey(sessionKey)

	if secure {
		// In production mode, require a strong key - fail startup if weak
		if isWeak {
			return nil, &SessionConfigError{
				Message: "session key is too weak for production; provide ≥32 random chars (not the default dev key)",
			}
		}
	} else if isWeak {
		// In dev mode, warn but allow weak keys
		logger.Warn("session key is weak; 32+ random chars required in production",
			zap.Int("length", len(sessionKey)),
			zap.Bool("is_default", isDefaultKey(sessionKey)))
	}

	if name == "" {
		name = "portfoliohub-session"
	}
	if loginURL == "" {
		loginURL = "/auth/github"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}

	// SameSite=Lax allows the cookie on the top-level navigation back from
	// GitHub's authorize page while blocking cross-site POST requests.
	opts.SameSite = http.SameSiteLaxMode

	store.Options = opts

	logger.Info("session manager initialized",
		zap.Bool("secure", secure),
		zap.String("name", name),
		zap.String("domain", domain))

	return &SessionManager{
		store:    store,
		logger:   logger,
		name:     name,
		loginURL: loginURL,
	}, nil
}

// SessionConfigError is returned when session configuration is invalid.
type SessionConfigError struct {
	Message string
}

func (e *SessionConfigError) Error() string {
	return e.Message
}

// SessionName returns the configured session cookie name.
func (sm *SessionManager) SessionName() string {
	return sm.name
}

// SetTokenResolver sets the TokenResolver used by LoadSessionUser to map the
// cookie token to a user id. This must be called after database initialization.
func (sm *SessionManager) SetTokenResolver(tr TokenResolver) {
	sm.resolver = tr
}

// SetUserFetcher sets the UserFetcher used by LoadSessionUser to fetch fresh
// user data on each request. This must be called after database initialization.
func (sm *SessionManager) SetUserFetcher(uf UserFetcher) {
	sm.userFetcher = uf
}

/*─────────────────────────────────────────────────────────────────────────────*
| Resolver interfaces                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// TokenResolver maps a session token to a user id on the server side.
// Implementations must treat unknown and expired tokens identically.
type TokenResolver interface {
	// ResolveToken returns the user id for a live token, or ok=false when
	// the token is unknown or expired.
	ResolveToken(ctx context.Context, token string) (userID string, ok bool)

	// RevokeToken removes the server-side mapping. Revoking an absent
	// token is not an error.
	RevokeToken(ctx context.Context, token string) error
}

// UserFetcher fetches fresh user data from the database.
// Implementations should return nil if the user is not found or any other
// condition that should invalidate the session.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser represents the authenticated user in the request context.
// This data is fetched fresh from the database on each request, so a valid
// session always reflects an existing user record.
type SessionUser struct {
	ID         string
	Username   string
	ProfileURL string
	Token      string // Session token for logout
}

// SessionToken returns the session token for this user's current session.
func (u *SessionUser) SessionToken() string {
	return u.Token
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag from the request context.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser returns middleware that injects the user into context if
// logged in. The cookie token is resolved through the TokenResolver and the
// user record is re-fetched through the UserFetcher; if either misses, the
// request proceeds anonymously and the stale cookie is cleared.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			sm.logSessionError(err, r)
		}

		token := getString(sess, sessionTokenKey)
		if token != "" && sm.resolver != nil && sm.userFetcher != nil {
			if userID, ok := sm.resolver.ResolveToken(r.Context(), token); ok {
				if u := sm.userFetcher.FetchUser(r.Context(), userID); u != nil {
					u.Token = token
					r = withUser(r, u)
				} else {
					// Token mapped to a user that no longer exists.
					sm.logger.Info("session invalidated: user not found",
						zap.String("user_id", userID),
						zap.String("path", r.URL.Path))
					sm.clearCookie(w, r, sess)
				}
			} else {
				// Expired or revoked server-side; drop the cookie quietly.
				sm.clearCookie(w, r, sess)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth returns middleware that ensures there is a user in context.
// Anonymous browsers are redirected to the login URL; non-HTML callers get
// a plain 401.
func (sm *SessionManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			http.Redirect(w, r, sm.loginURL, http.StatusSeeOther)
			return
		}

		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session Management                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// CreateSession writes the session cookie carrying the token. The caller is
// responsible for having stored the token -> user mapping first; no cookie
// is set when saving fails, so a store failure never leaves a half-session.
func (sm *SessionManager) CreateSession(w http.ResponseWriter, r *http.Request, token string) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		// Create new session if can't get existing
		sess, _ = sm.store.New(r, sm.name)
	}

	sess.Values[sessionTokenKey] = token

	return sess.Save(r, w)
}

// GetSessionToken returns the session token from the current request.
func (sm *SessionManager) GetSessionToken(r *http.Request) string {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return ""
	}
	return getString(sess, sessionTokenKey)
}

// GenerateSessionToken generates a random URL-safe token.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// DestroySession revokes the server-side token and expires the cookie.
// Destroying an already-destroyed session is a no-op.
func (sm *SessionManager) DestroySession(w http.ResponseWriter, r *http.Request) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return
	}

	if token := getString(sess, sessionTokenKey); token != "" && sm.resolver != nil {
		if err := sm.resolver.RevokeToken(r.Context(), token); err != nil {
			sm.logger.Warn("failed to revoke session token", zap.Error(err))
		}
	}

	sm.clearCookie(w, r, sess)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (sm *SessionManager) clearCookie(w http.ResponseWriter, r *http.Request, sess *sessions.Session) {
	delete(sess.Values, sessionTokenKey)
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w) // Best effort to clear
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a SessionUser into the request context for testing.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if s == nil {
		return ""
	}
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}

// isDefaultKey checks if the session key appears to be a default/placeholder value.
func isDefaultKey(key string) bool {
	lower := strings.ToLower(key)
	patterns := []string{
		"dev-only",
		"change-me",
		"placeholder",
		"default",
		"example",
		"insecure",
		"secret123",
		"password",
	}
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// logSessionError categorizes a session/cookie error for appropriate logging.
func (sm *SessionManager) logSessionError(err error, r *http.Request) {
	errType, errCategory := classifySessionError(err)
	switch errType {
	case sessionErrExpired:
		sm.logger.Debug("session expired, starting fresh session",
			zap.String("category", errCategory),
			zap.String("path", r.URL.Path))
	case sessionErrTampered:
		sm.logger.Warn("session MAC validation failed (possible tampering)",
			zap.String("category", errCategory),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()))
	case sessionErrCorrupted:
		sm.logger.Info("session decode failed, starting fresh session",
			zap.String("category", errCategory),
			zap.String("path", r.URL.Path))
	case sessionErrBackend:
		sm.logger.Error("session store error, starting fresh session",
			zap.Error(err),
			zap.String("path", r.URL.Path))
	default:
		sm.logger.Warn("session error, starting fresh session",
			zap.Error(err),
			zap.String("category", errCategory),
			zap.String("path", r.URL.Path))
	}
}

func classifySessionError(err error) (sessionErrorType, string) {
	if err == nil {
		return sessionErrUnknown, "none"
	}

	errStr := strings.ToLower(err.Error())

	if scErr, ok := err.(securecookie.Error); ok {
		if !scErr.IsDecode() {
			return sessionErrBackend, "backend"
		}

		switch {
		case strings.Contains(errStr, "expired timestamp"):
			return sessionErrExpired, "expired"
		case strings.Contains(errStr, "mac") || strings.Contains(errStr, "hash"):
			return sessionErrTampered, "mac_invalid"
		case strings.Contains(errStr, "decrypt"):
			return sessionErrCorrupted, "decrypt_failed"
		case strings.Contains(errStr, "base64") || strings.Contains(errStr, "decode"):
			return sessionErrCorrupted, "decode_failed"
		default:
			return sessionErrCorrupted, "decode_other"
		}
	}

	return sessionErrBackend, "unknown"
}
