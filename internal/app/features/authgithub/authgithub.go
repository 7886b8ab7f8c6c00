// internal/app/features/authgithub/authgithub.go
package authgithub

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - GitHubID / githubID / github_id: GitHub's stable account identifier (decimal string)

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	errorsfeature "github.com/brunocaldas/portfoliohub/internal/app/features/errors"
	"github.com/brunocaldas/portfoliohub/internal/app/store/oauthstate"
	"github.com/brunocaldas/portfoliohub/internal/app/store/sessions"
	userstore "github.com/brunocaldas/portfoliohub/internal/app/store/users"
	"github.com/brunocaldas/portfoliohub/internal/app/system/auth"
	"github.com/brunocaldas/portfoliohub/internal/app/system/network"
	"github.com/brunocaldas/portfoliohub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// Scopes requested from GitHub on login.
var oauthScopes = []string{"user:email", "read:user", "public_repo"}

const githubAPIBaseURL = "https://api.github.com"

// Handler provides GitHub OAuth handlers.
type Handler struct {
	userStore       *userstore.Store
	sessionMgr      *auth.SessionManager
	errLog          *errorsfeature.ErrorLogger
	sessionsStore   *sessions.Store
	oauthStateStore *oauthstate.Store
	oauthConfig     *oauth2.Config
	apiBaseURL      string
	frontendBaseURL string
	sessionMaxAge   time.Duration
	logger          *zap.Logger
}

// NewHandler creates a new GitHub OAuth Handler.
//
// baseURL is this service's public URL (the callback is registered under
// it); frontendBaseURL is where the browser lands after login succeeds or
// fails.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *errorsfeature.ErrorLogger,
	sessionsStore *sessions.Store,
	oauthStateStore *oauthstate.Store,
	clientID string,
	clientSecret string,
	baseURL string,
	frontendBaseURL string,
	sessionMaxAge time.Duration,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userStore:       userstore.New(db),
		sessionMgr:      sessionMgr,
		errLog:          errLog,
		sessionsStore:   sessionsStore,
		oauthStateStore: oauthStateStore,
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/github/callback",
			Scopes:       oauthScopes,
			Endpoint:     github.Endpoint,
		},
		apiBaseURL:      githubAPIBaseURL,
		frontendBaseURL: frontendBaseURL,
		sessionMaxAge:   sessionMaxAge,
		logger:          logger,
	}
}

// Routes returns a chi.Router with GitHub OAuth routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.startAuth)
	r.Get("/callback", h.handleCallback)
	return r
}

// startAuth initiates the GitHub OAuth flow.
func (h *Handler) startAuth(w http.ResponseWriter, r *http.Request) {
	// Generate state token
	state, err := generateState()
	if err != nil {
		h.errLog.Log(r, "failed to generate state", err)
		h.redirectLanding(w, r, "oauth_error")
		return
	}

	// Store state in database
	if err := h.oauthStateStore.Create(r.Context(), state); err != nil {
		h.errLog.Log(r, "failed to store state", err)
		h.redirectLanding(w, r, "oauth_error")
		return
	}

	// Redirect to GitHub
	url := h.oauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// handleCallback processes the GitHub OAuth callback.
//
// Every failure path ends in a redirect to the landing page with no cookie
// set; the user retries by clicking login again. Only a store failure is a
// 500, since retrying the redirect cannot fix it.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	// Verify state (single use)
	state := r.URL.Query().Get("state")
	if !h.oauthStateStore.Verify(r.Context(), state) {
		h.logger.Warn("invalid oauth state")
		h.redirectLanding(w, r, "invalid_state")
		return
	}

	// Check for error from GitHub (user denied access, etc.)
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		h.logger.Warn("oauth error from github", zap.String("error", errMsg))
		h.redirectLanding(w, r, errMsg)
		return
	}

	// Exchange code for token. A bad or reused code and a provider outage
	// look the same from here: no session, back to the landing page.
	code := r.URL.Query().Get("code")
	exchangeCtx, cancel := context.WithTimeout(r.Context(), timeouts.Provider())
	token, err := h.oauthConfig.Exchange(exchangeCtx, code)
	cancel()
	if err != nil {
		h.errLog.Log(r, "failed to exchange code", err)
		h.redirectLanding(w, r, "token_exchange_failed")
		return
	}

	// Get the authenticated user's profile from GitHub
	profile, err := h.getUserInfo(r.Context(), token)
	if err != nil {
		h.errLog.Log(r, "failed to get user info", err)
		h.redirectLanding(w, r, "userinfo_failed")
		return
	}

	// Find or create the user record. Duplicate-key races between two
	// first-logins are absorbed inside FindOrCreate.
	user, err := h.userStore.FindOrCreate(r.Context(), profile.GitHubID(), profile.Login, profile.HTMLURL)
	if err != nil {
		h.errLog.ServerError(w, r, "failed to find or create user", err)
		return
	}

	// Establish the session: server-side mapping first, then the cookie.
	if err := h.createSession(w, r, user.ID); err != nil {
		h.errLog.ServerError(w, r, "failed to create session", err)
		return
	}

	h.logger.Info("login succeeded",
		zap.String("user_id", user.ID.Hex()),
		zap.String("username", user.Username))

	http.Redirect(w, r, h.frontendBaseURL+"/dashboard", http.StatusSeeOther)
}

// redirectLanding sends the browser back to the public landing page with an
// error code in the query string. No cookie is ever set on this path.
func (h *Handler) redirectLanding(w http.ResponseWriter, r *http.Request, errCode string) {
	http.Redirect(w, r, h.frontendBaseURL+"/?error="+errCode, http.StatusSeeOther)
}

// GitHubUserInfo represents the authenticated user from GitHub's API.
type GitHubUserInfo struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	HTMLURL   string `json:"html_url"`
	AvatarURL string `json:"avatar_url"`
}

// GitHubID returns the account id as the decimal string stored in github_id.
func (u *GitHubUserInfo) GitHubID() string {
	return strconv.FormatInt(u.ID, 10)
}

// getUserInfo fetches the authenticated user from GitHub.
func (h *Handler) getUserInfo(ctx context.Context, token *oauth2.Token) (*GitHubUserInfo, error) {
	client := h.oauthConfig.Client(ctx, token)

	ctx, cancel := context.WithTimeout(ctx, timeouts.Provider())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", h.apiBaseURL+"/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user endpoint returned %d", resp.StatusCode)
	}

	var info GitHubUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	return &info, nil
}

// generateState generates a random state token.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// createSession stores the token -> user mapping and then sets the cookie.
// If the mapping cannot be stored no cookie is written, so a store failure
// never leaves a cookie pointing at nothing.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) error {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}

	now := time.Now()
	session := sessions.Session{
		Token:     token,
		UserID:    userID,
		IPAddress: network.GetClientIP(r),
		UserAgent: r.UserAgent(),
		ExpiresAt: now.Add(h.sessionMaxAge),
		CreatedAt: now,
	}

	if err := h.sessionsStore.Create(r.Context(), session); err != nil {
		return err
	}

	if err := h.sessionMgr.CreateSession(w, r, token); err != nil {
		// Roll back the mapping so the token can't linger unclaimed.
		_ = h.sessionsStore.Delete(r.Context(), token)
		return err
	}

	return nil
}
