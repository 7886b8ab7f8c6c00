package logout

import (
	"net/http"
	"testing"
	"time"

	"github.com/brunocaldas/portfoliohub/internal/app/system/auth"
	"github.com/brunocaldas/portfoliohub/internal/testutil"
	"go.uber.org/zap"
)

const testFrontendURL = "http://localhost:5173"

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	sessionMgr, err := auth.NewSessionManager(
		"test-session-key-for-testing-1234567890",
		"test-session",
		"",
		24*time.Hour,
		false,
		"/auth/github",
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return NewHandler(sessionMgr, testFrontendURL, zap.NewNop())
}

func TestNewHandler(t *testing.T) {
	if newTestHandler(t) == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestLogout_RedirectsToLanding(t *testing.T) {
	h := newTestHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/logout")
	rec := testutil.NewRecorder()

	h.handleLogout(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, testFrontendURL+"/")
}

func TestLogout_WithoutSessionStillSucceeds(t *testing.T) {
	h := newTestHandler(t)

	// No cookie at all: logging out while logged out must still redirect.
	req := testutil.NewRequest(http.MethodPost, "/logout")
	rec := testutil.NewRecorder()

	h.handleLogout(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, testFrontendURL+"/")
}

func TestLogout_AuthenticatedUser(t *testing.T) {
	h := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/logout", testutil.GitHubUser())
	rec := testutil.NewRecorder()

	h.handleLogout(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, testFrontendURL+"/")
}
