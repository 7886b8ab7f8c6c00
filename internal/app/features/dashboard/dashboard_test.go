package dashboard

import (
	"net/http"
	"strings"
	"testing"

	"github.com/brunocaldas/portfoliohub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler() *Handler {
	return NewHandler("/auth/github", zap.NewNop())
}

func TestNewHandler(t *testing.T) {
	if newTestHandler() == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestShow_AnonymousRedirectsToLogin(t *testing.T) {
	h := newTestHandler()

	req := testutil.NewRequest(http.MethodGet, "/dashboard")
	rec := testutil.NewRecorder()

	h.show(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/auth/github")
}

func TestShow_AuthenticatedGreetsUser(t *testing.T) {
	h := newTestHandler()

	user := testutil.GitHubUser()
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", user)
	rec := testutil.NewRecorder()

	h.show(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Hello, octocat!")
}

func TestShow_EscapesUsername(t *testing.T) {
	h := newTestHandler()

	user := testutil.TestUser{ID: "u1", Username: "<script>alert(1)</script>"}
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", user)
	rec := testutil.NewRecorder()

	h.show(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "&lt;script&gt;")
	if body := rec.Body.String(); strings.Contains(body, "<script>") {
		t.Errorf("response body contains unescaped markup: %q", body)
	}
}
