// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/brunocaldas/portfoliohub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides the protected dashboard endpoint.
type Handler struct {
	loginURL string
	logger   *zap.Logger
}

// NewHandler creates a new dashboard Handler.
func NewHandler(loginURL string, logger *zap.Logger) *Handler {
	return &Handler{
		loginURL: loginURL,
		logger:   logger,
	}
}

// Routes returns a chi.Router with dashboard routes mounted.
// Access control happens inside the handler rather than RequireAuth
// middleware because an anonymous hit must land on the OAuth login
// route, not a login page.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.show)
	return r
}

// show greets the signed-in user, or bounces the browser into the OAuth
// flow. The SPA's own /dashboard route calls GET /session for its state;
// this endpoint is the server-side protected resource.
func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, h.loginURL, http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<p>Hello, %s! Your GitHub login is working.</p>",
		template.HTMLEscapeString(user.Username))
}
