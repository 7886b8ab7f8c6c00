// internal/app/features/logout/logout.go
package logout

import (
	"net/http"

	"github.com/brunocaldas/portfoliohub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides logout handlers.
type Handler struct {
	sessionMgr      *auth.SessionManager
	frontendBaseURL string
	logger          *zap.Logger
}

// NewHandler creates a new logout Handler.
func NewHandler(sessionMgr *auth.SessionManager, frontendBaseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		sessionMgr:      sessionMgr,
		frontendBaseURL: frontendBaseURL,
		logger:          logger,
	}
}

// Routes returns a chi.Router with logout routes mounted.
// No RequireAuth here: logging out while already logged out still
// redirects cleanly.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.handleLogout)
	r.Get("/", h.handleLogout) // Allow GET for simple logout links
	return r
}

// handleLogout terminates the session and sends the browser to the landing
// page. Destroying an absent session is a no-op, so this never fails from
// the user's point of view.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.CurrentUser(r); ok {
		h.logger.Info("logout", zap.String("user_id", user.ID))
	}

	h.sessionMgr.DestroySession(w, r)

	http.Redirect(w, r, h.frontendBaseURL+"/", http.StatusSeeOther)
}
