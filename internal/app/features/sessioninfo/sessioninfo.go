// internal/app/features/sessioninfo/sessioninfo.go
package sessioninfo

import (
	"net/http"

	"github.com/brunocaldas/portfoliohub/internal/app/system/auth"
	"github.com/brunocaldas/portfoliohub/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler provides the who-am-i endpoint the frontend polls to decide
// between its public and authenticated views. The browser never has to
// guess its own login state (or stash a flag in local storage); this
// endpoint is the single source of truth.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new session info Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// Routes returns a chi.Router with the session info route mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.current)
	return r
}

// UserVM is the user payload returned to the frontend.
type UserVM struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// Response is the session info payload.
type Response struct {
	Authenticated bool    `json:"authenticated"`
	User          *UserVM `json:"user,omitempty"`
}

// current reports whether the request carries a live session. Anonymous is
// a normal answer here, not an error: the endpoint always returns 200.
func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		jsonutil.OK(w, Response{Authenticated: false})
		return
	}

	jsonutil.OK(w, Response{
		Authenticated: true,
		User: &UserVM{
			ID:         user.ID,
			Username:   user.Username,
			ProfileURL: user.ProfileURL,
		},
	})
}
