// internal/app/features/home/home.go
package home

import (
	"net/http"

	"github.com/brunocaldas/portfoliohub/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the public landing data: the showcased portfolio projects
// the SPA renders on its login page.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new home Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// Routes returns a chi.Router with public landing routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.index)
	r.Get("/projects", h.projects)
	return r
}

// Project is one showcased portfolio entry.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// featuredProjects is the curated public portfolio.
// TODO: load these from the dashboard once project management lands.
var featuredProjects = []Project{
	{
		Name:        "OAuth Login System (this project)",
		Description: "Go backend with GitHub OAuth and MongoDB for secure sign-in.",
		URL:         "https://github.com/brunocaldas/portfoliohub",
	},
	{
		Name:        "Data Analysis with Python",
		Description: "Data science project using Pandas and Matplotlib to visualize financial trends.",
		URL:         "https://github.com/brunocaldas/data-analytics",
	},
	{
		Name:        "Responsive Landing Page",
		Description: "Modern, fully responsive design built with React and Tailwind CSS.",
		URL:         "https://github.com/brunocaldas/responsive-landing",
	},
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]any{
		"name":     "PortfolioHUB",
		"projects": featuredProjects,
	})
}

func (h *Handler) projects(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, featuredProjects)
}
