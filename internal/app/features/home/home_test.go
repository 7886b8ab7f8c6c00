package home

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/brunocaldas/portfoliohub/internal/testutil"
	"go.uber.org/zap"
)

func TestNewHandler(t *testing.T) {
	if NewHandler(zap.NewNop()) == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestIndex(t *testing.T) {
	h := NewHandler(zap.NewNop())

	req := testutil.NewRequest(http.MethodGet, "/")
	rec := testutil.NewRecorder()

	h.index(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "PortfolioHUB")
	rec.AssertContains(t, "projects")
}

func TestProjects(t *testing.T) {
	h := NewHandler(zap.NewNop())

	req := testutil.NewRequest(http.MethodGet, "/projects")
	rec := testutil.NewRecorder()

	h.projects(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var projects []Project
	if err := json.Unmarshal(rec.Body.Bytes(), &projects); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(projects) == 0 {
		t.Fatal("projects list should not be empty")
	}
	for i, p := range projects {
		if p.Name == "" || p.URL == "" {
			t.Errorf("project %d missing name or url: %+v", i, p)
		}
	}
}
