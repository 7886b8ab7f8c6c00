package errors

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLog_ReturnsRef(t *testing.T) {
	el := NewErrorLogger(zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback", nil)
	ref := el.Log(req, "something failed", stderrors.New("boom"))

	if len(ref) != 8 {
		t.Errorf("len(ref) = %d, want 8", len(ref))
	}
}

func TestLog_RefsAreUnique(t *testing.T) {
	el := NewErrorLogger(zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	ref1 := el.Log(req, "a", stderrors.New("x"))
	ref2 := el.Log(req, "b", stderrors.New("y"))
	if ref1 == ref2 {
		t.Error("incident refs should be unique")
	}
}

func TestServerError(t *testing.T) {
	el := NewErrorLogger(zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback", nil)
	rec := httptest.NewRecorder()

	el.ServerError(rec, req, "store failed", stderrors.New("connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "internal server error") {
		t.Errorf("body = %q, want generic error message", body)
	}
	if !strings.Contains(body, "ref") {
		t.Errorf("body = %q, want incident ref", body)
	}
	// Internal details must never reach the client.
	if strings.Contains(body, "connection refused") {
		t.Errorf("body = %q, leaks internal error detail", body)
	}
}
