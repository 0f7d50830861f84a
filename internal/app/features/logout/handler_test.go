package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/rishtahub/internal/app/features/logout"
	"github.com/dalemusser/rishtahub/internal/app/system/auth"
	"go.uber.org/zap"
)

func TestServeLogout(t *testing.T) {
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-session-key-32-characters!!", "rishtahub_session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager() error: %v", err)
	}
	handler := logout.NewHandler(sessionMgr, logger)

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location: got %q, want /", loc)
	}

	// Deletion cookie must be present.
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "rishtahub_session" && c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected an expired session cookie")
	}
}
