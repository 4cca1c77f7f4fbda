package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FleetLinkRent/FleetLinkRent/internal/common/auth"
	"github.com/FleetLinkRent/FleetLinkRent/internal/common/config"
)

func authedHandler(t *testing.T, hits *int, wantSubject string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if wantSubject == "" {
			return
		}
		ai, ok := AuthFromContext(r.Context())
		if !ok || ai.Subject != wantSubject {
			t.Fatalf("expected auth info for %q in context, got %+v ok=%v", wantSubject, ai, ok)
		}
	})
}

func TestJWTAuthDisabledPassesThrough(t *testing.T) {
	cfg := config.AuthConfig{Enabled: false}
	hits := 0
	h := JWTAuth(cfg, "admin", nil)(authedHandler(t, &hits, ""))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusOK || hits != 1 {
		t.Fatalf("expected passthrough, got code=%d hits=%d", rec.Code, hits)
	}
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: "test-secret"}
	hits := 0
	h := JWTAuth(cfg, "admin", nil)(authedHandler(t, &hits, ""))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", rec.Code)
	}
	if hits != 0 {
		t.Fatalf("handler must not run, hits=%d", hits)
	}
}

func TestJWTAuthRoleEnforcement(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: "test-secret"}

	viewer, _, err := auth.GenerateAccessToken(cfg, "viewer", []string{"viewer"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	admin, _, err := auth.GenerateAccessToken(cfg, "ops", []string{"admin"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	hits := 0
	h := JWTAuth(cfg, "admin", nil)(authedHandler(t, &hits, "ops"))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("viewer: expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || hits != 1 {
		t.Fatalf("admin: expected 200 and handler hit, got code=%d hits=%d", rec.Code, hits)
	}
}

func TestRecoveryConvertsPanic(t *testing.T) {
	h := Recovery(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestTimeoutAttachesDeadline(t *testing.T) {
	h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); !ok {
			t.Fatalf("expected deadline on request context")
		}
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
