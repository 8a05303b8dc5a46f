package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"perftrack/internal/domain/access"
	"perftrack/internal/domain/auth"
)

const testSecret = "test-secret"

func identityFor(t *testing.T, handler http.Handler, token string) (access.Identity, bool) {
	t.Helper()
	var got access.Identity
	var ok bool
	probe := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetUser(r.Context())
		handler.ServeHTTP(w, r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	probe.ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func noopHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
}

func TestAuthResolvesIdentity(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u-1", Role: auth.RoleSupervisor}, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	got, ok := identityFor(t, noopHandler(), token)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if got.UserID != "u-1" || got.Role != auth.RoleSupervisor {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestAuthPassesAnonymousThrough(t *testing.T) {
	if _, ok := identityFor(t, noopHandler(), ""); ok {
		t.Fatal("expected no identity without a token")
	}
}

func TestAuthRejectsForeignSignature(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", auth.Claims{UserID: "u-1", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	if _, ok := identityFor(t, noopHandler(), token); ok {
		t.Fatal("expected token signed with another secret to be ignored")
	}
}

func TestRequireRole(t *testing.T) {
	adminToken, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u-1", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	employeeToken, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u-2", Role: auth.RoleEmployee}, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	handler := Auth(testSecret)(RequireRole(auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "anonymous", token: "", want: http.StatusUnauthorized},
		{name: "wrong role", token: employeeToken, want: http.StatusForbidden},
		{name: "admin", token: adminToken, want: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/settings", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
