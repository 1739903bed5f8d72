package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfs4state/internal/controlplane/api/auth"
	"github.com/marmos91/nfs4state/internal/controlplane/api/handlers"
)

const testSecret = "middleware-test-secret-0123456789abcdef"

func newJWTService(t *testing.T, d time.Duration) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(auth.JWTConfig{Secret: testSecret, Issuer: "nfs4state", TokenDuration: d})
	require.NoError(t, err)
	return svc
}

func issue(t *testing.T, svc *auth.JWTService, role auth.Role) string {
	t.Helper()
	tok, err := svc.GenerateToken("ops", role)
	require.NoError(t, err)
	return tok.AccessToken
}

// adminOnly is the chain the router puts in front of evict and destroy.
func adminOnly(svc *auth.JWTService, reached *bool) http.Handler {
	return JWTAuth(svc)(RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		w.WriteHeader(http.StatusNoContent)
	})))
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"absent":           {"", "", false},
		"bearer":           {"Bearer abc", "abc", true},
		"scheme any case":  {"bEaReR abc", "abc", true},
		"scheme only":      {"Bearer", "", false},
		"empty token":      {"Bearer ", "", false},
		"basic auth":       {"Basic dXNlcjpwdw==", "", false},
		"missing space":    {"Bearerabc", "", false},
		"token keeps rest": {"Bearer a b", "a b", true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/x", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			token, ok := extractBearerToken(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestAdminChain(t *testing.T) {
	svc := newJWTService(t, time.Hour)
	expired := newJWTService(t, -time.Minute)
	other, err := auth.NewJWTService(auth.JWTConfig{Secret: "another-secret-0123456789abcdefghijkl"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		token  string
		status int
		detail string
	}{
		{"no token", "", http.StatusUnauthorized, "Missing or malformed Authorization header"},
		{"garbage", "not-a-jwt", http.StatusUnauthorized, "Invalid token"},
		{"foreign secret", issue(t, other, auth.RoleAdmin), http.StatusUnauthorized, "Invalid token"},
		{"expired", issue(t, expired, auth.RoleAdmin), http.StatusUnauthorized, "Token has expired"},
		{"viewer", issue(t, svc, auth.RoleViewer), http.StatusForbidden, "Admin role required"},
		{"admin", issue(t, svc, auth.RoleAdmin), http.StatusNoContent, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var reached bool
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/clients/0000000000000001", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			adminOnly(svc, &reached).ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.status == http.StatusNoContent, reached)
			if tc.detail == "" {
				return
			}

			assert.Equal(t, handlers.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
			var p handlers.Problem
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
			assert.Equal(t, tc.detail, p.Detail)
		})
	}
}

func TestJWTAuth_StoresClaims(t *testing.T) {
	svc := newJWTService(t, time.Hour)

	var claims *auth.Claims
	h := JWTAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = GetClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, svc, auth.RoleViewer))
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, claims)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, auth.RoleViewer, claims.Role)
}

func TestRequireAdmin_WithoutJWTAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAdmin()(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Nil(t, GetClaimsFromContext(context.WithValue(context.Background(), claimsContextKey, "x")))
}
