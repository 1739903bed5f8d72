package apiclient

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/nfs4state/internal/controlplane/api"
	"github.com/marmos91/nfs4state/internal/controlplane/api/auth"
	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/state"
	"github.com/marmos91/nfs4state/internal/protocol/nfs/v4/types"
)

func TestNew(t *testing.T) {
	client := New("http://localhost:8080/")
	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
}

func TestWithToken(t *testing.T) {
	client := New("http://localhost:8080")
	tokenClient := client.WithToken("test-token")

	assert.Empty(t, client.token)
	assert.Equal(t, "test-token", tokenClient.token)
	assert.Equal(t, "http://localhost:8080", tokenClient.baseURL)
}

func TestDoWithAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL).WithToken("test-token")
	require.NoError(t, client.do(context.Background(), http.MethodGet, "/test", nil))
}

func TestDoWithProblemError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"title":      "Not Found",
			"status":     404,
			"detail":     "unknown client",
			"nfs_status": "NFS4ERR_STALE_CLIENTID",
		})
	}))
	defer server.Close()

	_, err := New(server.URL).GetClient(context.Background(), "abc")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "NFS4ERR_STALE_CLIENTID", apiErr.NFSStatus)
	assert.Equal(t, "unknown client (NFS4ERR_STALE_CLIENTID)", apiErr.Error())
}

func TestDoWithPlainError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	err := New(server.URL).EvictClient(context.Background(), "1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Error())
}

func TestDoWithHealthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unhealthy","error":"state handler is not running"}`))
	}))
	defer server.Close()

	_, err := New(server.URL).Ready(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsUnavailable())
	assert.Equal(t, "state handler is not running", apiErr.Detail)
}

func TestAPIErrorClassification(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: http.StatusUnauthorized}).IsAuthError())
	assert.True(t, (&APIError{StatusCode: http.StatusForbidden}).IsAuthError())
	assert.False(t, (&APIError{StatusCode: http.StatusNotFound}).IsAuthError())
	assert.Equal(t, "Forbidden", (&APIError{StatusCode: http.StatusForbidden}).Error())
}

// TestAgainstRouter drives the client through the real admin API router.
func TestAgainstRouter(t *testing.T) {
	sm, err := state.NewStateHandler()
	require.NoError(t, err)
	defer func() { _ = sm.Shutdown() }()

	c, err := sm.CreateClient(&net.TCPAddr{IP: net.IPv4(10, 1, 1, 5), Port: 900}, nil,
		[]byte("apiclient-owner"), types.Verifier4{3}, "", false)
	require.NoError(t, err)
	s, err := state.NewSession(c)
	require.NoError(t, err)
	require.NoError(t, sm.AddSession(s))

	svc, err := auth.NewJWTService(auth.JWTConfig{Secret: "apiclient-test-secret-0123456789abcdef"})
	require.NoError(t, err)
	tok, err := svc.GenerateToken("tester", auth.RoleAdmin)
	require.NoError(t, err)

	server := httptest.NewServer(api.NewRouter(sm, svc))
	defer server.Close()

	ctx := context.Background()
	client := New(server.URL)

	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)

	grace, err := client.GraceStatus(ctx)
	require.NoError(t, err)
	assert.False(t, grace.Active)

	clients, err := client.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "10.1.1.5:900", clients[0].Address)

	sessions, err := client.ListSessions(ctx, clients[0].ClientID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, s.ID().String(), sessions[0].SessionID)

	sid := c.CreateState(nil)
	var wire bytes.Buffer
	require.NoError(t, types.EncodeStateid4(&wire, &sid))
	resolved, err := client.ResolveStateid(ctx, hex.EncodeToString(wire.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, clients[0].ClientID, resolved.Client.ClientID)
	assert.Equal(t, sid.Counter(), resolved.Counter)

	// Mutations need the token.
	err = client.EvictClient(ctx, clients[0].ClientID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsAuthError())

	require.NoError(t, client.WithToken(tok.AccessToken).EvictClient(ctx, clients[0].ClientID))

	_, err = client.GetClient(ctx, clients[0].ClientID)
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFound())
}
