package apiclient

import (
	"context"
	"time"
)

// GraceStatusResponse represents the grace period status returned by the API.
type GraceStatusResponse struct {
	Active    bool   `json:"active"`
	LeaseTime string `json:"lease_time"`
	Message   string `json:"message"`
}

// GraceStatus returns the current grace period status.
// This endpoint is unauthenticated (no token required).
func (c *Client) GraceStatus(ctx context.Context) (*GraceStatusResponse, error) {
	return getResource[GraceStatusResponse](ctx, c, "/api/v1/grace")
}

// HealthResponse is the envelope of the health endpoints.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Health calls the liveness endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return getResource[HealthResponse](ctx, c, "/health")
}

// Ready calls the readiness endpoint. A stopped server yields an
// *APIError with IsUnavailable() true.
func (c *Client) Ready(ctx context.Context) (*HealthResponse, error) {
	return getResource[HealthResponse](ctx, c, "/health/ready")
}
