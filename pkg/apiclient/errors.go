package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents an error response from the API. Problem responses
// (RFC 7807) fill Title and Detail; health responses fill only Detail.
type APIError struct {
	StatusCode int    `json:"status"`
	Title      string `json:"title,omitempty"`
	Detail     string `json:"detail,omitempty"`
	NFSStatus  string `json:"nfs_status,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Title
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.NFSStatus != "" {
		return fmt.Sprintf("%s (%s)", msg, e.NFSStatus)
	}
	return msg
}

// IsAuthError returns true if this is an authentication or authorization error.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound returns true if the addressed client or session does not exist.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnavailable returns true if the server's state handler is stopped.
func (e *APIError) IsUnavailable() bool {
	return e.StatusCode == http.StatusServiceUnavailable
}

// parseError builds an APIError from an error response body.
func parseError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	if json.Unmarshal(body, apiErr) == nil && (apiErr.Title != "" || apiErr.Detail != "") {
		apiErr.StatusCode = status
		return apiErr
	}

	var health struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &health) == nil && health.Error != "" {
		return &APIError{StatusCode: status, Detail: health.Error}
	}

	return &APIError{StatusCode: status, Detail: strings.TrimSpace(string(body))}
}
