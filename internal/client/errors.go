package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the analytics service.
// Detail carries the service's own explanation when the body had one;
// it is empty when the body was missing or malformed.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("analytics service returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("analytics service returned status %d", e.StatusCode)
}

// NotFound reports whether the service answered 404 for the resource
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// newAPIError builds an APIError from an error response, probing the
// body for a {"detail": string} payload. A detail of any other shape
// is ignored rather than failing the error path.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}
