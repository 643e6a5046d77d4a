package backend

import "fmt"

// APIError is the single failure type surfaced by the backend client.
// Transport-level failures carry a synthetic 500 status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}
