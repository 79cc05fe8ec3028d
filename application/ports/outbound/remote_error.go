package outbound

import "fmt"

// RemoteError is returned by adapters when an upstream HTTP API answers with a
// non-OK status.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("HTTP request returned non-OK status code: %d: %s", e.StatusCode, e.Body)
}
