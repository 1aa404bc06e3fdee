package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPDoer is a minimal interface for HTTP clients
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Transport sends a request and returns the raw response body.
// Any function with this shape can stand in for the network.
type Transport func(ctx context.Context, req *http.Request) ([]byte, error)

// HTTPError wraps HTTP error responses
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// DefaultHTTPClient is the client used when no HTTPDoer is supplied.
func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// NewHTTPTransport turns an HTTPDoer into a Transport.
// Non-2xx responses are reported as *HTTPError.
func NewHTTPTransport(doer HTTPDoer) Transport {
	if doer == nil {
		doer = DefaultHTTPClient()
	}
	return func(ctx context.Context, req *http.Request) ([]byte, error) {
		resp, err := doer.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// drain so the connection can be reused
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		return body, nil
	}
}
