package rest

import (
	"net/http"
	"time"
)

// HTTPClientOption configures an HTTPDoer
type HTTPClientOption func(HTTPDoer) HTTPDoer

// ApplyHTTPClientOptions applies multiple options to an HTTPDoer
func ApplyHTTPClientOptions(doer HTTPDoer, options ...HTTPClientOption) HTTPDoer {
	for _, option := range options {
		doer = option(doer)
	}
	return doer
}

// WithTimeout sets the timeout when the doer is an *http.Client.
// Zero leaves the current timeout alone.
func WithTimeout(timeout time.Duration) HTTPClientOption {
	return func(doer HTTPDoer) HTTPDoer {
		if httpClient, ok := doer.(*http.Client); ok && timeout > 0 {
			httpClient.Timeout = timeout
		}
		return doer
	}
}

// WithCustomHTTPClient creates an option that replaces the HTTPDoer entirely
func WithCustomHTTPClient(client HTTPDoer) HTTPClientOption {
	return func(_ HTTPDoer) HTTPDoer {
		return client
	}
}
