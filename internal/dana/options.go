package dana

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type clientOptions struct {
	baseURL          string
	httpClient       *http.Client
	timeout          time.Duration
	fallbackClientID string
	concurrency      int
	log              *zerolog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithHTTPClient replaces the transport. Its Timeout wins over WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithFallbackClientID overrides the id used for key derivation when the
// credential carries none.
func WithFallbackClientID(id string) Option {
	return func(o *clientOptions) {
		o.fallbackClientID = id
	}
}

// WithConcurrency bounds the number of in-flight requests in GetReportCards.
func WithConcurrency(n int) Option {
	return func(o *clientOptions) {
		o.concurrency = n
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.log = &log
	}
}
