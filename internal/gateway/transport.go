package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const maxResponseBytes = 4 << 20

// Transport performs one HTTP exchange. The gateway depends only on this
// surface; headers, TLS, and pooling stay behind it. Tests inject fakes.
type Transport interface {
	Do(ctx context.Context, provider Provider, method, rawURL string, params url.Values) (status int, body []byte, err error)
}

// HTTPTransport is the production Transport over net/http. The underlying
// client is built lazily on first use and released by Close.
type HTTPTransport struct {
	Timeout   time.Duration
	UserAgent string
	APIKeys   map[Provider]string

	mu     sync.Mutex
	client *http.Client
}

// Do issues the request and returns the status code and body. Non-2xx
// statuses are returned as data, not errors; translation happens upstream.
func (t *HTTPTransport) Do(ctx context.Context, provider Provider, method, rawURL string, params url.Values) (int, []byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, nil, fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return 0, nil, fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}
	if len(params) > 0 {
		parsed.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, parsed.String(), nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent())
	if key := t.APIKeys[provider]; key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := t.httpClient().Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// Close releases the transport's idle connections. Safe to call more than
// once and before first use.
func (t *HTTPTransport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client != nil {
		t.client.CloseIdleConnections()
		t.client = nil
	}
}

func (t *HTTPTransport) httpClient() *http.Client {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		timeout := t.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		t.client = &http.Client{Timeout: timeout}
	}
	return t.client
}

func (t *HTTPTransport) userAgent() string {
	if ua := strings.TrimSpace(t.UserAgent); ua != "" {
		return ua
	}
	return "Seichijunrei/1.0"
}
