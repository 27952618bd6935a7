package camedomotic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultCommandTimeout is the default timeout for a single gateway
	// round trip, including the host probe at construction.
	DefaultCommandTimeout = 10 * time.Second
)

// transport performs the single request shape the CAME Domotic protocol
// uses: a form-encoded POST of a JSON envelope to http://<host>/domo/, plus
// a GET probe of the same endpoint used once at construction.
type transport struct {
	host       string
	httpClient *http.Client
}

// defaultHTTPClient returns the default HTTP client configuration.
// Per-request timeouts are applied through the context, not here, so the
// client-level timeout stays unset.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   false,
		},
	}
}

// endpointURL returns the gateway endpoint URL.
func (t *transport) endpointURL() string {
	return "http://" + t.host + "/domo/"
}

// post sends a JSON envelope to the gateway and returns the raw response
// body on any 2xx status. Every other outcome (non-2xx status, timeout,
// network failure) is wrapped as ErrServer with the cause preserved.
func (t *transport) post(ctx context.Context, payload any, timeout time.Duration) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding command: %w", ErrServer, err)
	}

	form := url.Values{}
	form.Set("command", string(encoded))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpointURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrServer, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Connection", "Keep-Alive")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: HTTP POST failed: %w", ErrServer, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", ErrServer, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d (%s)", ErrServer, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return body, nil
}

// validateHost probes the endpoint with a GET and expects a 2xx answer.
// Any failure is wrapped as ErrServerNotFound, distinct from the generic
// server error kind: the probe runs at construction time, so a failure is
// a configuration problem, not a transient one.
func (t *transport) validateHost(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpointURL(), nil)
	if err != nil {
		return fmt.Errorf("%w: creating probe request: %w", ErrServerNotFound, err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: HTTP GET of %q failed: %w", ErrServerNotFound, t.endpointURL(), err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP GET of %q returned status %d", ErrServerNotFound, t.endpointURL(), resp.StatusCode)
	}

	return nil
}

// close releases idle connections held by the underlying HTTP client.
func (t *transport) close() {
	t.httpClient.CloseIdleConnections()
}
