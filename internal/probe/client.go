// internal/probe/client.go
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

const (
	PathPing   = "/manager-api/ping"
	PathStatus = "/status"
)

// Client performs the two read-only appliance calls.
// It keeps no state and never retries.
type Client struct {
	base   string
	ping   *http.Client // redirects are not followed
	status *http.Client
}

// Config is minimal transport config.
type Config struct {
	BaseURL string

	// Transport is shared by both calls. Nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// New creates a probe client. No request is issued.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("probe client: base url required")
	}

	tr := cfg.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}

	return &Client{
		base: cfg.BaseURL,
		ping: &http.Client{
			Transport: tr,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		status: &http.Client{Transport: tr},
	}, nil
}

// Live reports whether the appliance answered the liveness probe with a
// direct 200. A redirect means the appliance is not fully up yet.
// Transport failures read as "not live" and are not returned.
func (c *Client) Live(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+PathPing, nil)
	if err != nil {
		slog.Debug("liveness probe", "error", err)
		return false
	}

	resp, err := c.ping.Do(req)
	if err != nil {
		slog.Debug("liveness probe", "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// FetchStatus reads and decodes the status feed.
// The HTTP status code is not inspected: a decodable body is a snapshot.
func (c *Client) FetchStatus(ctx context.Context) ([]ServiceStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+PathStatus, nil)
	if err != nil {
		return nil, &FetchError{Op: "request", Err: err}
	}

	resp, err := c.status.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	var services []ServiceStatus
	if err := json.NewDecoder(resp.Body).Decode(&services); err != nil {
		return nil, &FetchError{Op: "decode", Err: err}
	}
	return services, nil
}
