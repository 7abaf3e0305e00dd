// internal/power/actuator.go
package power

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const PathToken = "/token"

// Action is a power action the appliance accepts.
type Action string

const (
	Shutdown Action = "shutdown"
	Restart  Action = "restart"
)

func (a Action) Valid() bool { return a == Shutdown || a == Restart }

// Outcome is the result of one power action attempt.
//
// The appliance usually drops the connection while it goes down, so a
// transport failure cannot be told apart from a dropped success. Such
// attempts report Assumed and the polling loop becomes the source of truth.
type Outcome int

const (
	Failed    Outcome = iota // POST completed with a non-2xx status
	Confirmed                // POST completed with a 2xx status
	Assumed                  // attempt broke off; treated as progress
)

// OK reports whether the monitor should proceed as if the action was accepted.
func (o Outcome) OK() bool { return o != Failed }

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Assumed:
		return "assumed"
	default:
		return "failed"
	}
}

// Actuator fetches a one-time token and posts the bound action.
// No timeout is imposed; the caller's context is the only bound.
type Actuator struct {
	base string
	http *http.Client
}

type Config struct {
	BaseURL   string
	Transport http.RoundTripper // nil means http.DefaultTransport
}

func New(cfg Config) (*Actuator, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("power actuator: base url required")
	}
	return &Actuator{
		base: cfg.BaseURL,
		http: &http.Client{Transport: cfg.Transport},
	}, nil
}

// Perform runs token fetch + action POST. It never returns an error:
// the ambiguity is carried by the Outcome. A caller that gave up reads
// as Failed, since nothing proves the request left this process.
func (a *Actuator) Perform(ctx context.Context, action Action) Outcome {
	if !action.Valid() {
		slog.Error("power action rejected", "action", string(action))
		return Failed
	}

	status, err := a.perform(ctx, action)
	if err != nil && ctx.Err() != nil {
		slog.Warn("power action abandoned by caller",
			"action", string(action), "error", err)
		return Failed
	}
	if err != nil {
		slog.Warn("power action did not complete, assuming accepted",
			"action", string(action), "error", err)
		return Assumed
	}
	if status < 200 || status > 299 {
		slog.Warn("power action refused", "action", string(action), "status", status)
		return Failed
	}
	return Confirmed
}

func (a *Actuator) perform(ctx context.Context, action Action) (int, error) {
	token, err := a.fetchToken(ctx)
	if err != nil {
		return 0, err
	}

	body, err := json.Marshal(struct {
		Token json.RawMessage `json:"token"`
	}{Token: token})
	if err != nil {
		return 0, fmt.Errorf("encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/"+string(action), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post %s: %w", action, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// fetchToken returns the token exactly as the appliance encoded it, so
// a string token and any other JSON value are posted back unchanged.
func (a *Actuator) fetchToken(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+PathToken, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}
	defer resp.Body.Close()

	var token json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return token, nil
}
