// internal/server/server_test.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tamzrod/appliance-monitor/internal/lifecycle"
)

type fakeMonitor struct {
	view        lifecycle.View
	shutdownErr error
	restartErr  error
	calls       []string
	lastCtx     context.Context
}

func (f *fakeMonitor) View() lifecycle.View { return f.view }

func (f *fakeMonitor) Shutdown(ctx context.Context) error {
	f.calls = append(f.calls, "shutdown")
	if f.shutdownErr == nil {
		f.view = lifecycle.View{Status: lifecycle.ShuttingDown}
	}
	return f.shutdownErr
}

func (f *fakeMonitor) Restart(ctx context.Context) error {
	f.calls = append(f.calls, "restart")
	f.lastCtx = ctx
	if f.restartErr == nil {
		f.view = lifecycle.View{Status: lifecycle.Restarting}
	}
	return f.restartErr
}

func newTestServer(m *fakeMonitor) *httptest.Server {
	return httptest.NewServer(New(Deps{Monitor: m, Views: m}))
}

func TestStateReturnsViewAndAttributes(t *testing.T) {
	m := &fakeMonitor{view: lifecycle.View{Status: lifecycle.Error, Error: "E1"}}
	srv := newTestServer(m)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/state")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status     string            `json:"status"`
		Error      string            `json:"error"`
		Attributes map[string]string `json:"attributes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "error" || body.Error != "E1" || body.Attributes["error"] != "E1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestActionSuccessIsAccepted(t *testing.T) {
	m := &fakeMonitor{view: lifecycle.View{Status: lifecycle.Ready}}
	srv := newTestServer(m)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/restart", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var body actionResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if !body.OK || body.State.Status != lifecycle.Restarting {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestActionFailureIsBadGateway(t *testing.T) {
	m := &fakeMonitor{
		view:        lifecycle.View{Status: lifecycle.Ready},
		shutdownErr: fmt.Errorf("shutdown: %w", lifecycle.ErrActionFailed),
	}
	srv := newTestServer(m)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/shutdown", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var body actionResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.OK || body.State.Status != lifecycle.Ready {
		t.Fatalf("state must be unchanged on failure: %+v", body)
	}
}

func TestActionsRequirePost(t *testing.T) {
	m := &fakeMonitor{}
	srv := newTestServer(m)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/shutdown")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if len(m.calls) != 0 {
		t.Fatalf("GET must not trigger an action: %v", m.calls)
	}
}

func TestEveryResponseForbidsFraming(t *testing.T) {
	srv := newTestServer(&fakeMonitor{view: lifecycle.View{Status: lifecycle.Starting}})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options: %q", got)
	}
	if got := resp.Header.Get("Content-Security-Policy"); !strings.Contains(got, "frame-ancestors 'none'") {
		t.Fatalf("Content-Security-Policy: %q", got)
	}
}

func TestFramedRequestGetsRefusal(t *testing.T) {
	m := &fakeMonitor{}
	srv := newTestServer(m)
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/restart", nil)
	req.Header.Set("Sec-Fetch-Dest", "iframe")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusForbidden || string(body) != FramedMessage {
		t.Fatalf("got %d %q", resp.StatusCode, body)
	}
	if len(m.calls) != 0 {
		t.Fatalf("framed request reached the monitor: %v", m.calls)
	}
}

func TestActionOutlivesClientHangup(t *testing.T) {
	m := &fakeMonitor{view: lifecycle.View{Status: lifecycle.Ready}}
	h := New(Deps{Monitor: m, Views: m})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/api/restart", nil).WithContext(ctx)
	cancel()

	h.ServeHTTP(httptest.NewRecorder(), req)

	if m.lastCtx == nil {
		t.Fatalf("restart not called")
	}
	if err := m.lastCtx.Err(); err != nil {
		t.Fatalf("action context cancelled with the request: %v", err)
	}
}
