package camedomotic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeGateway simulates the /domo/ endpoint: it answers the GET probe,
// tracks logins, records every decoded command payload, and dispatches
// data requests to per-command handlers.
type fakeGateway struct {
	t   *testing.T
	srv *httptest.Server

	mu         sync.Mutex
	loginCount int
	commands   []map[string]any

	clientID     string
	keepAliveSec int
	loginAck     int
	// validLogins, when non-nil, restricts which username/password pairs
	// are accepted; everything else is rejected with ack code 1.
	validLogins map[string]string
	// onDataRequest answers sl_data_req payloads by cmd_name. A nil entry
	// falls back to a bare ack-0 response.
	onDataRequest map[string]func(msg map[string]any) any
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	g := &fakeGateway{
		t:             t,
		clientID:      "my_session_id",
		keepAliveSec:  900,
		onDataRequest: make(map[string]func(msg map[string]any) any),
	}
	g.srv = httptest.NewServer(http.HandlerFunc(g.handle))
	t.Cleanup(g.srv.Close)
	return g
}

// host returns the address the client should be constructed with.
func (g *fakeGateway) host() string {
	return strings.TrimPrefix(g.srv.URL, "http://")
}

func (g *fakeGateway) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		w.WriteHeader(http.StatusOK)
		return
	}

	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		g.t.Errorf("Content-Type = %q, want form-urlencoded", ct)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.FormValue("command")), &payload); err != nil {
		g.t.Errorf("command field is not valid JSON: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	g.commands = append(g.commands, payload)
	g.mu.Unlock()

	switch payload["sl_cmd"] {
	case "sl_registration_req":
		g.handleLogin(w, payload)
	case "sl_keep_alive_req":
		writeJSON(w, map[string]any{
			"sl_cmd":             "sl_keep_alive_ack",
			"sl_client_id":       g.clientID,
			"sl_data_ack_reason": 0,
		})
	case "sl_logout_req":
		writeJSON(w, map[string]any{
			"sl_cmd":             "sl_logout_ack",
			"sl_data_ack_reason": 0,
		})
	case "sl_users_list_req":
		writeJSON(w, map[string]any{
			"sl_cmd":             "sl_users_list_resp",
			"sl_client_id":       g.clientID,
			"sl_data_ack_reason": 0,
			"sl_users_list":      []map[string]any{{"name": "admin"}, {"name": "guest"}},
		})
	case "sl_data_req":
		msg, _ := payload["sl_appl_msg"].(map[string]any)
		cmdName, _ := msg["cmd_name"].(string)
		if handler, ok := g.onDataRequest[cmdName]; ok {
			writeJSON(w, handler(msg))
			return
		}
		writeJSON(w, map[string]any{"sl_data_ack_reason": 0})
	default:
		writeJSON(w, map[string]any{"sl_data_ack_reason": 6})
	}
}

func (g *fakeGateway) handleLogin(w http.ResponseWriter, payload map[string]any) {
	g.mu.Lock()
	g.loginCount++
	loginAck := g.loginAck
	g.mu.Unlock()

	if g.validLogins != nil {
		user, _ := payload["sl_login"].(string)
		pass, _ := payload["sl_pwd"].(string)
		if g.validLogins[user] != pass {
			loginAck = 1
		}
	}
	if loginAck != 0 {
		writeJSON(w, map[string]any{"sl_data_ack_reason": loginAck})
		return
	}
	writeJSON(w, map[string]any{
		"sl_cmd":                    "sl_registration_ack",
		"sl_client_id":              g.clientID,
		"sl_keep_alive_timeout_sec": g.keepAliveSec,
		"sl_data_ack_reason":        0,
	})
}

func (g *fakeGateway) logins() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loginCount
}

// lastCommand returns the most recent payload the gateway received.
func (g *fakeGateway) lastCommand() map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.commands) == 0 {
		return nil
	}
	return g.commands[len(g.commands)-1]
}

// commandsByCmd returns every recorded payload with the given sl_cmd value.
func (g *fakeGateway) commandsByCmd(slCmd string) []map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []map[string]any
	for _, cmd := range g.commands {
		if cmd["sl_cmd"] == slCmd {
			out = append(out, cmd)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// fakeClock is a settable clock for expiry tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// newTestSession creates a Session against the fake gateway with an
// injected clock.
func newTestSession(t *testing.T, g *fakeGateway) (*Session, *fakeClock) {
	t.Helper()
	s, err := NewSession(context.Background(), g.host(), "admin", "secret")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	clk := newFakeClock()
	s.now = clk.Now
	s.expiresAt = clk.Now().Add(-time.Hour)
	return s, clk
}

// newTestClient creates a Client against the fake gateway.
func newTestClient(t *testing.T, g *fakeGateway) *Client {
	t.Helper()
	s, _ := newTestSession(t, g)
	return &Client{session: s}
}
