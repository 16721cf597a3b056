package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/utc"

	"github.com/agentstation/larkdocs/internal/server/events"
	"github.com/agentstation/larkdocs/internal/server/response"
	"github.com/agentstation/larkdocs/internal/ticket"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/logging"
	"github.com/agentstation/larkdocs/pkg/signature"
	"github.com/agentstation/larkdocs/pkg/widget"
)

type fakeTickets struct {
	mu     sync.Mutex
	ticket ticket.Ticket
	err    error
	calls  int
}

func newFakeTickets(value string, expires time.Time) *fakeTickets {
	return &fakeTickets{ticket: ticket.Ticket{Value: value, ExpiresAt: utc.Time{Time: expires}}}
}

func (f *fakeTickets) JSAPITicket(context.Context) (ticket.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.ticket, f.err
}

func (f *fakeTickets) set(t ticket.Ticket, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticket, f.err = t, err
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *response.Error `json:"error"`
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AppID = "cli_1"
	cfg.RateLimit = 0
	cfg.RefreshInterval = 0
	return cfg
}

func newTestServer(t *testing.T, cfg Config, tickets ticket.Source) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(cfg, tickets, logging.NewNopLogger())
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func post(t *testing.T, ts *httptest.Server, path, body string, headers ...string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func get(t *testing.T, ts *httptest.Server, path string) (int, envelope) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.AuthEnabled = true
	_, err := New(cfg, nil, logging.NewNopLogger())
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	cfg = testConfig()
	cfg.AppID = ""
	_, err = New(cfg, newFakeTickets("t", time.Now()), logging.NewNopLogger())
	var cfgErr *errors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Message, "app id")
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, testConfig(), nil)

	status, env := get(t, ts, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, env.Error)
	assert.JSONEq(t, `{"status":"healthy","service":"larkdocs","version":"v1"}`, string(env.Data))

	status, env = get(t, ts, "/nowhere")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestReady(t *testing.T) {
	_, ts := newTestServer(t, testConfig(), nil)
	status, _ := get(t, ts, "/api/v1/ready")
	assert.Equal(t, http.StatusServiceUnavailable, status)

	tickets := newFakeTickets("jt-1", time.Now().Add(time.Hour))
	_, ts = newTestServer(t, testConfig(), tickets)
	status, env := get(t, ts, "/api/v1/ready")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"app_id":"cli_1"`)

	tickets.set(ticket.Ticket{}, &errors.APIError{Provider: "lark", StatusCode: 503})
	status, _ = get(t, ts, "/api/v1/ready")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestAuthEndpoint(t *testing.T) {
	tickets := newFakeTickets("jt-1", time.Now().Add(time.Hour))
	_, ts := newTestServer(t, testConfig(), tickets)

	status, env := post(t, ts, "/api/v1/auth", `{"url":"HTTPS://Example.com:443/doc?x=1#frag","open_id":"ou_1"}`)
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, env.Error)

	var auth widget.AuthConfig
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	assert.Equal(t, "cli_1", auth.AppID)
	assert.Equal(t, "ou_1", auth.OpenID)
	assert.Equal(t, "https://example.com/doc?x=1", auth.URL)
	assert.Equal(t, []string{"DocsComponent"}, auth.JSAPIList)
	assert.Len(t, auth.NonceStr, 16)

	ok, err := signature.Verify("jt-1", auth.URL, signature.Result{
		Signature: auth.Signature,
		Nonce:     auth.NonceStr,
		Timestamp: auth.Timestamp,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	// wire names are the ones the widget expects
	assert.Contains(t, string(env.Data), `"nonceStr"`)
	assert.Contains(t, string(env.Data), `"jsApiList"`)
}

func TestAuthEndpointJSAPIList(t *testing.T) {
	cfg := testConfig()
	cfg.JSAPIList = []string{"DocsComponent", "Comment"}
	_, ts := newTestServer(t, cfg, newFakeTickets("jt-1", time.Now().Add(time.Hour)))

	var auth widget.AuthConfig

	_, env := post(t, ts, "/api/v1/auth", `{"url":"https://example.com/"}`)
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	assert.Equal(t, []string{"DocsComponent", "Comment"}, auth.JSAPIList)

	_, env = post(t, ts, "/api/v1/auth", `{"url":"https://example.com/","js_api_list":["Other"]}`)
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	assert.Equal(t, []string{"Other"}, auth.JSAPIList)
}

func TestAuthEndpointErrors(t *testing.T) {
	tickets := newFakeTickets("jt-1", time.Now().Add(time.Hour))
	_, ts := newTestServer(t, testConfig(), tickets)

	tests := []struct {
		name       string
		body       string
		ticketErr  error
		wantStatus int
		wantCode   string
	}{
		{"missing url", `{}`, nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown field", `{"url":"https://example.com","extra":1}`, nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"malformed", `{"url":`, nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"rate limited upstream", `{"url":"https://example.com"}`, &errors.APIError{Provider: "lark", StatusCode: 429}, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"rejected upstream", `{"url":"https://example.com"}`, &errors.APIError{Provider: "lark", StatusCode: 200, Code: 99991663}, http.StatusBadGateway, "UPSTREAM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickets.set(ticket.Ticket{Value: "jt-1", ExpiresAt: utc.Time{Time: time.Now().Add(time.Hour)}}, tt.ticketErr)
			status, env := post(t, ts, "/api/v1/auth", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}

	status, env := get(t, ts, "/api/v1/auth")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "METHOD_NOT_ALLOWED", env.Error.Code)
}

func TestAuthEndpointWithoutTickets(t *testing.T) {
	_, ts := newTestServer(t, testConfig(), nil)

	status, env := post(t, ts, "/api/v1/auth", `{"url":"https://example.com"}`)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "SERVICE_UNAVAILABLE", env.Error.Code)
}

func TestSignatureAndVerify(t *testing.T) {
	_, ts := newTestServer(t, testConfig(), nil)

	status, env := post(t, ts, "/api/v1/signature", `{"ticket":"t1","url":"https://example.com/page?foo=bar#section"}`)
	require.Equal(t, http.StatusOK, status)

	var signed struct {
		Signature string `json:"signature"`
		Nonce     string `json:"nonce"`
		Timestamp int64  `json:"timestamp"`
		URL       string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &signed))
	assert.Equal(t, "https://example.com/page?foo=bar", signed.URL)
	assert.Len(t, signed.Signature, 40)

	body, err := json.Marshal(map[string]any{
		"ticket":    "t1",
		"url":       "https://example.com/page?foo=bar",
		"signature": signed.Signature,
		"nonce":     signed.Nonce,
		"timestamp": signed.Timestamp,
	})
	require.NoError(t, err)
	status, env = post(t, ts, "/api/v1/verify", string(body))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"valid":true}`, string(env.Data))

	body, _ = json.Marshal(map[string]any{
		"ticket":    "other",
		"url":       "https://example.com/page?foo=bar",
		"signature": signed.Signature,
		"nonce":     signed.Nonce,
		"timestamp": signed.Timestamp,
	})
	_, env = post(t, ts, "/api/v1/verify", string(body))
	assert.JSONEq(t, `{"valid":false}`, string(env.Data))

	status, env = post(t, ts, "/api/v1/signature", `{"url":"https://example.com"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error.Message, "ticket")
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := testConfig()
	cfg.AuthEnabled = true
	cfg.APIKey = "k-1"
	_, ts := newTestServer(t, cfg, nil)

	status, _ := get(t, ts, "/health")
	assert.Equal(t, http.StatusOK, status)

	status, env := post(t, ts, "/api/v1/signature", `{"ticket":"t","url":"https://example.com"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, _ = post(t, ts, "/api/v1/signature", `{"ticket":"t","url":"https://example.com"}`, "X-API-Key", "k-1")
	assert.Equal(t, http.StatusOK, status)
}

func TestEventStream(t *testing.T) {
	start := time.Now().Add(time.Hour)
	tickets := newFakeTickets("jt-1", start)
	srv, ts := newTestServer(t, testConfig(), tickets)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/events/stream", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	readFrame := func() map[string]string {
		frame := map[string]string{}
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimSuffix(line, "\n")
			if line == "" {
				return frame
			}
			k, v, _ := strings.Cut(line, ": ")
			frame[k] = v
		}
	}
	require.Equal(t, "connected", readFrame()["event"])
	require.Eventually(t, func() bool { return srv.sseBroadcaster.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	// first observation only records the ticket
	srv.refreshOnce(ctx)

	status, _ := post(t, ts, "/api/v1/auth", `{"url":"https://example.com/doc"}`)
	require.Equal(t, http.StatusOK, status)
	frame := readFrame()
	assert.Equal(t, string(events.AuthIssued), frame["event"])
	assert.Contains(t, frame["data"], `"url":"https://example.com/doc"`)

	tickets.set(ticket.Ticket{Value: "jt-2", ExpiresAt: utc.Time{Time: start.Add(2 * time.Hour)}}, nil)
	srv.refreshOnce(ctx)
	frame = readFrame()
	assert.Equal(t, string(events.TicketRotated), frame["event"])
	assert.Contains(t, frame["data"], `"app_id":"cli_1"`)
	assert.NotContains(t, frame["data"], "jt-2")

	tickets.set(ticket.Ticket{}, &errors.APIError{Provider: "lark", StatusCode: 503, Message: "down"})
	srv.refreshOnce(ctx)
	frame = readFrame()
	assert.Equal(t, string(events.TicketRefreshFailed), frame["event"])
}

func TestServeGracefulShutdown(t *testing.T) {
	srv, err := New(testConfig(), nil, logging.NewNopLogger())
	require.NoError(t, err)
	srv.Start()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestCORSOriginPatterns(t *testing.T) {
	cfg := testConfig()
	cfg.CORSEnabled = true
	cfg.CORSOrigins = []string{"re:("}
	_, err := New(cfg, nil, logging.NewNopLogger())
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	cfg.CORSOrigins = []string{"https://*.example.com"}
	_, ts := newTestServer(t, cfg, nil)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://docs.example.com")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "https://docs.example.com", resp.Header.Get("Access-Control-Allow-Origin"))

	// websocket upgrades from unlisted origins are refused
	req, err = http.NewRequest(http.MethodGet, ts.URL+"/api/v1/events/ws", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.test")
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
