package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/utc"

	"github.com/agentstation/larkdocs/internal/ticket"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/logging"
	"github.com/agentstation/larkdocs/pkg/signature"
)

type staticTickets struct{ value string }

func (s staticTickets) JSAPITicket(context.Context) (ticket.Ticket, error) {
	return ticket.Ticket{Value: s.value, ExpiresAt: utc.Time{Time: time.Now().Add(time.Hour)}}, nil
}

func newTestApp(t *testing.T, cfg *Config, opts ...Option) *App {
	t.Helper()
	opts = append([]Option{WithConfig(cfg), WithLogger(logging.NewNopLogger())}, opts...)
	a, err := New("1.2.3", "abc123", "2025-01-01", "test", opts...)
	require.NoError(t, err)
	return a
}

// run executes the root command and returns its stdout.
func run(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := a.createRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAppAccessors(t *testing.T) {
	cfg := &Config{AppID: "cli_1", JSAPIList: []string{"DocsComponent"}, Server: ServerConfig{Host: "h", Port: 1}}
	a := newTestApp(t, cfg)

	assert.Equal(t, "1.2.3", a.Version())
	assert.Equal(t, "abc123", a.Commit())
	assert.Equal(t, "2025-01-01", a.Date())
	assert.Equal(t, "test", a.BuiltBy())
	assert.Equal(t, "cli_1", a.AppID())
	assert.Equal(t, []string{"DocsComponent"}, a.JSAPIList())
	assert.Equal(t, "h:1", a.ServerConfig().Addr())
	assert.Same(t, cfg, a.Config())
}

func TestAppTickets(t *testing.T) {
	a := newTestApp(t, &Config{AppID: "cli_1"})
	_, err := a.Tickets()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "LARK_APP_SECRET")

	a = newTestApp(t, &Config{AppID: "cli_1", AppSecret: "s", BaseURL: "http://127.0.0.1:1"})
	src, err := a.Tickets()
	require.NoError(t, err)
	client, ok := src.(*ticket.Client)
	require.True(t, ok)
	assert.Equal(t, "cli_1", client.AppID())

	again, err := a.Tickets()
	require.NoError(t, err)
	assert.Same(t, client, again)
	require.NoError(t, a.Shutdown(context.Background()))
}

func TestVersionCommand(t *testing.T) {
	a := newTestApp(t, &Config{})

	out, err := run(t, a, "version")
	require.NoError(t, err)
	assert.Equal(t, "larkdocs 1.2.3\n", out)

	out, err = run(t, a, "version", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "commit:   abc123")
}

func TestSignCommandThroughRoot(t *testing.T) {
	a := newTestApp(t, &Config{})

	out, err := run(t, a, "sign", "t1", "https://example.com/page#top",
		"--nonce", "abc", "--timestamp", "1700000000000", "-o", "json")
	require.NoError(t, err)

	var res struct {
		URL       string `json:"url"`
		Signature string `json:"signature"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "https://example.com/page", res.URL)

	want, err := signature.Hash("jsapi_ticket=t1&noncestr=abc&timestamp=1700000000000&url=https://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, want, res.Signature)
}

func TestAuthCommandThroughRoot(t *testing.T) {
	a := newTestApp(t, &Config{AppID: "cli_1", JSAPIList: []string{"DocsComponent", "Comment"}},
		WithTickets(staticTickets{value: "jt"}))

	out, err := run(t, a, "auth", "https://example.com/doc", "-o", "json")
	require.NoError(t, err)

	var auth map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &auth))
	assert.Equal(t, "cli_1", auth["appId"])
	assert.Equal(t, []any{"DocsComponent", "Comment"}, auth["jsApiList"])
}

func TestUnknownFormatFails(t *testing.T) {
	a := newTestApp(t, &Config{})
	_, err := run(t, a, "normalize", "https://example.com", "-o", "xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestConfigFlagReloadsConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "alt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_id: cli_alt\n"), 0o600))

	a := newTestApp(t, &Config{AppID: "cli_1"})
	_, err := run(t, a, "--config", path, "version")
	require.NoError(t, err)
	assert.Equal(t, "cli_alt", a.AppID())

	_, err = run(t, a, "--config", filepath.Join(dir, "missing.yaml"), "version")
	assert.Error(t, err)
}
