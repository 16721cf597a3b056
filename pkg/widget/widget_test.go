package widget

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/larkdocs/pkg/feature"
)

func TestResponse(t *testing.T) {
	ok := Response{Code: CodeSuccess, Data: "title"}
	assert.True(t, ok.OK())
	assert.Equal(t, "0 (success)", ok.String())

	denied := Response{Code: CodeNoPermission, Msg: "denied"}
	assert.False(t, denied.OK())
	assert.Equal(t, "4 (no permission): denied", denied.String())

	assert.Equal(t, "code 77", CodeText(77))
}

func TestOptionsJSON(t *testing.T) {
	opts := Options{
		Src:     "https://example.feishu.cn/docx/abc",
		Mount:   struct{}{},
		Feature: &feature.Config{Extensions: &feature.Extensions{Footer: &feature.Enable{Enable: feature.Bool(false)}}},
		Theme:   ThemeDark,
		Size:    &Size{Width: CSS("100%"), Height: Pixels(600)},
		Auth: &AuthConfig{
			Signature: "sig",
			AppID:     "cli_a",
			Timestamp: 1700000000000,
			NonceStr:  "n",
			URL:       "https://host.example/",
			JSAPIList: []string{"DocsComponent"},
		},
		OnMountSuccess: func() {},
	}

	data, err := json.Marshal(opts)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "dark", got["theme"])
	assert.Equal(t, map[string]any{"width": "100%", "height": float64(600)}, got["size"])
	assert.Equal(t, map[string]any{"extensions": map[string]any{"footer": map[string]any{"enable": false}}}, got["config"])

	auth := got["auth"].(map[string]any)
	assert.NotContains(t, auth, "openId")
	assert.Equal(t, "cli_a", auth["appId"])
	assert.Equal(t, float64(1700000000000), auth["timestamp"])
}

func TestLength(t *testing.T) {
	var s Size
	require.NoError(t, json.Unmarshal([]byte(`{"width":320,"minHeight":"50vh"}`), &s))
	assert.Equal(t, Pixels(320), s.Width)
	assert.True(t, s.Height.IsZero())
	assert.Equal(t, "50vh", s.MinHeight.String())
	assert.Equal(t, "320px", s.Width.String())
	assert.Nil(t, Length{}.Value())
}

func TestListener(t *testing.T) {
	var got []any
	l := NewListener(func(p any) { got = append(got, p) })
	l.Notify(1)
	l.Notify("two")
	assert.Equal(t, []any{1, "two"}, got)

	var nilListener *Listener
	assert.NotPanics(t, func() { nilListener.Notify(3) })
}
