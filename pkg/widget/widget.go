// Package widget describes the boundary of the embedded document widget:
// the eight-operation instance contract, the options handed to the
// provider factory, and the response envelope the widget answers with.
package widget

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/agentstation/larkdocs/pkg/feature"
)

// Instance is a live widget handle as produced by the provider factory.
type Instance interface {
	// Start mounts the widget and resolves once it is ready.
	Start(ctx context.Context) error
	Destroy()
	Invoke(ctx context.Context, event string, args ...any) (Response, error)
	Register(event string, l *Listener)
	Unregister(event string, l *Listener)
	SetFeatureConfig(cfg *feature.Config)
	Replace(src string)
	Refresh()
}

// Factory constructs an instance from options. It is the Go face of the
// provider's global entry point.
type Factory func(opts Options) (Instance, error)

// Theme is the widget color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Options is what the provider factory receives. Auth and Feature are
// passed through without inspection.
type Options struct {
	Src     string          `json:"src"`
	Mount   any             `json:"-"`
	Feature *feature.Config `json:"config,omitempty"`
	Theme   Theme           `json:"theme,omitempty"`
	Size    *Size           `json:"size,omitempty"`
	Auth    *AuthConfig     `json:"auth,omitempty"`

	OnError        func(code, msg string) `json:"-"`
	OnAuthError    func(err any)          `json:"-"`
	OnMountSuccess func()                 `json:"-"`
	OnMountTimeout func()                 `json:"-"`
}

// AuthConfig is the signed bundle that activates the widget for a
// third-party page.
type AuthConfig struct {
	OpenID    string   `json:"openId,omitempty" yaml:"openId,omitempty"`
	Signature string   `json:"signature" yaml:"signature"`
	AppID     string   `json:"appId" yaml:"appId"`
	Timestamp int64    `json:"timestamp" yaml:"timestamp"`
	NonceStr  string   `json:"nonceStr" yaml:"nonceStr"`
	URL       string   `json:"url" yaml:"url"`
	JSAPIList []string `json:"jsApiList" yaml:"jsApiList"`
}

// Size holds the widget dimensions. A zero Length is omitted.
type Size struct {
	Width     Length `json:"width,omitzero"`
	Height    Length `json:"height,omitzero"`
	MinHeight Length `json:"minHeight,omitzero"`
}

// Length is a CSS length or a pixel count.
type Length struct {
	css    string
	pixels float64
	isPx   bool
}

// Pixels returns a numeric length.
func Pixels(n float64) Length { return Length{pixels: n, isPx: true} }

// CSS returns a length given as a CSS value such as "100%" or "60vh".
func CSS(v string) Length { return Length{css: v} }

// IsZero reports whether the length was never set.
func (l Length) IsZero() bool { return !l.isPx && l.css == "" }

// Value returns the length as the widget expects it: float64, string or nil.
func (l Length) Value() any {
	switch {
	case l.isPx:
		return l.pixels
	case l.css != "":
		return l.css
	}
	return nil
}

func (l Length) String() string {
	if l.isPx {
		return strconv.FormatFloat(l.pixels, 'f', -1, 64) + "px"
	}
	return l.css
}

// MarshalJSON encodes the length as a JSON number or string.
func (l Length) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Value())
}

// UnmarshalJSON accepts a JSON number or string.
func (l *Length) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*l = Pixels(t)
	case string:
		*l = CSS(t)
	default:
		*l = Length{}
	}
	return nil
}
