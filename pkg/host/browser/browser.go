//go:build js && wasm

// Package browser implements host.Environment on top of syscall/js.
//
// Calls that await a JavaScript promise (instance Start and Invoke) block
// the calling goroutine and must not be made from inside a JS callback,
// since the event loop cannot resolve the promise while that callback is
// still running.
package browser

import (
	"fmt"
	"syscall/js"

	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/pkg/constants"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/host"
	"github.com/agentstation/larkdocs/pkg/logging"
	"github.com/agentstation/larkdocs/pkg/widget"
)

// Environment is the page the wasm module runs in.
type Environment struct {
	global js.Value
	entry  string
	logger *zerolog.Logger
}

// Option configures an Environment.
type Option func(*Environment)

// WithLogger sets the logger used by the environment and its instances.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// New returns the environment backed by the JS global object.
func New(opts ...Option) *Environment {
	e := &Environment{global: js.Global(), entry: constants.SDKGlobal}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Default()
	}
	return e
}

// Document returns the page document.
func (e *Environment) Document() (host.Document, error) {
	doc := e.global.Get("document")
	if !present(doc) {
		return nil, errors.NewEnvironmentError("document", "global document is undefined")
	}
	return &document{v: doc}, nil
}

// Provider looks up the SDK constructor on the global object.
func (e *Environment) Provider() (widget.Factory, bool) {
	ctor := e.global.Get(e.entry)
	if ctor.Type() != js.TypeFunction {
		return nil, false
	}
	return func(opts widget.Options) (widget.Instance, error) {
		return newInstance(ctor, opts, e.logger)
	}, true
}

type document struct {
	v js.Value
}

func (d *document) AppendScript(src string) <-chan error {
	done := make(chan error, 1)

	script := d.v.Call("createElement", "script")
	script.Set("src", src)
	script.Set("async", true)

	var onLoad, onError js.Func
	release := func() {
		script.Set("onload", js.Null())
		script.Set("onerror", js.Null())
		onLoad.Release()
		onError.Release()
	}
	onLoad = js.FuncOf(func(js.Value, []js.Value) any {
		release()
		done <- nil
		return nil
	})
	onError = js.FuncOf(func(js.Value, []js.Value) any {
		release()
		done <- fmt.Errorf("script element reported an error")
		return nil
	})
	script.Set("onload", onLoad)
	script.Set("onerror", onError)

	parent := d.v.Get("head")
	if !present(parent) {
		parent = d.v.Get("documentElement")
	}
	parent.Call("appendChild", script)
	return done
}

func present(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}
