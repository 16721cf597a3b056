// Package host abstracts the page the widget is embedded in.
//
// The browser build lives in pkg/host/browser. Other builds get
// Unsupported, which reports a missing document so that loading fails
// with an environment error instead of hanging.
package host

import (
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/widget"
)

// Element is an opaque mount target, a js.Value in the browser build.
type Element = any

// Environment is the execution context the loader and component run in.
type Environment interface {
	// Document returns the page document, or an EnvironmentError when the
	// context has none.
	Document() (Document, error)
	// Provider looks up the widget provider's global entry point.
	Provider() (widget.Factory, bool)
}

// Document is the part of the page DOM the loader touches.
type Document interface {
	// AppendScript inserts an async script tag. The channel receives nil
	// once the script has executed or the load error, then is never used
	// again.
	AppendScript(src string) <-chan error
}

// Unsupported is an Environment without a document or provider.
type Unsupported struct{}

// Document always fails.
func (Unsupported) Document() (Document, error) {
	return nil, errors.NewEnvironmentError("document", "no DOM-capable execution context")
}

// Provider always reports the entry point as absent.
func (Unsupported) Provider() (widget.Factory, bool) {
	return nil, false
}
