// Package loader injects the document component SDK script into the page
// at most once, no matter how many callers ask for it concurrently.
package loader

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/pkg/constants"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/host"
	"github.com/agentstation/larkdocs/pkg/logging"
)

// State is the loader's progress.
type State int

const (
	Unloaded State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	}
	return "unloaded"
}

// attempt is one in-flight script load shared by every waiter.
type attempt struct {
	done chan struct{}
	err  error
}

// Loader owns the load state for one environment. Share a single Loader
// between every component on a page.
type Loader struct {
	env    host.Environment
	url    string
	logger *zerolog.Logger

	mu      sync.Mutex
	state   State
	pending *attempt
}

// Option configures a Loader.
type Option func(*Loader)

// WithURL overrides the SDK script location.
func WithURL(url string) Option {
	return func(l *Loader) {
		l.url = url
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(logger *zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader for env.
func New(env host.Environment, opts ...Option) *Loader {
	l := &Loader{
		env:    env,
		url:    constants.SDKURL,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Environment returns the environment the loader injects into.
func (l *Loader) Environment() host.Environment {
	return l.env
}

// URL returns the script location the loader injects.
func (l *Loader) URL() string {
	return l.url
}

// State returns the current load state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// IsLoaded reports whether a load succeeded and the entry point is still
// present on the page.
func (l *Loader) IsLoaded() bool {
	l.mu.Lock()
	loaded := l.state == Loaded
	l.mu.Unlock()
	if !loaded {
		return false
	}
	_, ok := l.env.Provider()
	return ok
}

// Load makes sure the SDK is present. Concurrent callers share a single
// attempt and all observe its outcome. A failed attempt is forgotten, so
// the next call tries again.
//
// ctx bounds only this caller's wait: the attempt keeps running and its
// outcome is still recorded.
func (l *Loader) Load(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case Loaded:
		l.mu.Unlock()
		return nil
	case Loading:
		a := l.pending
		l.mu.Unlock()
		return wait(ctx, a)
	}

	doc, err := l.env.Document()
	if err != nil {
		l.mu.Unlock()
		if !errors.IsEnvironment(err) {
			err = errors.NewEnvironmentError("document", err.Error())
		}
		return err
	}

	if _, ok := l.env.Provider(); ok {
		l.state = Loaded
		l.mu.Unlock()
		l.logger.Debug().Str("url", l.url).Msg("SDK already present, skipping injection")
		return nil
	}

	a := &attempt{done: make(chan struct{})}
	l.state = Loading
	l.pending = a
	l.mu.Unlock()

	l.logger.Debug().Str("url", l.url).Msg("Injecting SDK script")
	go l.finish(a, doc.AppendScript(l.url))

	return wait(ctx, a)
}

func (l *Loader) finish(a *attempt, result <-chan error) {
	err := <-result
	if err != nil {
		err = errors.NewLoadError(l.url, "script failed to load", err)
	} else if _, ok := l.env.Provider(); !ok {
		err = errors.NewLoadError(l.url, "entry point "+constants.SDKGlobal+" missing after load", nil)
	}

	next := Loaded
	if err != nil {
		next = Unloaded
		l.logger.Warn().Err(err).Msg("SDK load failed")
	} else {
		l.logger.Debug().Str("url", l.url).Msg("SDK loaded")
	}

	l.mu.Lock()
	l.state = next
	l.pending = nil
	a.err = err
	close(a.done)
	l.mu.Unlock()
}

func wait(ctx context.Context, a *attempt) error {
	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
