// Package larkdocs embeds the Lark Docs document component into a page and
// controls its lifecycle.
//
// A Component is created with New, mounted with Start and torn down with
// Destroy. Between a successful Start and the next Destroy it forwards
// typed calls to the widget; outside that window every forwarding call
// fails with a NotStartedError and touches nothing.
//
//	c, err := larkdocs.New(docURL, mountElement, larkdocs.WithAuth(auth))
//	if err != nil { ... }
//	if err := c.Start(ctx); err != nil { ... }
//	defer c.Destroy()
//
//	title, err := larkdocs.InvokeAs[string](ctx, c, events.GetSuiteTitle)
package larkdocs

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/pkg/constants"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/events"
	"github.com/agentstation/larkdocs/pkg/host"
	"github.com/agentstation/larkdocs/pkg/loader"
	"github.com/agentstation/larkdocs/pkg/logging"
	"github.com/agentstation/larkdocs/pkg/widget"
)

// sharedLoader serves every component built without WithEnvironment or
// WithLoader, so a page injects the SDK once.
var sharedLoader = sync.OnceValue(func() *loader.Loader {
	return loader.New(defaultEnvironment())
})

// Component owns one embedded widget instance.
type Component struct {
	cfg    *config
	loader *loader.Loader
	logger *zerolog.Logger

	// startSem serializes Start; a buffered channel so waiters honor ctx
	startSem chan struct{}

	mu       sync.Mutex
	started  bool
	instance widget.Instance
	subs     map[events.Event][]subscription
}

// New captures the options for a component showing src inside mount.
// Nothing is loaded until Start.
func New(src string, mount host.Element, opts ...Option) (*Component, error) {
	if src == "" {
		return nil, errors.NewValidationError("src", src, "document URL is required")
	}
	if mount == nil {
		return nil, errors.NewValidationError("mount", nil, "mount element is required")
	}

	cfg := &config{
		src:   src,
		mount: mount,
		hooks: newHooks(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}

	if cfg.logger == nil {
		cfg.logger = logging.Default()
	}
	l := cfg.loader
	switch {
	case l != nil:
	case cfg.env != nil:
		l = loader.New(cfg.env, loader.WithLogger(cfg.logger))
	default:
		l = sharedLoader()
	}

	logger := cfg.logger.With().Str("component", "larkdocs").Logger()
	return &Component{
		cfg:      cfg,
		loader:   l,
		logger:   &logger,
		startSem: make(chan struct{}, 1),
	}, nil
}

// Src returns the document URL the component was created with.
func (c *Component) Src() string {
	return c.cfg.src
}

// Started reports whether the component is between a successful Start and
// the next Destroy.
func (c *Component) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Start loads the SDK if needed, creates the widget instance and starts it.
// Calling Start on a started component logs a warning and returns nil. A
// concurrent Start waits for the one in progress. On failure the component
// stays idle and Start may be called again.
func (c *Component) Start(ctx context.Context) error {
	select {
	case c.startSem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-c.startSem }()

	if c.Started() {
		c.logger.Warn().Str("src", c.cfg.src).Msg("Component already started")
		return nil
	}

	if err := c.loader.Load(ctx); err != nil {
		return err
	}
	if !c.loader.IsLoaded() {
		return &errors.SDKUnavailableError{Entry: constants.SDKGlobal}
	}
	factory, ok := c.loader.Environment().Provider()
	if !ok {
		return &errors.SDKUnavailableError{Entry: constants.SDKGlobal}
	}

	inst, err := factory(c.widgetOptions())
	if err != nil {
		return fmt.Errorf("creating component instance: %w", err)
	}
	if inst == nil {
		return &errors.SDKUnavailableError{Entry: constants.SDKGlobal}
	}
	if err := inst.Start(ctx); err != nil {
		return fmt.Errorf("starting component instance: %w", err)
	}

	c.mu.Lock()
	c.instance = inst
	c.started = true
	c.subs = make(map[events.Event][]subscription)
	c.mu.Unlock()

	c.logger.Debug().Str("src", c.cfg.src).Msg("Component started")
	return nil
}

// Destroy tears the widget down. It is a no-op on a component that is not
// started. The component forgets its instance and subscriptions even if
// the widget's own teardown panics, and may be started again.
func (c *Component) Destroy() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	inst := c.instance
	c.instance = nil
	c.started = false
	c.subs = nil
	c.mu.Unlock()

	c.teardown(inst)
	c.logger.Debug().Str("src", c.cfg.src).Msg("Component destroyed")
}

func (c *Component) teardown(inst widget.Instance) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Interface("panic", r).Msg("Component instance panicked during destroy")
		}
	}()
	inst.Destroy()
}

// UnsafeInstance returns the raw widget handle, or nil when not started.
// Calls made through it bypass every check the Component performs.
func (c *Component) UnsafeInstance() widget.Instance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instance
}

// active returns the live instance or a NotStartedError for op.
func (c *Component) active(op string) (widget.Instance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started || c.instance == nil {
		return nil, errors.NewNotStartedError(op)
	}
	return c.instance, nil
}

func (c *Component) widgetOptions() widget.Options {
	h := c.cfg.hooks
	return widget.Options{
		Src:            c.cfg.src,
		Mount:          c.cfg.mount,
		Feature:        c.cfg.feature,
		Theme:          c.cfg.theme,
		Size:           c.cfg.size,
		Auth:           c.cfg.auth,
		OnError:        h.triggerError,
		OnAuthError:    h.triggerAuthError,
		OnMountSuccess: h.triggerMountSuccess,
		OnMountTimeout: h.triggerMountTimeout,
	}
}
