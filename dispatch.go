package larkdocs

import (
	"context"
	"fmt"

	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/events"
	"github.com/agentstation/larkdocs/pkg/feature"
	"github.com/agentstation/larkdocs/pkg/widget"
)

// Handler is a notification callback with a stable identity. Register the
// same *Handler to Unregister it later.
type Handler struct {
	fn func(events.Payload)
}

// NewHandler wraps fn.
func NewHandler(fn func(events.Payload)) *Handler {
	return &Handler{fn: fn}
}

type subscription struct {
	handler  *Handler
	listener *widget.Listener
}

// TypedResponse is a Response whose data was decoded into T.
type TypedResponse[T any] struct {
	Code int
	Msg  string
	Data T
}

// OK reports whether the provider answered with the success code.
func (r TypedResponse[T]) OK() bool {
	return r.Code == widget.CodeSuccess
}

// Invoke calls a widget capability and returns its response envelope as is.
// Provider error codes are not errors: check Response.OK. Arguments of
// catalogued capabilities are checked before anything is forwarded.
func (c *Component) Invoke(ctx context.Context, event events.Event, args ...any) (widget.Response, error) {
	inst, err := c.active("invoke")
	if err != nil {
		return widget.Response{}, err
	}

	spec := events.Lookup(event)
	if spec.Kind == events.Notification {
		return widget.Response{}, &errors.EventKindError{Event: string(event), Operation: "invoke", Kind: spec.Kind.String()}
	}
	if err := spec.ValidateArgs(args); err != nil {
		return widget.Response{}, err
	}

	resp, err := inst.Invoke(ctx, string(event), args...)
	if err != nil {
		return resp, fmt.Errorf("invoking %s: %w", event, err)
	}
	if !resp.OK() {
		c.logger.Debug().
			Str("event", string(event)).
			Int("code", resp.Code).
			Str("msg", resp.Msg).
			Msg("Capability answered with provider error")
	}
	return resp, nil
}

// InvokeAs calls Invoke and decodes the response data into T. Data is only
// decoded for a successful response; otherwise Data is the zero value.
func InvokeAs[T any](ctx context.Context, c *Component, event events.Event, args ...any) (TypedResponse[T], error) {
	resp, err := c.Invoke(ctx, event, args...)
	out := TypedResponse[T]{Code: resp.Code, Msg: resp.Msg}
	if err != nil || !resp.OK() {
		return out, err
	}

	data, err := events.Lookup(event).DecodeData(resp.Data)
	if err != nil {
		return out, err
	}
	out.Data, err = events.As[T](data)
	return out, err
}

// Register subscribes h to a notification. Registering the same handler
// twice delivers twice.
func (c *Component) Register(event events.Event, h *Handler) error {
	if h == nil || h.fn == nil {
		return errors.NewValidationError("handler", nil, "must not be nil")
	}
	c.mu.Lock()
	if !c.started || c.instance == nil {
		c.mu.Unlock()
		return errors.NewNotStartedError("register")
	}
	spec := events.Lookup(event)
	if spec.Kind == events.Capability {
		c.mu.Unlock()
		return &errors.EventKindError{Event: string(event), Operation: "register", Kind: spec.Kind.String()}
	}
	inst := c.instance
	listener := widget.NewListener(func(raw any) {
		c.deliver(event, h, raw)
	})
	c.subs[event] = append(c.subs[event], subscription{handler: h, listener: listener})
	c.mu.Unlock()

	inst.Register(string(event), listener)
	return nil
}

// Unregister removes every registration of h for event.
func (c *Component) Unregister(event events.Event, h *Handler) error {
	c.mu.Lock()
	if !c.started || c.instance == nil {
		c.mu.Unlock()
		return errors.NewNotStartedError("unregister")
	}
	spec := events.Lookup(event)
	if spec.Kind == events.Capability {
		c.mu.Unlock()
		return &errors.EventKindError{Event: string(event), Operation: "unregister", Kind: spec.Kind.String()}
	}
	inst := c.instance
	var removed []*widget.Listener
	kept := c.subs[event][:0]
	for _, s := range c.subs[event] {
		if s.handler == h {
			removed = append(removed, s.listener)
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		delete(c.subs, event)
	} else {
		c.subs[event] = kept
	}
	c.mu.Unlock()

	for _, l := range removed {
		inst.Unregister(string(event), l)
	}
	return nil
}

// Subscriptions returns how many handlers are registered for event.
func (c *Component) Subscriptions(event events.Event) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs[event])
}

func (c *Component) deliver(event events.Event, h *Handler, raw any) {
	p := events.NewPayload(event, raw)
	if p.Err != nil {
		c.logger.Warn().Err(p.Err).Str("event", string(event)).Msg("Delivering undecodable payload raw")
	}
	h.fn(p)
}

// SetFeatureConfig replaces the feature configuration of the live widget.
func (c *Component) SetFeatureConfig(cfg *feature.Config) error {
	inst, err := c.active("setFeatureConfig")
	if err != nil {
		return err
	}
	inst.SetFeatureConfig(cfg)
	return nil
}

// Replace switches the widget to another document.
func (c *Component) Replace(src string) error {
	inst, err := c.active("replace")
	if err != nil {
		return err
	}
	inst.Replace(src)
	return nil
}

// Refresh reloads the current document.
func (c *Component) Refresh() error {
	inst, err := c.active("refresh")
	if err != nil {
		return err
	}
	inst.Refresh()
	return nil
}
