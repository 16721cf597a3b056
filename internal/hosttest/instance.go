package hosttest

import (
	"context"
	"sync"

	"github.com/agentstation/larkdocs/pkg/feature"
	"github.com/agentstation/larkdocs/pkg/widget"
)

// Call records one operation made on an Instance.
type Call struct {
	Op    string
	Event string
	Args  []any
}

type registration struct {
	event    string
	listener *widget.Listener
}

// Instance is a fake widget. Exported fields configure its behavior and
// should be set before the component starts it.
type Instance struct {
	Options widget.Options

	// StartErr is returned by Start.
	StartErr error
	// StartGate, when set, blocks Start until it is closed.
	StartGate chan struct{}
	// DestroyPanic, when non-nil, is raised by Destroy after recording it.
	DestroyPanic any
	// Responses maps an event name to the response Invoke returns.
	// Unmapped events answer with code 0.
	Responses map[string]widget.Response
	// InvokeErr is returned by Invoke.
	InvokeErr error

	mu        sync.Mutex
	started   bool
	destroyed bool
	calls     []Call
	regs      []registration
}

// NewInstance returns a fake built from opts.
func NewInstance(opts widget.Options) *Instance {
	return &Instance{Options: opts, Responses: map[string]widget.Response{}}
}

func (i *Instance) record(c Call) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls = append(i.calls, c)
}

// Calls returns every recorded operation, in order.
func (i *Instance) Calls() []Call {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]Call(nil), i.calls...)
}

// Ops returns the operation names of Calls.
func (i *Instance) Ops() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	ops := make([]string, len(i.calls))
	for n, c := range i.calls {
		ops[n] = c.Op
	}
	return ops
}

// Started reports whether Start succeeded.
func (i *Instance) Started() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.started
}

// Destroyed reports whether Destroy was called.
func (i *Instance) Destroyed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.destroyed
}

// Listeners returns the listeners currently registered for event.
func (i *Instance) Listeners(event string) []*widget.Listener {
	i.mu.Lock()
	defer i.mu.Unlock()
	var out []*widget.Listener
	for _, r := range i.regs {
		if r.event == event {
			out = append(out, r.listener)
		}
	}
	return out
}

// Emit delivers payload to every listener registered for event.
func (i *Instance) Emit(event string, payload any) {
	for _, l := range i.Listeners(event) {
		l.Notify(payload)
	}
}

func (i *Instance) Start(ctx context.Context) error {
	i.record(Call{Op: "start"})
	if i.StartGate != nil {
		select {
		case <-i.StartGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if i.StartErr != nil {
		return i.StartErr
	}
	i.mu.Lock()
	i.started = true
	i.mu.Unlock()
	return nil
}

func (i *Instance) Destroy() {
	i.record(Call{Op: "destroy"})
	i.mu.Lock()
	i.destroyed = true
	i.regs = nil
	i.mu.Unlock()
	if i.DestroyPanic != nil {
		panic(i.DestroyPanic)
	}
}

func (i *Instance) Invoke(_ context.Context, event string, args ...any) (widget.Response, error) {
	i.record(Call{Op: "invoke", Event: event, Args: args})
	if i.InvokeErr != nil {
		return widget.Response{}, i.InvokeErr
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.Responses[event], nil
}

func (i *Instance) Register(event string, l *widget.Listener) {
	i.record(Call{Op: "register", Event: event})
	i.mu.Lock()
	defer i.mu.Unlock()
	i.regs = append(i.regs, registration{event: event, listener: l})
}

func (i *Instance) Unregister(event string, l *widget.Listener) {
	i.record(Call{Op: "unregister", Event: event})
	i.mu.Lock()
	defer i.mu.Unlock()
	kept := i.regs[:0]
	for _, r := range i.regs {
		if r.event == event && r.listener == l {
			continue
		}
		kept = append(kept, r)
	}
	i.regs = kept
}

func (i *Instance) SetFeatureConfig(cfg *feature.Config) {
	i.record(Call{Op: "setFeatureConfig", Args: []any{cfg}})
}

func (i *Instance) Replace(src string) {
	i.record(Call{Op: "replace", Args: []any{src}})
}

func (i *Instance) Refresh() {
	i.record(Call{Op: "refresh"})
}
