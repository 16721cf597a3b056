//go:build js && wasm

package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/feature"
	"github.com/agentstation/larkdocs/pkg/widget"
)

type subscription struct {
	event    string
	listener *widget.Listener
	fn       js.Func
}

// instance adapts a JS DocComponentSdk object to widget.Instance.
type instance struct {
	v      js.Value
	logger *zerolog.Logger

	mu        sync.Mutex
	callbacks []js.Func
	subs      []subscription
}

func newInstance(ctor js.Value, opts widget.Options, logger *zerolog.Logger) (widget.Instance, error) {
	mount, ok := opts.Mount.(js.Value)
	if !ok || !present(mount) {
		return nil, errors.NewValidationError("mount", opts.Mount, "mount must be a DOM element")
	}

	jsOpts, err := toJS(opts)
	if err != nil {
		return nil, fmt.Errorf("encode component options: %w", err)
	}
	jsOpts.Set("mount", mount)

	inst := &instance{logger: logger}
	inst.bind(jsOpts, "onError", func(args []js.Value) {
		if opts.OnError == nil {
			return
		}
		var code, msg string
		if len(args) > 0 && present(args[0]) {
			code = args[0].Get("code").String()
			msg = args[0].Get("msg").String()
		}
		opts.OnError(code, msg)
	})
	inst.bind(jsOpts, "onAuthError", func(args []js.Value) {
		if opts.OnAuthError == nil {
			return
		}
		var payload any
		if len(args) > 0 {
			payload = fromJS(args[0])
		}
		opts.OnAuthError(payload)
	})
	inst.bind(jsOpts, "onMountSuccess", func([]js.Value) {
		if opts.OnMountSuccess != nil {
			opts.OnMountSuccess()
		}
	})
	inst.bind(jsOpts, "onMountTimeout", func([]js.Value) {
		if opts.OnMountTimeout != nil {
			opts.OnMountTimeout()
		}
	})

	inst.v = ctor.New(jsOpts)
	return inst, nil
}

func (i *instance) bind(target js.Value, name string, fn func(args []js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args)
		return nil
	})
	i.callbacks = append(i.callbacks, f)
	target.Set(name, f)
}

func (i *instance) Start(ctx context.Context) error {
	_, err := await(ctx, i.v.Call("start"))
	return err
}

func (i *instance) Destroy() {
	i.v.Call("destroy")

	i.mu.Lock()
	defer i.mu.Unlock()
	for _, s := range i.subs {
		s.fn.Release()
	}
	for _, f := range i.callbacks {
		f.Release()
	}
	i.subs = nil
	i.callbacks = nil
}

func (i *instance) Invoke(ctx context.Context, event string, args ...any) (widget.Response, error) {
	callArgs := make([]any, 0, len(args)+1)
	callArgs = append(callArgs, event)
	for n, a := range args {
		v, err := toJS(a)
		if err != nil {
			return widget.Response{}, errors.WrapValidation(fmt.Sprintf("%s[%d]", event, n), err)
		}
		callArgs = append(callArgs, v)
	}

	result, err := await(ctx, i.v.Call("invoke", callArgs...))
	if err != nil {
		return widget.Response{}, err
	}

	var resp widget.Response
	if !present(result) {
		return resp, nil
	}
	code := result.Get("code")
	if code.Type() != js.TypeNumber {
		return resp, fmt.Errorf("invoke %s: response code is %s, not a number", event, code.Type())
	}
	resp.Code = code.Int()
	if msg := result.Get("msg"); present(msg) {
		resp.Msg = msg.String()
	}
	resp.Data = fromJS(result.Get("data"))
	return resp, nil
}

func (i *instance) Register(event string, l *widget.Listener) {
	fn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var payload any
		if len(args) > 0 {
			payload = fromJS(args[0])
		}
		l.Notify(payload)
		return nil
	})

	i.mu.Lock()
	i.subs = append(i.subs, subscription{event: event, listener: l, fn: fn})
	i.mu.Unlock()

	i.v.Call("register", event, fn)
}

func (i *instance) Unregister(event string, l *widget.Listener) {
	i.mu.Lock()
	var removed []js.Func
	kept := i.subs[:0]
	for _, s := range i.subs {
		if s.event == event && s.listener == l {
			removed = append(removed, s.fn)
			continue
		}
		kept = append(kept, s)
	}
	i.subs = kept
	i.mu.Unlock()

	for _, fn := range removed {
		i.v.Call("unregister", event, fn)
		fn.Release()
	}
}

func (i *instance) SetFeatureConfig(cfg *feature.Config) {
	i.callEncoded("setFeatureConfig", cfg)
}

// callEncoded calls method with v converted to a JS value. Values that do
// not encode are logged and not forwarded.
func (i *instance) callEncoded(method string, v any) {
	jv, err := toJS(v)
	if err != nil {
		i.logger.Error().Err(err).Str("method", method).Msg("Argument could not be encoded, call dropped")
		return
	}
	i.v.Call(method, jv)
}

func (i *instance) Replace(src string) {
	i.v.Call("replace", src)
}

func (i *instance) Refresh() {
	i.v.Call("refresh")
}

// await blocks until p settles or ctx is done.
func await(ctx context.Context, p js.Value) (js.Value, error) {
	if !present(p) || p.Get("then").Type() != js.TypeFunction {
		return p, nil
	}

	type outcome struct {
		v   js.Value
		err error
	}
	ch := make(chan outcome, 1)

	var onResolve, onReject js.Func
	onResolve = js.FuncOf(func(_ js.Value, args []js.Value) any {
		var v js.Value
		if len(args) > 0 {
			v = args[0]
		}
		ch <- outcome{v: v}
		onResolve.Release()
		onReject.Release()
		return nil
	})
	onReject = js.FuncOf(func(_ js.Value, args []js.Value) any {
		reason := "promise rejected"
		if len(args) > 0 && present(args[0]) {
			if msg := args[0].Get("message"); present(msg) {
				reason = msg.String()
			} else {
				reason = js.Global().Get("String").Invoke(args[0]).String()
			}
		}
		ch <- outcome{err: fmt.Errorf("%s", reason)}
		onResolve.Release()
		onReject.Release()
		return nil
	})
	p.Call("then", onResolve, onReject)

	select {
	case o := <-ch:
		return o.v, o.err
	case <-ctx.Done():
		return js.Undefined(), ctx.Err()
	}
}

var jsonObject = js.Global().Get("JSON")

// toJS converts a Go value to JS through its JSON encoding, so struct tags
// decide the field names.
func toJS(v any) (js.Value, error) {
	if v == nil {
		return js.Undefined(), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return js.Undefined(), err
	}
	return jsonObject.Call("parse", string(data)), nil
}

// fromJS converts a JS value to plain Go data (maps, slices, float64,
// string, bool). Values JSON cannot express come back as nil.
func fromJS(v js.Value) any {
	if !present(v) {
		return nil
	}
	text := jsonObject.Call("stringify", v)
	if !present(text) {
		return nil
	}
	var out any
	if err := json.Unmarshal([]byte(text.String()), &out); err != nil {
		return nil
	}
	return out
}
