package widget

// Listener is a subscription callback with a stable identity, so an
// instance can find it again on Unregister.
type Listener struct {
	fn func(payload any)
}

// NewListener wraps fn.
func NewListener(fn func(payload any)) *Listener {
	return &Listener{fn: fn}
}

// Notify delivers payload to the callback. A nil listener is ignored.
func (l *Listener) Notify(payload any) {
	if l == nil || l.fn == nil {
		return
	}
	l.fn(payload)
}
