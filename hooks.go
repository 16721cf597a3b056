package larkdocs

import (
	"sync"
)

// Hook function types for widget lifecycle callbacks
type (
	// ErrorHook is called when the widget reports an internal error
	ErrorHook func(code, msg string)

	// AuthErrorHook is called when the widget rejects the auth bundle
	AuthErrorHook func(err any)

	// MountHook is called on mount success or mount timeout
	MountHook func()
)

// hooks fans each widget callback out to every registered hook
type hooks struct {
	mu             sync.RWMutex
	onError        []ErrorHook
	onAuthError    []AuthErrorHook
	onMountSuccess []MountHook
	onMountTimeout []MountHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnError registers a callback for widget errors
func (h *hooks) OnError(fn ErrorHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onError = append(h.onError, fn)
}

// OnAuthError registers a callback for authentication failures
func (h *hooks) OnAuthError(fn AuthErrorHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAuthError = append(h.onAuthError, fn)
}

// OnMountSuccess registers a callback for a successful mount
func (h *hooks) OnMountSuccess(fn MountHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMountSuccess = append(h.onMountSuccess, fn)
}

// OnMountTimeout registers a callback for a mount timeout
func (h *hooks) OnMountTimeout(fn MountHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMountTimeout = append(h.onMountTimeout, fn)
}

func (h *hooks) triggerError(code, msg string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onError {
		fn(code, msg)
	}
}

func (h *hooks) triggerAuthError(err any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onAuthError {
		fn(err)
	}
}

func (h *hooks) triggerMountSuccess() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onMountSuccess {
		fn()
	}
}

func (h *hooks) triggerMountTimeout() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onMountTimeout {
		fn()
	}
}
