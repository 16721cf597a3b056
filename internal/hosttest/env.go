// Package hosttest provides a scriptable in-memory host environment and
// widget instance for tests.
package hosttest

import (
	"sync"

	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/host"
	"github.com/agentstation/larkdocs/pkg/widget"
)

// Environment is a fake page. By default it has a document, no provider,
// and every injected script loads successfully and installs the provider.
type Environment struct {
	mu sync.Mutex

	noDocument   bool
	installed    bool
	installOnRun bool
	scriptErr    error
	gate         chan struct{}

	scripts   []string
	instances []*Instance

	// OnCreate configures each instance the provider factory builds.
	OnCreate func(*Instance)
	// FactoryErr makes the provider factory fail.
	FactoryErr error
}

// NewEnvironment returns a fake page with a document and no provider.
func NewEnvironment() *Environment {
	return &Environment{installOnRun: true}
}

// WithoutDocument removes the document, as in a non-browser context.
func (e *Environment) WithoutDocument() *Environment {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.noDocument = true
	return e
}

// Install makes the provider entry point present.
func (e *Environment) Install() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.installed = true
}

// Uninstall removes the provider entry point.
func (e *Environment) Uninstall() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.installed = false
}

// FailScripts makes subsequent scripts fail with err. nil restores success.
func (e *Environment) FailScripts(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scriptErr = err
}

// InstallOnLoad controls whether a successfully loaded script installs the
// provider.
func (e *Environment) InstallOnLoad(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.installOnRun = v
}

// Hold keeps subsequently injected scripts pending until the returned
// function is called.
func (e *Environment) Hold() (release func()) {
	gate := make(chan struct{})
	e.mu.Lock()
	e.gate = gate
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			if e.gate == gate {
				e.gate = nil
			}
			e.mu.Unlock()
			close(gate)
		})
	}
}

// Scripts returns the sources of every injected script, in order.
func (e *Environment) Scripts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.scripts...)
}

// Instances returns every instance the provider factory built, in order.
func (e *Environment) Instances() []*Instance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Instance(nil), e.instances...)
}

// Document implements host.Environment.
func (e *Environment) Document() (host.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.noDocument {
		return nil, errors.NewEnvironmentError("document", "fake environment has no document")
	}
	return document{env: e}, nil
}

// Provider implements host.Environment.
func (e *Environment) Provider() (widget.Factory, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.installed {
		return nil, false
	}
	return e.build, true
}

func (e *Environment) build(opts widget.Options) (widget.Instance, error) {
	e.mu.Lock()
	onCreate, factoryErr := e.OnCreate, e.FactoryErr
	e.mu.Unlock()

	if factoryErr != nil {
		return nil, factoryErr
	}
	inst := NewInstance(opts)
	if onCreate != nil {
		onCreate(inst)
	}

	e.mu.Lock()
	e.instances = append(e.instances, inst)
	e.mu.Unlock()
	return inst, nil
}

type document struct {
	env *Environment
}

func (d document) AppendScript(src string) <-chan error {
	e := d.env
	e.mu.Lock()
	e.scripts = append(e.scripts, src)
	gate := e.gate
	e.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		if gate != nil {
			<-gate
		}
		e.mu.Lock()
		err := e.scriptErr
		if err == nil && e.installOnRun {
			e.installed = true
		}
		e.mu.Unlock()
		done <- err
	}()
	return done
}
