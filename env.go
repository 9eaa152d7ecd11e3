package webenv

import (
	"errors"
	"sync"
	"testing"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/iaalcantara17/webenv/dom"
	"github.com/iaalcantara17/webenv/fetchmock"
	"github.com/iaalcantara17/webenv/internal/config"
	"github.com/iaalcantara17/webenv/internal/id"
	"github.com/iaalcantara17/webenv/internal/logging"
	"github.com/iaalcantara17/webenv/mock"
	"github.com/iaalcantara17/webenv/storage"
)

// ErrClosed is returned when an environment is used after Close.
var ErrClosed = errors.New("environment closed")

// Env is one simulated browser environment: a JavaScript runtime with
// the capability stand-ins tests rely on installed into it. Each test
// owns its Env; the key-value store behind localStorage is the only
// piece shared across environments.
type Env struct {
	id  id.EnvID
	cfg *config.Config
	log *logging.Logger

	vm    *goja.Runtime
	sched *scheduler
	doc   *dom.Document

	local    *storage.Store
	session  *storage.Store
	registry *mock.Registry
	fetch    *fetchmock.Stub

	blobReader BlobReader
	blobs      map[*goja.Object][]byte
	elems      map[*goja.Object]*dom.Element
	proxies    map[*dom.Element]*goja.Object
	clipboard  string
	docTitle   string

	mu        sync.Mutex // serializes script execution
	stateMu   sync.Mutex // guards mounts and restores
	consoleMu sync.Mutex
	console   []ConsoleEntry

	mounts    []*Mount
	restores  []restore
	interrupt chan struct{}
	closed    bool
}

type restore struct {
	name string
	prev goja.Value
}

// New builds an environment bound to the test: the per-test reset hook
// and final close are registered on t.Cleanup. Construction failures
// fail the test.
func New(t testing.TB, opts ...Option) *Env {
	t.Helper()

	env, err := NewDetached(opts...)
	if err != nil {
		t.Fatalf("create environment: %v", err)
	}

	t.Cleanup(func() {
		if err := env.Close(); err != nil {
			t.Errorf("close environment: %v", err)
		}
	})
	t.Cleanup(func() {
		if err := env.Reset(); err != nil {
			t.Errorf("reset environment: %v", err)
		}
	})

	return env
}

// NewDetached builds an environment without a test binding. The caller
// drives Reset and Close.
func NewDetached(opts ...Option) (*Env, error) {
	o := applyOptions(opts)

	env := &Env{
		id:         id.NewEnvID(),
		cfg:        o.cfg,
		log:        o.logger,
		sched:      newScheduler(),
		doc:        dom.NewDocument(),
		local:      o.local,
		session:    storage.New(),
		registry:   o.registry,
		fetch:      o.fetch,
		blobReader: o.blobReader,
		blobs:      make(map[*goja.Object][]byte),
		elems:      make(map[*goja.Object]*dom.Element),
		proxies:    make(map[*dom.Element]*goja.Object),
		interrupt:  make(chan struct{}),
	}
	if env.fetch == nil {
		env.fetch = fetchmock.New()
	}
	env.registry.Register(env.fetch)

	env.vm = goja.New()
	env.vm.SetMaxCallStackSize(1024)

	if err := env.Install(); err != nil {
		return nil, err
	}

	env.log.Debug("environment created", zap.String("env_id", env.id.String()))
	return env, nil
}

// ID returns the environment's unique ID.
func (e *Env) ID() id.EnvID { return e.id }

// Fetch returns the network-fetch stand-in for per-test configuration.
func (e *Env) Fetch() *fetchmock.Stub { return e.fetch }

// Registry returns the stand-in registry backing this environment.
func (e *Env) Registry() *mock.Registry { return e.registry }

// LocalStorage returns the store behind the localStorage binding.
func (e *Env) LocalStorage() *storage.Store { return e.local }

// SessionStorage returns the per-environment store behind the
// sessionStorage binding.
func (e *Env) SessionStorage() *storage.Store { return e.session }

// Document returns the backing document model.
func (e *Env) Document() *dom.Document { return e.doc }

// StubGlobal replaces a runtime global for the current test. The
// previous value is restored by the per-test reset.
func (e *Env) StubGlobal(name string, value interface{}) error {
	if e.closed {
		return ErrClosed
	}

	prev := e.vm.Get(name)
	if prev == nil {
		prev = goja.Undefined()
	}

	if err := e.vm.Set(name, value); err != nil {
		return err
	}

	e.stateMu.Lock()
	e.restores = append(e.restores, restore{name: name, prev: prev})
	e.stateMu.Unlock()
	return nil
}

// Global reads a runtime global, exported to a Go value. A closed
// environment has no globals.
func (e *Env) Global(name string) interface{} {
	if e.closed {
		return nil
	}
	val := e.vm.Get(name)
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	return val.Export()
}

// Close releases the runtime. The environment is unusable afterwards.
func (e *Env) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.vm = nil
	e.blobs = nil
	e.elems = nil
	e.proxies = nil
	e.sched.clear()
	e.log.Debug("environment closed", zap.String("env_id", e.id.String()))
	return nil
}
