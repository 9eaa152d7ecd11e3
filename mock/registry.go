package mock

import (
	"sync"
	"testing"
)

// Resettable is anything the per-test reset hook can restore to its
// creation state. Fn implements it; so do composite stand-ins like the
// network-fetch stub.
type Resettable interface {
	Name() string
	Reset()
}

// Registry tracks stand-ins so they can be reset together between test
// cases.
type Registry struct {
	fns sync.Map // name -> Resettable
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// Default returns the process-wide registry.
func Default() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Fn creates a stand-in function with the given creation default and
// registers it. Registering a name twice replaces the earlier entry.
func (r *Registry) Fn(name string, def Impl) *Fn {
	f := NewFn(name, def)
	r.fns.Store(name, f)
	return f
}

// Register adds an existing stand-in to the registry.
func (r *Registry) Register(v Resettable) {
	r.fns.Store(v.Name(), v)
}

// Unregister removes a stand-in by name.
func (r *Registry) Unregister(name string) {
	r.fns.Delete(name)
}

// Get returns a registered stand-in by name.
func (r *Registry) Get(name string) (Resettable, bool) {
	val, ok := r.fns.Load(name)
	if !ok {
		return nil, false
	}
	return val.(Resettable), true
}

// GetFn returns a registered stand-in function by name.
func (r *Registry) GetFn(name string) (*Fn, bool) {
	val, ok := r.fns.Load(name)
	if !ok {
		return nil, false
	}
	f, ok := val.(*Fn)
	return f, ok
}

// List returns the names of all registered stand-ins.
func (r *Registry) List() []string {
	var names []string
	r.fns.Range(func(key, _ interface{}) bool {
		names = append(names, key.(string))
		return true
	})
	return names
}

// ResetAll resets every registered stand-in: recorded calls and
// configured behavior are dropped, creation defaults stay.
func (r *Registry) ResetAll() {
	r.fns.Range(func(_, val interface{}) bool {
		val.(Resettable).Reset()
		return true
	})
}

// BindCleanup arranges for ResetAll to run when the test finishes, so
// behavior configured in one test cannot leak into the next.
func (r *Registry) BindCleanup(tb testing.TB) {
	tb.Helper()
	tb.Cleanup(r.ResetAll)
}
