// Package mock provides the stand-in functions the simulated environment
// installs for capabilities that must not do real work during tests.
//
// A Fn records every call and can be given per-test behavior. The
// implementation supplied at creation time is permanent: Reset drops the
// recorded calls and any configured behavior but the creation default
// stays, so a fail-fast default installed at environment setup keeps
// failing fast in later tests.
package mock

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/iaalcantara17/webenv/internal/id"
)

// Impl is the behavior of a stand-in function.
type Impl func(args ...interface{}) (interface{}, error)

// Call records one invocation.
type Call struct {
	Args   []interface{}
	Result interface{}
	Err    error
	Seq    uint64
	Time   time.Time
}

// seq orders calls across all stand-ins in a process.
var seq atomic.Uint64

// Fn is a named stand-in function with call recording.
type Fn struct {
	name string
	id   id.StubID

	mu    sync.Mutex
	def   Impl   // creation default, survives Reset
	impl  Impl   // configured behavior, cleared by Reset
	queue []Impl // one-shot behaviors, consumed in order
	calls []Call
}

// NewFn creates a stand-in with the given creation default. A nil default
// makes calls return (nil, nil) until behavior is configured.
func NewFn(name string, def Impl) *Fn {
	return &Fn{
		name: name,
		id:   id.NewStubID(),
		def:  def,
	}
}

// Name returns the stand-in's name.
func (f *Fn) Name() string { return f.name }

// ID returns the stand-in's unique ID.
func (f *Fn) ID() id.StubID { return f.id }

// Call invokes the stand-in and records the invocation. One-shot
// behaviors are consumed first, then persistent configured behavior,
// then the creation default.
func (f *Fn) Call(args ...interface{}) (interface{}, error) {
	f.mu.Lock()
	impl := f.def
	if f.impl != nil {
		impl = f.impl
	}
	if len(f.queue) > 0 {
		impl = f.queue[0]
		f.queue = f.queue[1:]
	}
	f.mu.Unlock()

	var result interface{}
	var err error
	if impl != nil {
		result, err = impl(args...)
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{
		Args:   args,
		Result: result,
		Err:    err,
		Seq:    seq.Add(1),
		Time:   time.Now(),
	})
	f.mu.Unlock()

	return result, err
}

// Do sets persistent behavior for the current test.
func (f *Fn) Do(impl Impl) *Fn {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.impl = impl
	return f
}

// DoOnce queues behavior consumed by a single call.
func (f *Fn) DoOnce(impl Impl) *Fn {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, impl)
	return f
}

// Returns sets persistent behavior yielding a fixed value.
func (f *Fn) Returns(v interface{}) *Fn {
	return f.Do(func(...interface{}) (interface{}, error) { return v, nil })
}

// ReturnsOnce queues a fixed value for a single call.
func (f *Fn) ReturnsOnce(v interface{}) *Fn {
	return f.DoOnce(func(...interface{}) (interface{}, error) { return v, nil })
}

// Fails sets persistent behavior yielding an error.
func (f *Fn) Fails(err error) *Fn {
	return f.Do(func(...interface{}) (interface{}, error) { return nil, err })
}

// FailsOnce queues an error for a single call.
func (f *Fn) FailsOnce(err error) *Fn {
	return f.DoOnce(func(...interface{}) (interface{}, error) { return nil, err })
}

// Calls returns a copy of the recorded invocations in call order.
func (f *Fn) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make([]Call, len(f.calls))
	copy(calls, f.calls)
	return calls
}

// CallCount returns the number of recorded invocations.
func (f *Fn) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// LastCall returns the most recent invocation, if any.
func (f *Fn) LastCall() (Call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.calls) == 0 {
		return Call{}, false
	}
	return f.calls[len(f.calls)-1], true
}

// Reset clears recorded calls and configured behavior. The creation
// default is retained.
func (f *Fn) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = nil
	f.impl = nil
	f.queue = nil
}
