package webenv

import (
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/iaalcantara17/webenv/mock"
)

// Install applies every capability patch to the runtime. Installation
// is idempotent: capabilities already present are left in place, so
// calling Install again (or layering it over a runtime that provides
// some capability natively) never replaces existing behavior.
func (e *Env) Install() error {
	if e.closed {
		return ErrClosed
	}

	e.installGlobals()
	e.installConsole()
	e.installTimers()
	e.installEvents()
	e.installStorage()
	e.installMatchMedia()
	e.installFetch()
	e.installObserver()
	e.installBlob()
	e.installURL()
	e.installNavigator()
	e.installDocument()

	e.log.Debug("capabilities installed", zap.String("env_id", e.id.String()))
	return nil
}

// isInstalled reports whether a global slot already holds something.
func isInstalled(v goja.Value) bool {
	return v != nil && !goja.IsUndefined(v) && !goja.IsNull(v)
}

// stubFn returns the registered stand-in for name, creating it with the
// given default on first use. Reinstalling capabilities after a reset
// reuses the same stand-in, so call tracking keeps its identity.
func (e *Env) stubFn(name string, def mock.Impl) *mock.Fn {
	if f, ok := e.registry.GetFn(name); ok {
		return f
	}
	return e.registry.Fn(name, def)
}

// installGlobals aliases the global object the way browser code expects
// and removes module-system globals scripts must not see.
func (e *Env) installGlobals() {
	global := e.vm.GlobalObject()

	if !isInstalled(e.vm.Get("window")) {
		e.vm.Set("window", global)
	}
	if !isInstalled(e.vm.Get("self")) {
		e.vm.Set("self", global)
	}
	if !isInstalled(e.vm.Get("globalThis")) {
		e.vm.Set("globalThis", global)
	}

	// Remove dangerous globals
	e.vm.Set("require", goja.Undefined())
	e.vm.Set("process", goja.Undefined())
	e.vm.Set("module", goja.Undefined())
	e.vm.Set("exports", goja.Undefined())
}

// installTimers binds setTimeout/setInterval to the virtual clock.
// Callbacks fire only when the test advances the clock, never on their
// own.
func (e *Env) installTimers() {
	if isInstalled(e.vm.Get("setTimeout")) {
		return
	}

	e.vm.Set("setTimeout", e.makeTimerFunc(false))
	e.vm.Set("setInterval", e.makeTimerFunc(true))
	e.vm.Set("clearTimeout", e.makeClearTimerFunc())
	e.vm.Set("clearInterval", e.makeClearTimerFunc())
	e.vm.Set("queueMicrotask", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(e.vm.NewTypeError("queueMicrotask expects a function"))
		}
		e.sched.enqueue(func() {
			if _, err := fn(goja.Undefined()); err != nil {
				e.log.Warn("microtask failed", zap.Error(err))
			}
		})
		return goja.Undefined()
	})
}

func (e *Env) makeTimerFunc(repeating bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			return e.vm.ToValue(int64(0))
		}

		delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
		if delay < 0 {
			delay = 0
		}
		interval := time.Duration(0)
		if repeating {
			interval = delay
			if interval <= 0 {
				interval = time.Millisecond
			}
		}

		var extra []goja.Value
		if len(call.Arguments) > 2 {
			extra = call.Arguments[2:]
		}

		tid := e.sched.setTimer(delay, interval, func() {
			if _, err := fn(goja.Undefined(), extra...); err != nil {
				e.log.Warn("timer callback failed", zap.Error(err))
			}
		})
		return e.vm.ToValue(tid)
	}
}

func (e *Env) makeClearTimerFunc() func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		e.sched.clearTimer(call.Argument(0).ToInteger())
		return goja.Undefined()
	}
}
