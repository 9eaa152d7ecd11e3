package webenv

import (
	"github.com/dop251/goja"

	"github.com/iaalcantara17/webenv/mock"
)

// installObserver provides ResizeObserver only when the runtime lacks
// one. The stand-in exists so construction and registration do not
// throw; it never reports layout changes because nothing is laid out.
func (e *Env) installObserver() {
	if isInstalled(e.vm.Get("ResizeObserver")) {
		return
	}

	observe := e.stubFn("ResizeObserver.observe", nil)
	unobserve := e.stubFn("ResizeObserver.unobserve", nil)
	disconnect := e.stubFn("ResizeObserver.disconnect", nil)

	e.vm.Set("ResizeObserver", func(call goja.ConstructorCall) *goja.Object {
		this := call.This
		this.Set("observe", e.recordingNoop(observe))
		this.Set("unobserve", e.recordingNoop(unobserve))
		this.Set("disconnect", e.recordingNoop(disconnect))
		return nil
	})
}

// recordingNoop builds a no-op binding that records its arguments on
// the stand-in.
func (e *Env) recordingNoop(fn *mock.Fn) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		args := make([]interface{}, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = a.Export()
		}
		fn.Call(args...)
		return goja.Undefined()
	}
}
