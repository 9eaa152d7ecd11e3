package webenv

import "github.com/dop251/goja"

// bindPointerCapture patches the pointer-capture trio onto an element
// proxy. Nothing here tracks real capture state: hasPointerCapture
// always answers false and the set/release pair only records that it
// was called, which is enough for drag-and-drop code paths to run.
func (e *Env) bindPointerCapture(obj *goja.Object) {
	has := e.stubFn("Element.hasPointerCapture", func(...interface{}) (interface{}, error) {
		return false, nil
	})
	set := e.stubFn("Element.setPointerCapture", nil)
	release := e.stubFn("Element.releasePointerCapture", nil)

	obj.Set("hasPointerCapture", func(call goja.FunctionCall) goja.Value {
		result, _ := has.Call(call.Argument(0).Export())
		captured, _ := result.(bool)
		return e.vm.ToValue(captured)
	})
	obj.Set("setPointerCapture", e.recordingNoop(set))
	obj.Set("releasePointerCapture", e.recordingNoop(release))
}
