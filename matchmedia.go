package webenv

import "github.com/dop251/goja"

// installMatchMedia binds a matchMedia that never evaluates queries:
// every descriptor reports matches=false and echoes the query back as
// media. Listener registration in both the deprecated and the modern
// style is accepted and ignored.
func (e *Env) installMatchMedia() {
	if isInstalled(e.vm.Get("matchMedia")) {
		return
	}

	fn := e.stubFn("matchMedia", nil)

	e.vm.Set("matchMedia", func(call goja.FunctionCall) goja.Value {
		query := call.Argument(0).String()
		fn.Call(query)

		noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }

		mql := e.vm.NewObject()
		mql.Set("matches", false)
		mql.Set("media", query)
		mql.Set("onchange", goja.Null())
		mql.Set("addListener", noop)
		mql.Set("removeListener", noop)
		mql.Set("addEventListener", noop)
		mql.Set("removeEventListener", noop)
		mql.Set("dispatchEvent", func(goja.FunctionCall) goja.Value {
			return e.vm.ToValue(true)
		})
		return mql
	})
}
