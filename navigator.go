package webenv

import "github.com/dop251/goja"

// installNavigator binds a minimal navigator: identity strings from
// configuration plus clipboard and permissions stand-ins. The clipboard
// buffer lives on the Env, so reset empties it along with everything
// else a test wrote.
func (e *Env) installNavigator() {
	if isInstalled(e.vm.Get("navigator")) {
		return
	}

	nav := e.vm.NewObject()
	nav.Set("userAgent", e.cfg.Runtime.UserAgent)
	nav.Set("language", "en-US")
	nav.Set("languages", []string{"en-US", "en"})
	nav.Set("platform", "webenv")
	nav.Set("onLine", true)

	nav.Set("clipboard", e.clipboardObject())
	nav.Set("permissions", e.permissionsObject())

	e.vm.Set("navigator", nav)
}

func (e *Env) clipboardObject() *goja.Object {
	writeText := e.stubFn("navigator.clipboard.writeText", func(args ...interface{}) (interface{}, error) {
		if len(args) > 0 {
			if s, ok := args[0].(string); ok {
				e.clipboard = s
			}
		}
		return nil, nil
	})
	readText := e.stubFn("navigator.clipboard.readText", func(...interface{}) (interface{}, error) {
		return e.clipboard, nil
	})

	clipboard := e.vm.NewObject()

	clipboard.Set("writeText", func(call goja.FunctionCall) goja.Value {
		text := call.Argument(0).String()
		promise, resolve, reject := e.vm.NewPromise()
		e.sched.enqueue(func() {
			if _, err := writeText.Call(text); err != nil {
				reject(e.vm.NewGoError(err))
				return
			}
			resolve(goja.Undefined())
		})
		return e.vm.ToValue(promise)
	})

	clipboard.Set("readText", func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := e.vm.NewPromise()
		e.sched.enqueue(func() {
			result, err := readText.Call()
			if err != nil {
				reject(e.vm.NewGoError(err))
				return
			}
			resolve(e.vm.ToValue(result))
		})
		return e.vm.ToValue(promise)
	})

	return clipboard
}

func (e *Env) permissionsObject() *goja.Object {
	query := e.stubFn("navigator.permissions.query", func(...interface{}) (interface{}, error) {
		return "granted", nil
	})

	permissions := e.vm.NewObject()
	permissions.Set("query", func(call goja.FunctionCall) goja.Value {
		name := ""
		if desc := call.Argument(0); isInstalled(desc) {
			if nv := desc.ToObject(e.vm).Get("name"); isInstalled(nv) {
				name = nv.String()
			}
		}

		promise, resolve, reject := e.vm.NewPromise()
		e.sched.enqueue(func() {
			result, err := query.Call(name)
			if err != nil {
				reject(e.vm.NewGoError(err))
				return
			}
			state, _ := result.(string)
			if state == "" {
				state = "granted"
			}
			status := e.vm.NewObject()
			status.Set("name", name)
			status.Set("state", state)
			status.Set("onchange", goja.Null())
			resolve(status)
		})
		return e.vm.ToValue(promise)
	})

	return permissions
}
