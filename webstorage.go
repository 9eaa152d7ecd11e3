package webenv

import (
	"github.com/dop251/goja"

	"github.com/iaalcantara17/webenv/storage"
)

// installStorage binds localStorage and sessionStorage. localStorage is
// backed by the run-wide store and keeps its contents across tests;
// sessionStorage is fresh per environment.
func (e *Env) installStorage() {
	if !isInstalled(e.vm.Get("localStorage")) {
		e.vm.Set("localStorage", e.storageObject(e.local))
	}
	if !isInstalled(e.vm.Get("sessionStorage")) {
		e.vm.Set("sessionStorage", e.storageObject(e.session))
	}
}

// storageObject builds the JS face of a store. Every operation is total:
// absent keys read as null, writes coerce values to strings.
func (e *Env) storageObject(st *storage.Store) *goja.Object {
	obj := e.vm.NewObject()

	obj.Set("getItem", func(call goja.FunctionCall) goja.Value {
		key := call.Argument(0).String()
		val, ok := st.Get(key)
		if !ok {
			return goja.Null()
		}
		return e.vm.ToValue(val)
	})

	obj.Set("setItem", func(call goja.FunctionCall) goja.Value {
		st.Set(call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})

	obj.Set("removeItem", func(call goja.FunctionCall) goja.Value {
		st.Remove(call.Argument(0).String())
		return goja.Undefined()
	})

	obj.Set("clear", func(call goja.FunctionCall) goja.Value {
		st.Clear()
		return goja.Undefined()
	})

	obj.Set("key", func(call goja.FunctionCall) goja.Value {
		key, ok := st.Key(int(call.Argument(0).ToInteger()))
		if !ok {
			return goja.Null()
		}
		return e.vm.ToValue(key)
	})

	obj.DefineAccessorProperty("length",
		e.vm.ToValue(func() int { return st.Len() }),
		nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	return obj
}
