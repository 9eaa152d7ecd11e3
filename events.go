package webenv

import "github.com/dop251/goja"

// installEvents binds the event constructors component code constructs
// directly. PointerEvent is aliased to MouseEvent when absent, so
// pointer-event branches still run against a runtime without pointer
// support.
func (e *Env) installEvents() {
	if !isInstalled(e.vm.Get("Event")) {
		e.vm.Set("Event", e.makeEventCtor(nil))
	}
	if !isInstalled(e.vm.Get("CustomEvent")) {
		e.vm.Set("CustomEvent", e.makeEventCtor(map[string]interface{}{
			"detail": goja.Null(),
		}))
	}
	if !isInstalled(e.vm.Get("MouseEvent")) {
		e.vm.Set("MouseEvent", e.makeEventCtor(map[string]interface{}{
			"button":  0,
			"clientX": 0,
			"clientY": 0,
		}))
	}
	if !isInstalled(e.vm.Get("PointerEvent")) {
		e.vm.Set("PointerEvent", e.vm.Get("MouseEvent"))
	}
}

// makeEventCtor builds an event constructor. Defaults are applied
// first, then any property of the init dictionary is copied over.
func (e *Env) makeEventCtor(defaults map[string]interface{}) func(goja.ConstructorCall) *goja.Object {
	return func(call goja.ConstructorCall) *goja.Object {
		this := call.This

		typ := ""
		if len(call.Arguments) > 0 {
			typ = call.Arguments[0].String()
		}

		this.Set("type", typ)
		this.Set("bubbles", false)
		this.Set("cancelable", false)
		this.Set("defaultPrevented", false)
		this.Set("target", goja.Null())
		for k, v := range defaults {
			this.Set(k, v)
		}

		if init := call.Argument(1); isInstalled(init) {
			initObj := init.ToObject(e.vm)
			for _, k := range initObj.Keys() {
				if k == "type" {
					continue
				}
				this.Set(k, initObj.Get(k))
			}
		}

		this.Set("preventDefault", func(goja.FunctionCall) goja.Value {
			this.Set("defaultPrevented", true)
			return goja.Undefined()
		})
		this.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
			return goja.Undefined()
		})

		return nil
	}
}

// eventObject builds the runtime face of an event dispatched from Go.
func (e *Env) eventObject(typ string, target *goja.Object) *goja.Object {
	obj := e.vm.NewObject()
	obj.Set("type", typ)
	obj.Set("bubbles", false)
	obj.Set("cancelable", false)
	obj.Set("defaultPrevented", false)
	if target != nil {
		obj.Set("target", target)
	} else {
		obj.Set("target", goja.Null())
	}
	obj.Set("preventDefault", func(goja.FunctionCall) goja.Value {
		obj.Set("defaultPrevented", true)
		return goja.Undefined()
	})
	obj.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		return goja.Undefined()
	})
	return obj
}
