package webenv

import (
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/iaalcantara17/webenv/dom"
)

// elementObject returns the runtime proxy for an element, creating it
// on first use. Proxies are cached in both directions so identity
// holds: querying the same element twice yields the same object, and
// objects passed back from scripts map to their backing element.
func (e *Env) elementObject(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	if obj, ok := e.proxies[el]; ok {
		return obj
	}

	obj := e.vm.NewObject()
	e.proxies[el] = obj
	e.elems[obj] = el

	obj.Set("tagName", strings.ToUpper(el.TagName))
	obj.Set("nodeType", 1)

	e.defineLiveString(obj, "id",
		func() string { return el.ID },
		func(s string) { el.SetAttribute("id", s) })
	e.defineLiveString(obj, "className",
		func() string { return el.ClassName },
		func(s string) { el.SetAttribute("class", s) })
	e.defineLiveString(obj, "textContent",
		func() string { return el.Text() },
		func(s string) {
			for _, child := range append([]*dom.Element(nil), el.Children...) {
				e.dropElement(child)
				child.Remove()
			}
			el.TextContent = s
		})

	e.defineGetter(obj, "outerHTML", func() goja.Value {
		return e.vm.ToValue(el.OuterHTML())
	})
	e.defineGetter(obj, "innerHTML", func() goja.Value {
		return e.vm.ToValue(el.InnerHTML())
	})
	e.defineGetter(obj, "children", func() goja.Value {
		return e.elementList(el.Children)
	})
	e.defineGetter(obj, "parentElement", func() goja.Value {
		return e.elementObject(el.Parent)
	})

	obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		val, ok := el.LookupAttribute(call.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return e.vm.ToValue(val)
	})
	obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		el.SetAttribute(call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	obj.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		_, ok := el.LookupAttribute(call.Argument(0).String())
		return e.vm.ToValue(ok)
	})
	obj.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		el.RemoveAttribute(call.Argument(0).String())
		return goja.Undefined()
	})

	obj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		found := el.Query(call.Argument(0).String())
		if len(found) == 0 {
			return goja.Null()
		}
		return e.elementObject(found[0])
	})
	obj.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return e.elementList(el.Query(call.Argument(0).String()))
	})
	obj.Set("contains", func(call goja.FunctionCall) goja.Value {
		other := e.elementOf(call.Argument(0))
		for cur := other; cur != nil; cur = cur.Parent {
			if cur == el {
				return e.vm.ToValue(true)
			}
		}
		return e.vm.ToValue(false)
	})

	obj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		child := e.elementOf(call.Argument(0))
		if child == nil {
			panic(e.vm.NewTypeError("appendChild: argument is not an element"))
		}
		child.Remove()
		el.AddElement(child)
		return call.Argument(0)
	})
	obj.Set("removeChild", func(call goja.FunctionCall) goja.Value {
		child := e.elementOf(call.Argument(0))
		if child == nil || child.Parent != el {
			panic(e.vm.NewTypeError("removeChild: node is not a child"))
		}
		child.Remove()
		return call.Argument(0)
	})
	obj.Set("remove", func(call goja.FunctionCall) goja.Value {
		el.Remove()
		return goja.Undefined()
	})

	obj.Set("click", func(call goja.FunctionCall) goja.Value {
		ev := dom.NewEvent("click")
		ev.Raw = e.eventObject("click", obj)
		el.Dispatch(ev)
		return goja.Undefined()
	})

	e.bindListenerMethods(obj, el)
	e.bindPointerCapture(obj)

	return obj
}

// elementOf maps a runtime value back to its backing element, or nil
// when the value is not one of our proxies.
func (e *Env) elementOf(v goja.Value) *dom.Element {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	return e.elems[obj]
}

// dropElement forgets the proxy pairing for an element and its
// subtree. Used when elements leave the document for good.
func (e *Env) dropElement(el *dom.Element) {
	if obj, ok := e.proxies[el]; ok {
		delete(e.elems, obj)
		delete(e.proxies, el)
	}
	for _, child := range el.Children {
		e.dropElement(child)
	}
}

func (e *Env) elementList(els []*dom.Element) goja.Value {
	out := make([]interface{}, len(els))
	for i, el := range els {
		out[i] = e.elementObject(el)
	}
	return e.vm.ToValue(out)
}

// bindListenerMethods wires addEventListener, removeEventListener and
// dispatchEvent onto a proxy. Listeners are keyed by the handler value
// itself, so registering the same function twice stays a single
// registration and removal works with the original reference.
func (e *Env) bindListenerMethods(obj *goja.Object, el *dom.Element) {
	obj.Set("addEventListener", func(call goja.FunctionCall) goja.Value {
		typ := call.Argument(0).String()
		handler := call.Argument(1)
		fn, ok := goja.AssertFunction(handler)
		if !ok {
			return goja.Undefined()
		}
		el.AddListener(typ, handler, func(ev *dom.Event) {
			jsEvent, isObj := ev.Raw.(*goja.Object)
			if !isObj {
				jsEvent = e.eventObject(ev.Type, obj)
			}
			if _, err := fn(goja.Undefined(), jsEvent); err != nil {
				e.log.Warn("event listener failed",
					zap.String("type", ev.Type), zap.Error(err))
			}
		})
		return goja.Undefined()
	})

	obj.Set("removeEventListener", func(call goja.FunctionCall) goja.Value {
		el.RemoveListener(call.Argument(0).String(), call.Argument(1))
		return goja.Undefined()
	})

	obj.Set("dispatchEvent", func(call goja.FunctionCall) goja.Value {
		arg := call.Argument(0)
		if !isInstalled(arg) {
			panic(e.vm.NewTypeError("dispatchEvent: event required"))
		}
		evObj := arg.ToObject(e.vm)
		typ := ""
		if tv := evObj.Get("type"); isInstalled(tv) {
			typ = tv.String()
		}
		evObj.Set("target", obj)

		ev := dom.NewEvent(typ)
		ev.Raw = evObj
		el.Dispatch(ev)
		return e.vm.ToValue(true)
	})
}

// defineLiveString installs a string property whose reads and writes go
// straight to the backing model.
func (e *Env) defineLiveString(obj *goja.Object, name string, get func() string, set func(string)) {
	getter := e.vm.ToValue(func(goja.FunctionCall) goja.Value {
		return e.vm.ToValue(get())
	})
	setter := e.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		set(call.Argument(0).String())
		return goja.Undefined()
	})
	obj.DefineAccessorProperty(name, getter, setter, goja.FLAG_FALSE, goja.FLAG_TRUE)
}

// defineGetter installs a read-only computed property.
func (e *Env) defineGetter(obj *goja.Object, name string, get func() goja.Value) {
	getter := e.vm.ToValue(func(goja.FunctionCall) goja.Value {
		return get()
	})
	obj.DefineAccessorProperty(name, getter, nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
}
