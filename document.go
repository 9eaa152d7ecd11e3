package webenv

import "github.com/dop251/goja"

// installDocument binds the document over the backing model. Queries
// return cached element proxies; creation goes through the model so
// mounted markup and script-created nodes live in one tree.
func (e *Env) installDocument() {
	if isInstalled(e.vm.Get("document")) {
		return
	}

	doc := e.vm.NewObject()

	doc.Set("createElement", func(call goja.FunctionCall) goja.Value {
		return e.elementObject(e.doc.CreateElement(call.Argument(0).String()))
	})

	doc.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		return e.elementObject(e.doc.GetElementByID(call.Argument(0).String()))
	})
	doc.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		return e.elementList(e.doc.Query("." + call.Argument(0).String()))
	})
	doc.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		return e.elementList(e.doc.Query(call.Argument(0).String()))
	})
	doc.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		return e.elementObject(e.doc.QueryOne(call.Argument(0).String()))
	})
	doc.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return e.elementList(e.doc.Query(call.Argument(0).String()))
	})

	e.defineGetter(doc, "body", func() goja.Value {
		return e.elementObject(e.doc.Body)
	})
	e.defineGetter(doc, "head", func() goja.Value {
		return e.elementObject(e.doc.Head)
	})
	e.defineGetter(doc, "documentElement", func() goja.Value {
		return e.elementObject(e.doc.Root)
	})

	e.defineLiveString(doc, "title",
		func() string { return e.docTitle },
		func(s string) { e.docTitle = s })

	doc.Set("createEvent", func(call goja.FunctionCall) goja.Value {
		ev := e.vm.NewObject()
		ev.Set("type", "")
		ev.Set("initEvent", func(init goja.FunctionCall) goja.Value {
			ev.Set("type", init.Argument(0).String())
			return goja.Undefined()
		})
		return ev
	})

	e.bindListenerMethods(doc, e.doc.Root)

	e.vm.Set("document", doc)
	e.elems[doc] = e.doc.Root
}

// documentListenerCount reports listeners currently attached anywhere
// in the tree. Reset uses it to confirm teardown released everything.
func (e *Env) documentListenerCount() int {
	return e.doc.ListenerCount()
}
