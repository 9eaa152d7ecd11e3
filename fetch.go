package webenv

import (
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/dop251/goja"

	"github.com/iaalcantara17/webenv/fetchmock"
)

// installFetch binds the global fetch to the environment's stub. The
// binding never touches the network itself; routing, recording, and the
// fail-fast default all live in the stub.
func (e *Env) installFetch() {
	if isInstalled(e.vm.Get("fetch")) {
		return
	}

	e.vm.Set("fetch", func(call goja.FunctionCall) goja.Value {
		fcall := e.parseFetchArgs(call)

		promise, resolve, reject := e.vm.NewPromise()
		stub := e.fetch

		e.sched.enqueue(func() {
			resp, err := stub.Dispatch(fcall)
			if err != nil {
				// fetch failures surface as TypeError, like a browser's
				reject(e.vm.NewTypeError(err.Error()))
				return
			}
			resolve(e.responseObject(resp, fcall.URL))
		})

		return e.vm.ToValue(promise)
	})
}

// parseFetchArgs converts fetch(input, init) into a recorded call.
// Relative URLs resolve against the configured base URL.
func (e *Env) parseFetchArgs(call goja.FunctionCall) fetchmock.Call {
	fcall := fetchmock.Call{Method: "GET", Headers: map[string]string{}}

	input := call.Argument(0)
	raw := input.String()
	if obj, ok := input.(*goja.Object); ok {
		if uv := obj.Get("url"); isInstalled(uv) {
			raw = uv.String()
		}
		if mv := obj.Get("method"); isInstalled(mv) {
			fcall.Method = mv.String()
		}
	}
	fcall.URL = e.resolveURL(raw)

	if init := call.Argument(1); isInstalled(init) {
		initObj := init.ToObject(e.vm)

		if mv := initObj.Get("method"); isInstalled(mv) {
			fcall.Method = mv.String()
		}
		if hv := initObj.Get("headers"); isInstalled(hv) {
			headers := hv.ToObject(e.vm)
			for _, k := range headers.Keys() {
				fcall.Headers[k] = headers.Get(k).String()
			}
		}
		if bv := initObj.Get("body"); isInstalled(bv) {
			if ab, ok := bv.Export().(goja.ArrayBuffer); ok {
				fcall.Body = append([]byte(nil), ab.Bytes()...)
			} else if obj, ok := bv.(*goja.Object); ok {
				if data, found := e.blobs[obj]; found {
					fcall.Body = append([]byte(nil), data...)
				} else {
					fcall.Body = []byte(bv.String())
				}
			} else {
				fcall.Body = []byte(bv.String())
			}
		}
	}

	return fcall
}

// resolveURL resolves raw against the configured base URL. Unparseable
// input passes through so the failure names what was actually requested.
func (e *Env) resolveURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.IsAbs() {
		return u.String()
	}
	base, err := url.Parse(e.cfg.Runtime.BaseURL)
	if err != nil {
		return raw
	}
	return base.ResolveReference(u).String()
}

// responseObject builds the JS face of a stubbed response.
func (e *Env) responseObject(resp fetchmock.Response, reqURL string) *goja.Object {
	obj := e.vm.NewObject()
	obj.Set("ok", resp.OK())
	obj.Set("status", resp.Status)
	obj.Set("statusText", resp.StatusText())
	obj.Set("url", reqURL)
	obj.Set("redirected", false)

	headers := e.vm.NewObject()
	headers.Set("get", func(call goja.FunctionCall) goja.Value {
		val := resp.Header(call.Argument(0).String())
		if val == "" {
			return goja.Null()
		}
		return e.vm.ToValue(val)
	})
	headers.Set("has", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(resp.Header(call.Argument(0).String()) != "")
	})
	obj.Set("headers", headers)

	obj.Set("text", func(goja.FunctionCall) goja.Value {
		promise, resolve, _ := e.vm.NewPromise()
		e.sched.enqueue(func() {
			resolve(e.vm.ToValue(resp.DecodeText()))
		})
		return e.vm.ToValue(promise)
	})

	obj.Set("json", func(goja.FunctionCall) goja.Value {
		promise, resolve, reject := e.vm.NewPromise()
		e.sched.enqueue(func() {
			var v interface{}
			if err := sonic.Unmarshal(resp.Body, &v); err != nil {
				reject(e.vm.NewTypeError("invalid json: %v", err))
				return
			}
			resolve(e.vm.ToValue(v))
		})
		return e.vm.ToValue(promise)
	})

	obj.Set("blob", func(goja.FunctionCall) goja.Value {
		promise, resolve, _ := e.vm.NewPromise()
		blob := e.newBlob(resp.Body, resp.Header("Content-Type"))
		e.sched.enqueue(func() { resolve(blob) })
		return e.vm.ToValue(promise)
	})

	obj.Set("arrayBuffer", func(goja.FunctionCall) goja.Value {
		promise, resolve, _ := e.vm.NewPromise()
		buf := e.vm.NewArrayBuffer(resp.Body)
		e.sched.enqueue(func() { resolve(buf) })
		return e.vm.ToValue(promise)
	})

	obj.Set("clone", func(goja.FunctionCall) goja.Value {
		return e.responseObject(resp, reqURL)
	})

	return obj
}
