package webenv

import (
	"net/url"

	"github.com/dop251/goja"
)

// ObjectURLToken is the fixed placeholder returned by the
// createObjectURL stand-in. No real object URLs are minted; UI code
// only needs a string it can assign to a src attribute.
const ObjectURLToken = "blob:webenv/object-url"

// installURL provides the URL constructor, and patches
// createObjectURL/revokeObjectURL onto it when absent.
func (e *Env) installURL() {
	ctorVal := e.vm.Get("URL")
	if !isInstalled(ctorVal) {
		e.vm.Set("URL", e.makeURLCtor())
		ctorVal = e.vm.Get("URL")
	}

	ctor := ctorVal.ToObject(e.vm)

	if !isInstalled(ctor.Get("createObjectURL")) {
		create := e.stubFn("URL.createObjectURL", func(...interface{}) (interface{}, error) {
			return ObjectURLToken, nil
		})
		ctor.Set("createObjectURL", func(call goja.FunctionCall) goja.Value {
			token, _ := create.Call()
			return e.vm.ToValue(token)
		})
	}

	if !isInstalled(ctor.Get("revokeObjectURL")) {
		revoke := e.stubFn("URL.revokeObjectURL", nil)
		ctor.Set("revokeObjectURL", func(call goja.FunctionCall) goja.Value {
			revoke.Call(call.Argument(0).Export())
			return goja.Undefined()
		})
	}
}

// makeURLCtor builds a URL constructor over net/url parsing.
func (e *Env) makeURLCtor() func(goja.ConstructorCall) *goja.Object {
	return func(call goja.ConstructorCall) *goja.Object {
		raw := call.Argument(0).String()

		var parsed *url.URL
		var err error
		if base := call.Argument(1); isInstalled(base) {
			var baseURL *url.URL
			baseURL, err = url.Parse(base.String())
			if err == nil {
				parsed, err = baseURL.Parse(raw)
			}
		} else {
			parsed, err = url.Parse(raw)
		}
		if err != nil || parsed == nil || !parsed.IsAbs() {
			panic(e.vm.NewTypeError("Invalid URL: %s", raw))
		}

		this := call.This
		this.Set("href", parsed.String())
		this.Set("protocol", parsed.Scheme+":")
		this.Set("host", parsed.Host)
		this.Set("hostname", parsed.Hostname())
		this.Set("port", parsed.Port())
		this.Set("pathname", pathnameOf(parsed))
		this.Set("origin", parsed.Scheme+"://"+parsed.Host)
		if parsed.RawQuery != "" {
			this.Set("search", "?"+parsed.RawQuery)
		} else {
			this.Set("search", "")
		}
		if parsed.Fragment != "" {
			this.Set("hash", "#"+parsed.Fragment)
		} else {
			this.Set("hash", "")
		}
		this.Set("toString", func(goja.FunctionCall) goja.Value {
			return this.Get("href")
		})
		this.Set("toJSON", func(goja.FunctionCall) goja.Value {
			return this.Get("href")
		})
		return nil
	}
}

func pathnameOf(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
