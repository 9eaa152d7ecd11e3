package webenv

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

// BlobReader is the file-reading capability behind Blob.text. Tests
// substitute it to inject read failures.
type BlobReader func(data []byte) (string, error)

// defaultBlobReader decodes the bytes as UTF-8, replacing invalid
// sequences the way TextDecoder does.
func defaultBlobReader(data []byte) (string, error) {
	return strings.ToValidUTF8(string(data), "�"), nil
}

// installBlob provides the Blob constructor, or patches text() onto an
// existing one that lacks it.
func (e *Env) installBlob() {
	if existing := e.vm.Get("Blob"); isInstalled(existing) {
		e.patchBlobText(existing)
		return
	}

	e.vm.Set("Blob", func(call goja.ConstructorCall) *goja.Object {
		data, typ := e.collectBlobParts(call)
		e.fillBlob(call.This, data, typ)
		return nil
	})
}

// patchBlobText adds text() to a foreign Blob prototype when absent.
func (e *Env) patchBlobText(ctor goja.Value) {
	ctorObj := ctor.ToObject(e.vm)
	protoVal := ctorObj.Get("prototype")
	if !isInstalled(protoVal) {
		return
	}
	proto := protoVal.ToObject(e.vm)
	if isInstalled(proto.Get("text")) {
		return
	}
	proto.Set("text", e.makeBlobTextFunc())
}

// fillBlob turns obj into a blob over data.
func (e *Env) fillBlob(obj *goja.Object, data []byte, typ string) {
	e.blobs[obj] = data
	obj.Set("size", len(data))
	obj.Set("type", strings.ToLower(typ))
	if !isInstalled(obj.Get("text")) {
		obj.Set("text", e.makeBlobTextFunc())
	}
	if !isInstalled(obj.Get("arrayBuffer")) {
		obj.Set("arrayBuffer", func(call goja.FunctionCall) goja.Value {
			promise, resolve, _ := e.vm.NewPromise()
			buf := e.vm.NewArrayBuffer(data)
			e.sched.enqueue(func() { resolve(buf) })
			return e.vm.ToValue(promise)
		})
	}
}

// newBlob builds a detached blob object, for fetch response bodies.
func (e *Env) newBlob(data []byte, typ string) *goja.Object {
	obj := e.vm.NewObject()
	e.fillBlob(obj, data, typ)
	return obj
}

// makeBlobTextFunc returns the text() implementation: an async read
// through the environment's blob reader that settles exactly once, with
// the decoded string or with the reader's error.
func (e *Env) makeBlobTextFunc() func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := e.vm.NewPromise()

		obj := call.This.ToObject(e.vm)
		data, ok := e.blobs[obj]
		reader := e.blobReader

		e.sched.enqueue(func() {
			if !ok {
				reject(e.vm.NewTypeError("blob has no backing data"))
				return
			}
			text, err := reader(data)
			if err != nil {
				reject(e.vm.NewGoError(err))
				return
			}
			resolve(e.vm.ToValue(text))
		})

		return e.vm.ToValue(promise)
	}
}

// collectBlobParts flattens the constructor arguments: an array of
// strings, array buffers, or other blobs, plus an options dictionary
// carrying the content type.
func (e *Env) collectBlobParts(call goja.ConstructorCall) ([]byte, string) {
	var data []byte

	if parts := call.Argument(0); isInstalled(parts) {
		arr := parts.ToObject(e.vm)
		length := int(arr.Get("length").ToInteger())
		for i := 0; i < length; i++ {
			item := arr.Get(strconv.Itoa(i))
			if item == nil || goja.IsUndefined(item) || goja.IsNull(item) {
				continue
			}
			if obj, ok := item.(*goja.Object); ok {
				if nested, found := e.blobs[obj]; found {
					data = append(data, nested...)
					continue
				}
			}
			if ab, ok := item.Export().(goja.ArrayBuffer); ok {
				data = append(data, ab.Bytes()...)
				continue
			}
			data = append(data, item.String()...)
		}
	}

	typ := ""
	if opts := call.Argument(1); isInstalled(opts) {
		if tv := opts.ToObject(e.vm).Get("type"); isInstalled(tv) {
			typ = tv.String()
		}
	}

	return data, typ
}
