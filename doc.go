// Package webenv builds simulated browser environments for tests.
//
// An Env wraps a JavaScript runtime and installs stand-ins for the
// capabilities UI code touches: localStorage and sessionStorage over a
// key-value store, matchMedia, fetch backed by a configurable stub,
// ResizeObserver, a document with mountable markup, Blob and object
// URLs, timers on a virtual clock. Installation only fills gaps; a
// capability the runtime already provides is left untouched.
//
// The usual shape of a test:
//
//	env := webenv.New(t)
//	env.Fetch().Respond("GET", "/api/items", fetchmock.JSON(items))
//	env.MustMount(`<button id="go">Go</button>`)
//	env.MustRun(`document.getElementById("go").click()`)
//
// New registers the per-test reset on t.Cleanup: mounted surfaces are
// unmounted and their listeners released, then every stand-in drops
// its call records and per-test behavior while keeping its creation
// default. The store behind localStorage persists for the whole run.
//
// Everything executes cooperatively on the caller's goroutine: scripts
// run on RunScript, promise callbacks run when the queue is drained
// (RunScript does this, or Flush), and timers fire only when
// AdvanceClock moves the virtual clock.
package webenv
