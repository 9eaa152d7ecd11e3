package webenv

import (
	"fmt"
	"testing"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/iaalcantara17/webenv/dom"
)

// Reset returns the environment to its just-installed state between
// test cases: mounted surfaces come down and their listeners are
// released first, then every stand-in drops its call records and
// per-test behavior (creation defaults stay), then the runtime is
// rebuilt with all capabilities reinstalled. Stand-in identities
// survive the rebuild, so references tests hold onto stay valid.
//
// The store behind localStorage is deliberately left alone; it lives
// for the whole run. The per-environment sessionStorage store survives
// too, ending only with Close.
func (e *Env) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	e.stateMu.Lock()
	mounts := append([]*Mount(nil), e.mounts...)
	e.stateMu.Unlock()
	for i := len(mounts) - 1; i >= 0; i-- {
		mounts[i].Unmount()
	}
	e.doc.Root.DetachListeners()

	e.registry.ResetAll()

	e.vm = goja.New()
	e.vm.SetMaxCallStackSize(1024)
	e.doc = dom.NewDocument()
	e.sched.clear()
	e.blobs = make(map[*goja.Object][]byte)
	e.elems = make(map[*goja.Object]*dom.Element)
	e.proxies = make(map[*dom.Element]*goja.Object)
	e.clipboard = ""
	e.docTitle = ""
	e.clearConsole()

	e.stateMu.Lock()
	e.mounts = nil
	// Stubbed globals belong to the old runtime; the rebuild restores
	// every global by construction.
	e.restores = nil
	e.stateMu.Unlock()

	if err := e.Install(); err != nil {
		return fmt.Errorf("reinstall capabilities: %w", err)
	}

	e.log.Debug("environment reset", zap.String("env_id", e.id.String()))
	return nil
}

// BindReset registers Reset on the test's cleanup list. Useful when one
// environment serves a suite of subtests:
//
//	env := webenv.New(t)
//	t.Run("case", func(t *testing.T) {
//		env.BindReset(t)
//		...
//	})
func (e *Env) BindReset(t testing.TB) {
	t.Cleanup(func() {
		if err := e.Reset(); err != nil {
			t.Errorf("reset environment: %v", err)
		}
	})
}
