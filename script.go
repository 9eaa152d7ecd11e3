package webenv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// Result carries what a script run produced.
type Result struct {
	Value    interface{}
	Duration time.Duration
}

// RunScript executes JavaScript in the environment under the configured
// timeout, then drains the completion queue so promise callbacks the
// script scheduled observe their results before it returns. Runs are
// serialized; everything executes on the calling goroutine's turn.
func (e *Env) RunScript(ctx context.Context, script string) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	start := time.Now()

	timer := time.NewTimer(e.cfg.Runtime.ScriptTimeout)
	defer timer.Stop()

	// The watcher works on snapshots: the vm and interrupt channel are
	// replaced by Reset, and the fields must not be read concurrently
	// with that.
	vm, done := e.vm, e.interrupt
	go func() {
		select {
		case <-timer.C:
			vm.Interrupt("execution timeout exceeded")
		case <-ctx.Done():
			vm.Interrupt("context cancelled")
		case <-done:
			return
		}
	}()

	val, err := e.vm.RunString(script)

	close(e.interrupt)
	e.interrupt = make(chan struct{})
	e.vm.ClearInterrupt()

	if err != nil {
		return nil, err
	}

	e.sched.flush()

	return &Result{
		Value:    exportValue(val),
		Duration: time.Since(start),
	}, nil
}

// MustRun is RunScript for scripts expected to succeed; failures panic.
func (e *Env) MustRun(script string) *Result {
	res, err := e.RunScript(context.Background(), script)
	if err != nil {
		panic(err)
	}
	return res
}

// Eval runs a script and returns its exported completion value.
func (e *Env) Eval(script string) (interface{}, error) {
	res, err := e.RunScript(context.Background(), script)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// Flush drains queued completion jobs without advancing the clock.
func (e *Env) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.sched.flush()
}

// AdvanceClock moves the virtual clock forward, firing timers that come
// due and the completion jobs they schedule. Real time never drives
// timer callbacks; tests advance explicitly.
func (e *Env) AdvanceClock(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.sched.advance(d)
}

// Await drives the scheduler until the promise settles, advancing the
// virtual clock when only timers remain. Non-promise values come back
// as they are. A rejection, or a promise stuck pending with no work
// queued, is an error.
func (e *Env) Await(v interface{}) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	p, ok := v.(*goja.Promise)
	if !ok {
		return v, nil
	}

	for p.State() == goja.PromiseStatePending {
		if jobs, _ := e.sched.pending(); jobs > 0 {
			e.sched.flush()
			continue
		}
		delay, has := e.sched.nextTimerDelay()
		if !has {
			return nil, errors.New("await: promise pending with no queued work")
		}
		e.sched.advance(delay)
	}

	if p.State() == goja.PromiseStateRejected {
		return nil, fmt.Errorf("await: promise rejected: %s", rejectionMessage(p.Result()))
	}
	return exportValue(p.Result()), nil
}

// AwaitScript runs a script and awaits its completion value.
func (e *Env) AwaitScript(ctx context.Context, script string) (interface{}, error) {
	res, err := e.RunScript(ctx, script)
	if err != nil {
		return nil, err
	}
	return e.Await(res.Value)
}

// exportValue converts a runtime value to a Go value, mapping
// undefined and null to nil.
func exportValue(val goja.Value) interface{} {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	return val.Export()
}

// rejectionMessage renders a rejection reason, preferring the message
// of Error-shaped values.
func rejectionMessage(reason goja.Value) string {
	if reason == nil {
		return "undefined"
	}
	if obj, ok := reason.(*goja.Object); ok {
		if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
			return msg.String()
		}
	}
	return reason.String()
}
