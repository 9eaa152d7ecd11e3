package webenv

import (
	"time"

	"github.com/dop251/goja"
)

// ConsoleEntry is one captured console call.
type ConsoleEntry struct {
	Level   string
	Message string
	Time    time.Time
}

// ConsoleLog returns the console output captured since the last reset.
func (e *Env) ConsoleLog() []ConsoleEntry {
	e.consoleMu.Lock()
	defer e.consoleMu.Unlock()

	entries := make([]ConsoleEntry, len(e.console))
	copy(entries, e.console)
	return entries
}

func (e *Env) clearConsole() {
	e.consoleMu.Lock()
	defer e.consoleMu.Unlock()
	e.console = nil
}

// installConsole wires a capturing console object into the runtime.
func (e *Env) installConsole() {
	if isInstalled(e.vm.Get("console")) {
		return
	}

	console := e.vm.NewObject()
	console.Set("log", e.makeConsoleFunc("log"))
	console.Set("warn", e.makeConsoleFunc("warn"))
	console.Set("error", e.makeConsoleFunc("error"))
	console.Set("info", e.makeConsoleFunc("info"))
	console.Set("debug", e.makeConsoleFunc("debug"))
	e.vm.Set("console", console)
}

// makeConsoleFunc creates a console function that records the entry and
// forwards it to the logger.
func (e *Env) makeConsoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		var msg string
		for i, arg := range call.Arguments {
			if i > 0 {
				msg += " "
			}
			msg += arg.String()
		}

		e.consoleMu.Lock()
		if max := e.cfg.Runtime.MaxConsole; max > 0 && len(e.console) >= max {
			e.console = e.console[1:]
		}
		e.console = append(e.console, ConsoleEntry{
			Level:   level,
			Message: msg,
			Time:    time.Now(),
		})
		e.consoleMu.Unlock()

		switch level {
		case "error":
			e.log.Error("console: " + msg)
		case "warn":
			e.log.Warn("console: " + msg)
		default:
			e.log.Debug("console: " + msg)
		}

		return goja.Undefined()
	}
}
