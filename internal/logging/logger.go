package logging

import (
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger wraps zap.Logger with convenience constructors.
type Logger struct {
	*zap.Logger
}

// New creates a logger at the named level ("debug", "info", "warn",
// "error"). Development mode switches to a colored console encoder and
// keeps stacktraces on.
func New(level string, development bool) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var enc zapcore.Encoder
	if development {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)

	opts := []zap.Option{zap.AddCaller()}
	if development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	return &Logger{Logger: zap.New(core, opts...)}, nil
}

// NewDefault creates the library default logger: JSON to stderr at warn,
// so instrumented test runs stay quiet unless something is wrong.
func NewDefault() *Logger {
	logger, err := New("warn", false)
	if err != nil {
		return NewNop()
	}
	return logger
}

// NewDevelopment creates a debug-level console logger.
func NewDevelopment() *Logger {
	logger, err := New("debug", true)
	if err != nil {
		return NewNop()
	}
	return logger
}

// NewTest creates a debug-level logger that writes through tb.Logf, so
// output interleaves with the owning test and only prints on failure or -v.
func NewTest(tb testing.TB) *Logger {
	return &Logger{Logger: zaptest.NewLogger(tb, zaptest.Level(zapcore.DebugLevel))}
}

// NewNop creates a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}
