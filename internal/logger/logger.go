// Package logger provides structured logging for the Notedex CLI.
// Output goes to stderr so it never mixes with command output. The default
// level is warn; the --verbose flag lowers it to debug so users can watch
// the indexing and retrieval pipelines work.
package logger

import (
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

var (
	mu  sync.RWMutex
	std = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Level:           charmlog.WarnLevel,
		ReportTimestamp: false,
	})
	verbose bool
)

// SetVerbose enables or disables debug-level logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		std.SetLevel(charmlog.DebugLevel)
	} else {
		std.SetLevel(charmlog.WarnLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// Debug logs a message with key/value pairs at debug level.
func Debug(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	std.Debug(msg, keyvals...)
}

// Info logs a message with key/value pairs at info level.
func Info(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	std.Info(msg, keyvals...)
}

// Warn logs a message with key/value pairs at warn level.
func Warn(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	std.Warn(msg, keyvals...)
}

// Error logs a message with key/value pairs at error level.
func Error(msg string, keyvals ...any) {
	mu.RLock()
	defer mu.RUnlock()
	std.Error(msg, keyvals...)
}
