// Package tlog provides a tiny leveled logger for einops plan tracing.
//
// It mirrors the shape of github.com/hyperifyio/gnd's pkg/log: a package
// level Level, numeric levels, and a single Printf entry point. Kernels
// never log; pkg/einops is the only caller, tracing each operation's
// plan step count and output shape at Debug level.
package tlog

import (
	"fmt"
	"os"
)

// Log levels, most to least severe.
const (
	Error = iota
	Warn
	Info
	Debug
)

// Level is the current log threshold. Messages at or below Level are
// printed. Defaults to Error so library use is silent unless raised.
var Level = Error

func levelToString(level int) string {
	switch level {
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	case Info:
		return "INFO"
	case Debug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Printf logs a message at the given level if Level permits it.
func Printf(level int, format string, args ...interface{}) {
	if level <= Level {
		fmt.Fprintf(os.Stderr, "[%s]: %s\n", levelToString(level), fmt.Sprintf(format, args...))
	}
}

// DebugLogf is a convenience wrapper for Printf(Debug, ...).
func DebugLogf(format string, args ...interface{}) {
	Printf(Debug, format, args...)
}
