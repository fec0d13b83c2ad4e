package logging

import (
	"fmt"
	"io"
	"os"
)

// debugOutput is replaced in tests
var debugOutput io.Writer = os.Stderr

// DebugEnabled returns true if debug mode is enabled via the ZF_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("ZF_DEBUG") != ""
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...any) {
	if DebugEnabled() {
		fmt.Fprintf(debugOutput, format, args...)
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...any) {
	if DebugEnabled() {
		fmt.Fprintln(debugOutput, args...)
	}
}
