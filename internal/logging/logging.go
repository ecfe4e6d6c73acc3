// SPDX-License-Identifier: MIT

// Package logging provides the two-level leveled logger used throughout
// the pipeline, mirroring the original tool's log_debug/log_normal macros
// gated on a global verbosity level — expressed here as a small struct
// instead of a package global so tests can construct a silent logger.
package logging

import (
	"fmt"
	"io"
	"os"
)

type Level int

const (
	Normal Level = iota
	Debug
)

// Logger writes leveled diagnostics to an underlying writer, defaulting to
// stdout, matching the original tool's choice to treat logging as ordinary
// program output rather than routing it to stderr.
type Logger struct {
	Level Level
	Out   io.Writer
}

func New(level Level) *Logger {
	return &Logger{Level: level, Out: os.Stdout}
}

// Normalf writes an informational message unconditionally: "no changes
// found", "function foo has changed", and similar warning/informational
// traces per §7 are never suppressed.
func (l *Logger) Normalf(format string, args ...interface{}) {
	fmt.Fprintf(l.Out, format+"\n", args...)
}

// Debugf writes a trace message only when the logger's level is Debug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.Level < Debug {
		return
	}
	fmt.Fprintf(l.Out, format+"\n", args...)
}
