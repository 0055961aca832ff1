// Package logx is a small leveled logger for the CLI tooling: four
// ANSI-colored levels, with debug output suppressed unless a Debug
// flag is set.
package logx

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// Level orders log lines by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger writes leveled, timestamped, optionally-colored lines to an
// io.Writer. The zero value is not usable; use New.
type Logger struct {
	out     io.Writer
	debug   bool
	color   bool
}

// New returns a Logger writing to out. debug gates Debug-level
// output. Color is auto-detected via golang.org/x/term.IsTerminal so
// piped replay output (a file, or the TUI's own screen buffer) stays
// clean.
func New(out io.Writer, debug bool) *Logger {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Logger{out: out, debug: debug, color: color}
}

func (l *Logger) line(level Level, tag, code, msg string) {
	ts := time.Now().Format("15:04:05")
	if l.color {
		fmt.Fprintf(l.out, "%s%s [%s] %s\x1b[0m\n", code, ts, tag, msg)
	} else {
		fmt.Fprintf(l.out, "%s [%s] %s\n", ts, tag, msg)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.line(LevelDebug, "DEBUG", "\x1b[36m", fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.line(LevelInfo, "INFO", "\x1b[32m", fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.line(LevelWarn, "WARNING", "\x1b[33m", fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.line(LevelError, "ERROR", "\x1b[31m", fmt.Sprintf(format, args...))
}
