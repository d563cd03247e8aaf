package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type Logger struct {
	Verbose bool
	Debug   bool

	// Out and Err default to os.Stdout and os.Stderr when nil.
	Out io.Writer
	Err io.Writer
}

// New creates a Logger writing to the standard streams
func New(verbose, debug bool) *Logger {
	return &Logger{Verbose: verbose, Debug: debug}
}

// Discard returns a Logger that prints nothing
func Discard() *Logger {
	return &Logger{Out: io.Discard, Err: io.Discard}
}

func (l *Logger) Infof(msg string, args ...any) {
	if l.Verbose || l.Debug {
		l.print(l.stdout(), color.GreenString("[info] "), msg, args...)
	}
}

func (l *Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		l.print(l.stdout(), color.CyanString("[debug] "), msg, args...)
	}
}

func (l *Logger) Warnf(msg string, args ...any) {
	l.print(l.stderr(), color.YellowString("[warn] "), msg, args...)
}

func (l *Logger) Errorf(msg string, args ...any) {
	l.print(l.stderr(), color.RedString("[error] "), msg, args...)
}

func (l *Logger) print(w io.Writer, prefix, msg string, args ...any) {
	fmt.Fprintf(w, prefix+msg+"\n", args...)
}

func (l *Logger) stdout() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return os.Stdout
}

func (l *Logger) stderr() io.Writer {
	if l.Err != nil {
		return l.Err
	}
	return os.Stderr
}
