// Package logger writes bibtidy's messages to stderr. It is safe to use
// from several goroutines; each message is written whole.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	quiet  bool

	warnTag  = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorTag = color.New(color.FgRed, color.Bold).SprintFunc()
)

// SetOutput configures the destination. Use io.Discard to silence logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetQuiet drops info and warning messages. Errors are still written.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// SetColor turns coloured tags on or off.
func SetColor(on bool) {
	color.NoColor = !on
}

func write(skipWhenQuiet bool, prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if quiet && skipWhenQuiet {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	write(true, warnTag("warning:")+" ", format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	write(false, errorTag("error:")+" ", format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	write(true, "", format, args...)
}
