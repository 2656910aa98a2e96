package bibtidy

import (
	"fmt"
	"strings"
)

// contextWidth is how many bytes of input a diagnostic shows when it has no
// anchor of its own.
const contextWidth = 10

// SyntaxError is a fatal parse error. The whole input is rejected.
type SyntaxError struct {
	Source  string
	Line    int
	Offset  int // where the problem was detected
	Msg     string
	Context string // input text around Offset
}

func (e *SyntaxError) Error() string {
	return locate(e.Source, e.Line) + withContext(e.Msg, e.Context)
}

// Warning is a non-fatal problem found while parsing. It is self-contained
// so it can be reported from any goroutine.
type Warning struct {
	Source  string
	Line    int
	Offset  int
	Msg     string
	Context string
}

func (w Warning) String() string {
	return locate(w.Source, w.Line) + withContext(w.Msg, w.Context)
}

func locate(source string, line int) string {
	if source == "" {
		return fmt.Sprintf("line %d: ", line)
	}
	return fmt.Sprintf("%s:%d: ", source, line)
}

func withContext(msg, ctx string) string {
	if ctx == "" {
		return msg
	}
	return msg + ": " + ctx
}

// snippet returns the input between start and stop. A negative start means
// no anchor: up to contextWidth bytes before stop, not crossing a line
// start. An empty window is widened forward up to the end of the line.
func snippet(data string, start, stop int) string {
	stop = min(max(stop, 0), len(data))
	if start > stop {
		start = stop
	}
	if start < 0 {
		start = stop
		for start > 0 && stop-start < contextWidth {
			start--
			if data[start] == '\n' {
				start++
				break
			}
		}
	}
	if start == stop {
		for stop < len(data) && stop-start < contextWidth {
			stop++
			if stop < len(data) && data[stop] == '\n' {
				break
			}
		}
	}
	return data[start:stop]
}

// lineAt returns the 1-based line number of offset off.
func lineAt(data string, off int) int {
	off = min(max(off, 0), len(data))
	return strings.Count(data[:off], "\n") + 1
}
