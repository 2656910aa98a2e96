package bibtidy

import (
	"bytes"
	"io"
	"os"
	"strings"
)

// compressSpace replaces each run of bibtex white space with one space.
func compressSpace(s string) string {
	if strings.IndexAny(s, "\t\n") < 0 && !strings.Contains(s, "  ") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSpace(c) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteByte(c)
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// complement maps each ASCII letter and digit onto its mirror within its
// class (0<->9, a<->z, A<->Z). Other bytes are kept.
func complement(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case '0' <= c && c <= '9':
			b[i] = '9' - (c - '0')
		case 'a' <= c && c <= 'z':
			b[i] = 'z' - (c - 'a')
		case 'A' <= c && c <= 'Z':
			b[i] = 'Z' - (c - 'A')
		}
	}
	return string(b)
}

// NormalizeNewlines turns \r\n and lone \r line endings into \n, the way
// files read in text mode look.
func NormalizeNewlines(b []byte) []byte {
	if !bytes.Contains(b, []byte{'\r'}) {
		return b
	}
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
}

// SaveWith creates filename and hands it to w.
func SaveWith(filename string, w func(io.Writer) error) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		ferr := f.Close()
		if err == nil {
			err = ferr
		}
	}()
	return w(f)
}
