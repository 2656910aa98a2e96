package bibtidy

import "strings"

const (
	LPAREN byte = '('
	RPAREN byte = ')'
	LBRACE byte = '{'
	RBRACE byte = '}'
	COMMA  byte = ','
	EQUAL  byte = '='
	QUOTE  byte = '"'
	CONCAT byte = '#'
	AT     byte = '@'
)

// scanner is a cursor over the raw input. Every successful match moves the
// cursor past the token and the white space that follows it; a failed match
// leaves the cursor where it was.
type scanner struct {
	name string // source name for diagnostics
	src  string
	off  int
}

func newScanner(name, src string) *scanner {
	return &scanner{name: name, src: stripTrailingSpace(src)}
}

func (s *scanner) atEOF() bool {
	return s.off >= len(s.src)
}

// isSpace reports bibtex white space. Other control characters, \r
// included, are not white space.
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// isIdentByte reports whether c may appear in an identifier: printable
// ASCII other than space and "#%'(),={}. The first byte may not be a digit.
func isIdentByte(c byte, first bool) bool {
	if c <= ' ' || c > 0x7f {
		return false
	}
	if first && isDigit(c) {
		return false
	}
	return strings.IndexByte("\"#%'(),={}", c) < 0
}

func (s *scanner) skipSpace() {
	for s.off < len(s.src) && isSpace(s.src[s.off]) {
		s.off++
	}
}

// accept consumes c if it is next.
func (s *scanner) accept(c byte, skip bool) bool {
	if s.off >= len(s.src) || s.src[s.off] != c {
		return false
	}
	s.off++
	if skip {
		s.skipSpace()
	}
	return true
}

func (s *scanner) digits() (string, bool) {
	end := s.off
	for end < len(s.src) && isDigit(s.src[end]) {
		end++
	}
	if end == s.off {
		return "", false
	}
	tok := s.src[s.off:end]
	s.off = end
	s.skipSpace()
	return tok, true
}

func (s *scanner) ident() (string, bool) {
	end := s.off
	for end < len(s.src) && isIdentByte(s.src[end], end == s.off) {
		end++
	}
	if end == s.off {
		return "", false
	}
	tok := s.src[s.off:end]
	s.off = end
	s.skipSpace()
	return tok, true
}

// span consumes the longest, possibly empty, run of bytes not in stop.
func (s *scanner) span(stop string) string {
	end := s.off
	for end < len(s.src) && strings.IndexByte(stop, s.src[end]) < 0 {
		end++
	}
	tok := s.src[s.off:end]
	s.off = end
	s.skipSpace()
	return tok
}

// balanced reads up to term at brace depth zero. The cursor must be just
// past the opening delimiter. The terminator is consumed but not returned.
func (s *scanner) balanced(term byte) (string, error) {
	start, depth := s.off, 0
	for off := s.off; off < len(s.src); off++ {
		c := s.src[off]
		switch {
		case depth == 0 && c == term:
			s.off = off + 1
			s.skipSpace()
			return s.src[start:off], nil
		case c == LBRACE:
			depth++
		case c == RBRACE:
			depth--
			if depth < 0 {
				return "", s.errorAt(off, start, "unexpected }")
			}
		}
	}
	return "", s.errorAt(len(s.src), start, "unterminated string")
}

// errorAt builds a fatal error detected at off. good is the last offset
// known to be fine, or -1.
func (s *scanner) errorAt(off, good int, msg string) *SyntaxError {
	return &SyntaxError{
		Source:  s.name,
		Line:    lineAt(s.src, off),
		Offset:  off,
		Msg:     msg,
		Context: snippet(s.src, good, off),
	}
}

// warningAt is errorAt for non-fatal problems. The line reported is that of
// the anchor, which is where the offending text starts.
func (s *scanner) warningAt(off, good int, msg string) Warning {
	line := off
	if good >= 0 {
		line = good
	}
	return Warning{
		Source:  s.name,
		Line:    lineAt(s.src, line),
		Offset:  off,
		Msg:     msg,
		Context: snippet(s.src, good, off),
	}
}

// stripTrailingSpace removes spaces and tabs at the end of every line, as
// bibtex does when it reads its input.
func stripTrailingSpace(src string) string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}
