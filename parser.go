package bibtidy

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Options control a parse.
type Options struct {
	// Macros seeds the macro table, e.g. with DefaultMacros. It is copied.
	Macros map[string]string
	// WarnMacros reports references to undefined macros.
	WarnMacros bool
	// NoWarnings drops every warning.
	NoWarnings bool
	// Warn, if set, receives each warning as soon as it is found. Warnings
	// are also collected in Document.Warnings.
	Warn func(Warning)
}

// Parse parses bibtex provided as io.Reader or, if r is nil, the file
// fileName. fileName names the source in diagnostics. Line endings are
// normalized to \n first.
func Parse(r io.Reader, fileName string, opts Options) (*Document, error) {
	if r == nil {
		if fileName == "" {
			return nil, fmt.Errorf("nothing to parse")
		}
		f, err := os.Open(fileName)
		if err != nil {
			return nil, fmt.Errorf("can't process file %s: %w", fileName, err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("can't read %s: %w", fileName, err)
	}
	return ParseString(string(NormalizeNewlines(b)), fileName, opts)
}

// ParseString parses data. On a *SyntaxError no document is returned.
// Unlike Parse it does not touch line endings: a \r is not white space.
func ParseString(data, name string, opts Options) (*Document, error) {
	p := NewParser(data, name, opts)
	doc := NewDocument(name)
	for {
		item, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch it := item.(type) {
		case *Comment:
		case *Preamble:
			doc.Preambles = append(doc.Preambles, it.Text)
		case *StringDef:
			doc.Strings.Set(it.Name, it.Value)
		case *Entry:
			if doc.Put(it) {
				p.warn(p.s.off, p.start, fmt.Sprintf("repeated entry `%s'", it.Key))
			}
		}
	}
	doc.Warnings = p.warnings
	return doc, nil
}

// Parser reads the items of one bibtex input in order. It follows the
// database reading rules of bibtex itself.
type Parser struct {
	s        *scanner
	macros   *MacroTable
	opts     Options
	warnings []Warning
	start    int // offset where the current item's scan began
}

func NewParser(data, name string, opts Options) *Parser {
	return &Parser{
		s:      newScanner(name, data),
		macros: NewMacroTable(opts.Macros),
		opts:   opts,
	}
}

// Warnings returns the warnings found so far.
func (p *Parser) Warnings() []Warning {
	return p.warnings
}

func (p *Parser) warn(off, good int, msg string) {
	if p.opts.NoWarnings {
		return
	}
	w := p.s.warningAt(off, good, msg)
	p.warnings = append(p.warnings, w)
	if p.opts.Warn != nil {
		p.opts.Warn(w)
	}
}

// Next returns the next item, or io.EOF when there are none left. Text
// between items is skipped.
func (p *Parser) Next() (Item, error) {
	s := p.s
	if s.atEOF() {
		return nil, io.EOF
	}
	p.start = s.off
	s.span("@")
	good := s.off
	if !s.accept(AT, false) {
		return nil, io.EOF
	}

	typ, err := p.identifier(-1)
	if err != nil {
		return nil, err
	}
	if typ == "comment" {
		// bibtex treats whatever follows @comment like any other text
		// between entries
		return &Comment{}, nil
	}

	var right byte
	switch {
	case s.accept(LBRACE, true):
		right = RBRACE
	case s.accept(LPAREN, true):
		right = RPAREN
	default:
		return nil, s.errorAt(s.off+1, good, "expected { or ( after entry type")
	}

	switch typ {
	case "preamble":
		v, err := p.fieldValue(good)
		if err != nil {
			return nil, err
		}
		if err := p.expect(right, "expected "+string(right), good); err != nil {
			return nil, err
		}
		return &Preamble{Text: v.Text}, nil
	case "string":
		return p.stringDef(right, good)
	}
	return p.entry(typ, right, good)
}

func (p *Parser) stringDef(right byte, good int) (*StringDef, error) {
	name, err := p.identifier(good)
	if err != nil {
		return nil, err
	}
	if err := p.expect(EQUAL, "expected = after string name", good); err != nil {
		return nil, err
	}
	v, err := p.fieldValue(good)
	if err != nil {
		return nil, err
	}
	if err := p.expect(right, "expected "+string(right), good); err != nil {
		return nil, err
	}
	if p.macros.Define(name, v.Text) {
		p.warn(p.s.off, good, fmt.Sprintf("macro `%s' redefined", name))
	}
	return &StringDef{Name: name, Value: v.Text}, nil
}

func (p *Parser) entry(typ string, right byte, good int) (*Entry, error) {
	s := p.s
	// The key runs up to a comma, white space or end of line; with braces
	// also up to }. It may be empty, and with parens it may contain ).
	stop := ", \t\n"
	if right == RBRACE {
		stop = ", \t}\n"
	}
	e := NewEntry(typ, s.span(stop))
	e.Line = lineAt(s.src, good)

	for {
		if s.accept(right, true) {
			break
		}
		if err := p.expect(COMMA, "expected "+string(right)+" or ,", good); err != nil {
			return nil, err
		}
		if s.accept(right, true) {
			break
		}
		if s.atEOF() {
			return nil, s.errorAt(s.off, good, "input ended prematurely")
		}

		fieldStart := s.off
		name, err := p.identifier(good)
		if err != nil {
			return nil, err
		}
		if err := p.expect(EQUAL, "expected = after field name", good); err != nil {
			return nil, err
		}
		v, err := p.fieldValue(good)
		if err != nil {
			return nil, err
		}
		if !e.Add(name, v) {
			p.warn(s.off, fieldStart, fmt.Sprintf("repeated field `%s' in entry `%s'", name, e.Key))
		}
	}
	return e, nil
}

// fieldValue reads pieces joined by #. Only a lone macro reference keeps
// its macro tag.
func (p *Parser) fieldValue(good int) (Value, error) {
	first, err := p.fieldPiece(good)
	if err != nil {
		return Value{}, err
	}
	var b strings.Builder
	b.WriteString(first.Text)
	pieces := 1
	for p.s.accept(CONCAT, true) {
		v, err := p.fieldPiece(good)
		if err != nil {
			return Value{}, err
		}
		b.WriteString(v.Text)
		pieces++
	}
	text := strings.Trim(compressSpace(b.String()), " ")
	if pieces == 1 && first.IsMacro() {
		return MacroValue(first.Macro, text), nil
	}
	return Plain(text), nil
}

func (p *Parser) fieldPiece(good int) (Value, error) {
	s := p.s
	if d, ok := s.digits(); ok {
		return Plain(d), nil
	}
	if s.accept(LBRACE, false) {
		text, err := s.balanced(RBRACE)
		return Plain(text), err
	}
	if s.accept(QUOTE, false) {
		text, err := s.balanced(QUOTE)
		return Plain(text), err
	}
	if name, ok := s.ident(); ok {
		text, found := p.macros.Lookup(name)
		if !found && p.opts.WarnMacros {
			p.warn(s.off, good, fmt.Sprintf("unknown macro `%s'", name))
		}
		return MacroValue(name, text), nil
	}
	return Value{}, s.errorAt(s.off+1, good, "expected string, number, or macro name")
}

// identifier reads a command, field or macro name and folds it to lower
// case. A negative good anchors diagnostics at the current offset.
func (p *Parser) identifier(good int) (string, error) {
	s := p.s
	if good < 0 {
		good = s.off
	}
	id, ok := s.ident()
	if !ok {
		return "", s.errorAt(s.off+1, good, "expected identifier")
	}
	return strings.ToLower(id), nil
}

func (p *Parser) expect(c byte, msg string, good int) error {
	if !p.s.accept(c, true) {
		return p.s.errorAt(p.s.off+1, good, msg)
	}
	return nil
}
