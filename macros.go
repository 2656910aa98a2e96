package bibtidy

import "strings"

// DefaultMacros turns month names into their two digit numbers.
var DefaultMacros = map[string]string{
	"jan": "01",
	"feb": "02",
	"mar": "03",
	"apr": "04",
	"may": "05",
	"jun": "06",
	"jul": "07",
	"aug": "08",
	"sep": "09",
	"oct": "10",
	"nov": "11",
	"dec": "12",
}

// MacroTable maps lower case macro names to their expansion. Each parse owns
// its own table.
type MacroTable struct {
	m map[string]string
}

// NewMacroTable returns a table seeded with a copy of defaults.
func NewMacroTable(defaults map[string]string) *MacroTable {
	t := &MacroTable{m: make(map[string]string, len(defaults))}
	for name, v := range defaults {
		t.m[strings.ToLower(name)] = v
	}
	return t
}

// Lookup finds name case-insensitively.
func (t *MacroTable) Lookup(name string) (string, bool) {
	v, ok := t.m[strings.ToLower(name)]
	return v, ok
}

// Define sets name to value and reports whether name was already defined.
func (t *MacroTable) Define(name, value string) (redefined bool) {
	name = strings.ToLower(name)
	_, redefined = t.m[name]
	t.m[name] = value
	return redefined
}

func (t *MacroTable) Len() int {
	return len(t.m)
}

// Strings keeps the @string definitions of a document in the order they
// first appeared.
type Strings struct {
	names  []string
	values map[string]string
}

func NewStrings() *Strings {
	return &Strings{values: make(map[string]string)}
}

// Set defines name. A redefinition keeps the original position.
func (s *Strings) Set(name, value string) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = value
}

func (s *Strings) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *Strings) Names() []string {
	return s.names
}

func (s *Strings) Len() int {
	return len(s.names)
}
