package bibtidy

// Item is one top-level unit of a bibtex file: a *Comment, *Preamble,
// *StringDef or *Entry.
type Item interface {
	item()
}

// Comment marks an @comment command. Its body is not kept.
type Comment struct{}

// Preamble holds the text of a @preamble command.
type Preamble struct {
	Text string
}

// StringDef is a macro defined with @string.
type StringDef struct {
	Name  string // lower case
	Value string
}

func (*Comment) item()   {}
func (*Preamble) item()  {}
func (*StringDef) item() {}
func (*Entry) item()     {}

// Value is a field value. Macro is set only when the whole value is a single
// macro reference (no concatenation); it holds the macro name as written.
type Value struct {
	Text  string
	Macro string
}

// Plain returns a value that did not come from a macro.
func Plain(text string) Value {
	return Value{Text: text}
}

// MacroValue returns text tagged with the macro it was expanded from.
func MacroValue(name, text string) Value {
	return Value{Text: text, Macro: name}
}

func (v Value) IsMacro() bool {
	return v.Macro != ""
}

func (v Value) String() string {
	return v.Text
}

type Field struct {
	Name  string // lower case
	Value Value
}

// Entry is a bibliographic record.
type Entry struct {
	Type   string // entry type, lower case
	Key    string // citation key as written; may be empty
	Line   int    // line of the @ that starts the entry
	fields []Field
	index  map[string]int
}

// NewEntry returns an empty entry of type typ.
func NewEntry(typ, key string) *Entry {
	return &Entry{Type: typ, Key: key}
}

// Add appends a field unless one with the same name already exists, in which
// case it reports false and leaves the entry untouched.
func (e *Entry) Add(name string, v Value) bool {
	if e.index == nil {
		e.index = make(map[string]int)
	}
	if _, ok := e.index[name]; ok {
		return false
	}
	e.index[name] = len(e.fields)
	e.fields = append(e.fields, Field{Name: name, Value: v})
	return true
}

// Field looks up a field by its lower case name.
func (e *Entry) Field(name string) (Value, bool) {
	i, ok := e.index[name]
	if !ok {
		return Value{}, false
	}
	return e.fields[i].Value, true
}

// Get returns the text of field name, or "" if it is missing.
func (e *Entry) Get(name string) string {
	v, _ := e.Field(name)
	return v.Text
}

// Fields returns the fields in parse order.
func (e *Entry) Fields() []Field {
	return e.fields
}

func (e *Entry) Len() int {
	return len(e.fields)
}

// Document is the parsed content of one bibtex file.
type Document struct {
	Name      string
	Preambles []string
	Strings   *Strings
	Warnings  []Warning
	entries   map[string]*Entry
	keys      []string
}

// NewDocument returns an empty document named name.
func NewDocument(name string) *Document {
	return &Document{
		Name:    name,
		Strings: NewStrings(),
		entries: make(map[string]*Entry),
	}
}

// Put stores e under its key. A key that is already present keeps its
// position and gets the new entry; Put then reports true.
func (d *Document) Put(e *Entry) (replaced bool) {
	if _, ok := d.entries[e.Key]; ok {
		replaced = true
	} else {
		d.keys = append(d.keys, e.Key)
	}
	d.entries[e.Key] = e
	return replaced
}

func (d *Document) Entry(key string) (*Entry, bool) {
	e, ok := d.entries[key]
	return e, ok
}

// Keys returns the entry keys in the document's current order.
func (d *Document) Keys() []string {
	return d.keys
}

// Entries returns the entries in the document's current order.
func (d *Document) Entries() []*Entry {
	out := make([]*Entry, 0, len(d.keys))
	for _, k := range d.keys {
		out = append(out, d.entries[k])
	}
	return out
}

func (d *Document) Len() int {
	return len(d.keys)
}

// withKeys returns a shallow copy of d that lists its entries in keys order.
func (d *Document) withKeys(keys []string) *Document {
	c := *d
	c.keys = keys
	return &c
}
