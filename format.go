package bibtidy

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// fieldOrder lists the fields that come first, in this order. Other fields
// follow alphabetically.
var fieldOrder = []string{
	"author",
	"title",
	"journal",
	"keywords",
	"year",
	"month",
	"volume",
	"number",
	"eid",
	"pages",
	"doi",
	"archiveprefix",
	"eprint",
	"primaryclass",
	"adsurl",
	"adsnote",
}

// prettyNames is how some fields are displayed.
var prettyNames = map[string]string{
	"archiveprefix": "archivePrefix",
	"primaryclass":  "primaryClass",
}

func fieldRank(name string) int {
	if i := slices.Index(fieldOrder, name); i >= 0 {
		return i
	}
	return len(fieldOrder)
}

// sortedFields returns the fields of e in canonical order.
func sortedFields(e *Entry) []Field {
	fields := slices.Clone(e.Fields())
	slices.SortStableFunc(fields, func(a, b Field) int {
		if ra, rb := fieldRank(a.Name), fieldRank(b.Name); ra != rb {
			return ra - rb
		}
		return strings.Compare(a.Name, b.Name)
	})
	return fields
}

// formatValue renders a field value the way it is written back.
func formatValue(name string, v Value) string {
	switch {
	case v.IsMacro():
		return v.Macro
	case name == "year" && isDigits(v.Text):
		return v.Text
	case name == "title":
		if strings.HasPrefix(v.Text, "{") && strings.HasSuffix(v.Text, "}") && !quoteAtTop(v.Text) {
			return `"` + v.Text + `"`
		}
		return `"{` + v.Text + `}"`
	}
	return "{" + v.Text + "}"
}

// quoteAtTop reports whether s has a " outside any brace group. Such text
// cannot be written between quotes as it is.
func quoteAtTop(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case LBRACE:
			depth++
		case RBRACE:
			depth--
		case QUOTE:
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// BibtexRepr returns the canonical text of e. key is passed separately so
// that an entry can be written under another key.
func (e *Entry) BibtexRepr(key string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s", strings.ToUpper(e.Type), key)
	if e.Len() == 0 {
		b.WriteString("}")
		return b.String()
	}
	b.WriteString(",\n")
	for _, f := range sortedFields(e) {
		name := f.Name
		if pretty, ok := prettyNames[name]; ok {
			name = pretty
		}
		fmt.Fprintf(&b, "%13s = %s,\n", name, formatValue(f.Name, f.Value))
	}
	b.WriteString("}")
	return b.String()
}

// Lines returns the canonical form of doc, one element per output line.
// Entries appear in the document's current order.
func Lines(doc *Document) []string {
	var lines []string
	if len(doc.Preambles) > 0 {
		for _, p := range doc.Preambles {
			lines = append(lines, `@PREAMBLE{"`+p+`"}`)
		}
		lines = append(lines, "")
	}
	if doc.Strings != nil && doc.Strings.Len() > 0 {
		for _, name := range doc.Strings.Names() {
			v, _ := doc.Strings.Get(name)
			lines = append(lines, fmt.Sprintf(`@STRING{%s = "%s"}`, name, v))
		}
		lines = append(lines, "")
	}
	for _, key := range doc.Keys() {
		e, _ := doc.Entry(key)
		lines = append(lines, e.BibtexRepr(key), "")
	}
	return lines
}

// Format writes the canonical form of doc to w, ending every line with a
// newline.
func Format(w io.Writer, doc *Document) error {
	for _, l := range Lines(doc) {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// FormatString returns the lines of doc joined by newlines.
func FormatString(doc *Document) string {
	return strings.Join(Lines(doc), "\n")
}
