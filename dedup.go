package bibtidy

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
)

type NodeInfo struct {
	Entry  *Entry
	Parent *Document
}

type DedupMap = map[string][]NodeInfo

// DedupReport lists citation keys that are defined by more than one
// document.
type DedupReport struct {
	DuplicateSetCount int
	DuplicateSet      DedupMap
	EntryCount        int
}

// Duplicates collects the entries of docs by citation key. Within one
// document a key is already unique, so every set with more than one member
// spans several documents.
func Duplicates(docs ...*Document) (*DedupReport, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("nothing to deduplicate")
	}
	dupSet := make(DedupMap)
	count := 0
	for _, d := range docs {
		for _, e := range d.Entries() {
			dupSet[e.Key] = append(dupSet[e.Key], NodeInfo{e, d})
			count++
		}
	}
	dr := &DedupReport{DuplicateSet: dupSet, EntryCount: count}
	for _, nodes := range dupSet {
		if len(nodes) > 1 {
			dr.DuplicateSetCount++
		}
	}
	return dr, nil
}

// Keys returns the duplicated keys in sorted order.
func (dr *DedupReport) Keys() []string {
	var keys []string
	for k, nodes := range dr.DuplicateSet {
		if len(nodes) > 1 {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func (dr *DedupReport) Print(w io.Writer) error {
	if dr == nil || dr.DuplicateSetCount == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%d duplicate keys found in %d entries\n", dr.DuplicateSetCount, dr.EntryCount); err != nil {
		return err
	}
	for _, key := range dr.Keys() {
		nodes := dr.DuplicateSet[key]
		if _, err := fmt.Fprintf(w, "%s\n[%s] has %d occurrences\n", strings.Repeat("*", 60), key, len(nodes)); err != nil {
			return err
		}
		for _, n := range nodes {
			// filename:line, then the entry itself
			if _, err := fmt.Fprintf(w, "%s:%d\n%s\n", n.Parent.Name, n.Entry.Line, n.Entry.BibtexRepr(key)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (dr DedupReport) String() string {
	var b = new(bytes.Buffer)
	if err := dr.Print(b); err != nil {
		b.WriteString("error: " + err.Error())
	}
	return b.String()
}
