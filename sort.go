package bibtidy

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type SortOrder string

const (
	// ByDate puts the newest entries first: year, then month, descending,
	// then key ascending.
	ByDate SortOrder = "date"
	// ByType groups entries by type, each group in ByDate order.
	ByType SortOrder = "type"
	// Unsorted keeps the parse order.
	Unsorted SortOrder = "none"
)

// Missing stands in for an absent year or month.
const Missing = "0"

// ParseSortOrder accepts "date", "type" or "none"; "" means ByDate.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(s)); o {
	case "":
		return ByDate, nil
	case ByDate, ByType, Unsorted:
		return o, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// dateKey is compared as a whole, and sorted in descending order. The citation key is
// stored complemented so that it comes out ascending.
type dateKey [3]string

func dateKeyOf(e *Entry, key string) dateKey {
	year, month := e.Get("year"), e.Get("month")
	if _, ok := e.Field("year"); !ok {
		year = Missing
	}
	if _, ok := e.Field("month"); !ok {
		month = Missing
	}
	return dateKey{year, month, complement(key)}
}

func (k dateKey) compare(o dateKey) int {
	for i := range k {
		if c := cmp.Compare(k[i], o[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Sort returns a document listing the entries of doc in the given order.
// doc itself and its entries are not changed.
func Sort(doc *Document, order SortOrder) (*Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("nothing to sort")
	}
	keys := slices.Clone(doc.Keys())
	switch order {
	case Unsorted:
		return doc.withKeys(keys), nil
	case ByDate, "":
		slices.SortStableFunc(keys, func(a, b string) int {
			// descending
			return dateKeyOf(doc.entries[b], b).compare(dateKeyOf(doc.entries[a], a))
		})
	case ByType:
		slices.SortStableFunc(keys, func(a, b string) int {
			ea, eb := doc.entries[a], doc.entries[b]
			return cmp.Or(
				cmp.Compare(ea.Type, eb.Type),
				dateKeyOf(eb, b).compare(dateKeyOf(ea, a)),
			)
		})
	default:
		return nil, fmt.Errorf("unknown sort order %q", order)
	}
	return doc.withKeys(keys), nil
}
