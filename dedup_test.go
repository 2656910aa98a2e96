package bibtidy

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicates(t *testing.T) {
	a, err := ParseString("@article{shared, title={A}}\n@misc{solo}\n@misc{zz}", "a.bib", Options{})
	require.NoError(t, err)
	b, err := ParseString("\n@book{shared, title={B}}\n@misc{zz}", "b.bib", Options{})
	require.NoError(t, err)

	dr, err := Duplicates(a, b)
	require.NoError(t, err)
	assert.Equal(t, 5, dr.EntryCount)
	assert.Equal(t, 2, dr.DuplicateSetCount)
	assert.Equal(t, []string{"shared", "zz"}, dr.Keys())

	set := dr.DuplicateSet["shared"]
	require.Len(t, set, 2)
	assert.Same(t, a, set[0].Parent)
	assert.Same(t, b, set[1].Parent)
	assert.Equal(t, "book", set[1].Entry.Type)

	var buf bytes.Buffer
	require.NoError(t, dr.Print(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "2 duplicate keys found in 5 entries\n"), out)
	assert.Contains(t, out, strings.Repeat("*", 60)+"\n[shared] has 2 occurrences\n")
	assert.Contains(t, out, "a.bib:1\n@ARTICLE{shared,\n        title = \"{A}\",\n}\n")
	assert.Contains(t, out, "b.bib:2\n@BOOK{shared,")
	assert.Less(t, strings.Index(out, "[shared]"), strings.Index(out, "[zz]"))
	assert.NotContains(t, out, "solo")
	assert.Equal(t, out, dr.String())
}

func TestNoDuplicates(t *testing.T) {
	a, err := ParseString("@misc{x}", "a.bib", Options{})
	require.NoError(t, err)
	dr, err := Duplicates(a)
	require.NoError(t, err)
	assert.Zero(t, dr.DuplicateSetCount)
	assert.Empty(t, dr.Keys())
	assert.Empty(t, dr.String())

	_, err = Duplicates()
	assert.Error(t, err)
}
