// Package input turns command line arguments into the bibtex inputs to
// process.
package input

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Stdin is the argument that stands for standard input.
const Stdin = "-"

// Source is one input: a file or standard input. Err is set when the
// argument could not be resolved; such a source is reported and skipped
// without holding up the others.
type Source struct {
	Name string
	Perm os.FileMode // zero for stdin
	Err  error
}

func (s Source) IsStdin() bool {
	return s.Name == Stdin
}

// Read returns the full content of the source.
func (s Source) Read(stdin io.Reader) ([]byte, error) {
	if s.IsStdin() {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(s.Name)
}

// Sources expands args into inputs, in argument order. No arguments means
// stdin. Arguments with glob characters are expanded, ** included. A
// missing file, a directory or a glob that matches nothing yields a source
// carrying the error. Repeated paths are dropped.
func Sources(args []string) []Source {
	if len(args) == 0 {
		return []Source{{Name: Stdin}}
	}
	var out []Source
	seen := make(map[string]bool)
	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		if name == Stdin {
			out = append(out, Source{Name: Stdin})
			return
		}
		fi, err := os.Stat(name)
		switch {
		case err != nil:
			out = append(out, Source{Name: name, Err: fmt.Errorf("unable to open %q: %w", name, err)})
		case fi.IsDir():
			out = append(out, Source{Name: name, Err: fmt.Errorf("%q is a directory, not a file", name)})
		default:
			out = append(out, Source{Name: name, Perm: fi.Mode().Perm()})
		}
	}
	for _, a := range args {
		if !containsGlob(a) {
			add(a)
			continue
		}
		matches, err := doublestar.FilepathGlob(a, doublestar.WithFilesOnly())
		if err != nil {
			out = append(out, Source{Name: a, Err: fmt.Errorf("bad pattern %q: %w", a, err)})
			continue
		}
		if len(matches) == 0 {
			out = append(out, Source{Name: a, Err: fmt.Errorf("no files match %q", a)})
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
