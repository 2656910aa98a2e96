// Package inplace rewrites files so that either the old or the new content
// is in place, never a half written file.
package inplace

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultBackupSuffix names the copy of the original file left next to it.
const DefaultBackupSuffix = ".untidy"

// TempName returns the name the new content is written to before it
// replaces path: a hidden ".tidy" file in the same directory.
func TempName(path string) string {
	dir, name := filepath.Split(path)
	return filepath.Join(dir, "."+strings.TrimLeft(name, ".")+".tidy")
}

// Replace puts data in place of the file at path. Nothing is written when
// the file already holds data. Otherwise data goes to TempName(path) with
// permissions perm, the original is renamed to path+backupSuffix, and the
// temporary file is renamed to path; if that last step fails the original
// is renamed back.
func Replace(path string, data []byte, perm os.FileMode, backupSuffix string) (changed bool, err error) {
	if backupSuffix == "" {
		backupSuffix = DefaultBackupSuffix
	}
	old, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if bytes.Equal(old, data) {
		return false, nil
	}
	if perm == 0 {
		if fi, err := os.Stat(path); err == nil {
			perm = fi.Mode().Perm()
		} else {
			perm = 0o644
		}
	}

	tmp := TempName(path)
	if err := writeFile(tmp, data, perm); err != nil {
		os.Remove(tmp)
		return false, fmt.Errorf("unable to write %s: %w", tmp, err)
	}

	bak := path + backupSuffix
	if err := os.Remove(bak); err != nil && !errors.Is(err, os.ErrNotExist) {
		os.Remove(tmp)
		return false, err
	}
	if err := os.Rename(path, bak); err != nil {
		os.Remove(tmp)
		return false, err
	}
	if err := os.Rename(tmp, path); err != nil {
		if rerr := os.Rename(bak, path); rerr != nil {
			err = errors.Join(err, fmt.Errorf("original left at %s: %w", bak, rerr))
		}
		os.Remove(tmp)
		return false, err
	}
	return true, nil
}

func writeFile(name string, data []byte, perm os.FileMode) (err error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		ferr := f.Close()
		if err == nil {
			err = ferr
		}
	}()
	// the umask may have narrowed perm
	_ = f.Chmod(perm)
	_, err = f.Write(data)
	return err
}
