// Package fileutil provides scoped file-access helpers for the chordforge
// codec: a handle opened here is released on every exit path (success,
// error, or panic-like abort), per spec.md §5.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadAll opens path, reads its entire contents, and closes the handle on
// every exit path before returning.
func ReadAll(path string) (data []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// WriteAtomic writes data to path by writing to a sibling temp file and
// renaming it into place, so a crash mid-write never leaves a truncated
// file at path. The temp file is removed on any error path before it would
// be renamed.
func WriteAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, werr := tmp.Write(data); werr != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, werr)
	}
	if cerr := tmp.Close(); cerr != nil {
		return fmt.Errorf("close temp file for %s: %w", path, cerr)
	}
	if rerr := os.Rename(tmpName, path); rerr != nil {
		return fmt.Errorf("rename into %s: %w", path, rerr)
	}
	return nil
}
