// Package fs provides file system helpers for writing command output.
package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

var errAborted = errors.New("replacer aborted")

// Replacer is an io.WriteCloser that atomically replaces the content of a
// file.  Writes go to a temporary file in the same directory which Close
// renames over the target.  Abort removes the temporary file and leaves the
// target untouched.
type Replacer struct {
	f        *os.File
	err      error
	filename string
	perm     os.FileMode
}

func NewFileReplacer(filename string, perm os.FileMode) (*Replacer, error) {
	filename, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(filename), ".tmp-"+filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	return &Replacer{f: f, filename: filename, perm: perm}, nil
}

func (r *Replacer) Write(b []byte) (int, error) {
	n, err := r.f.Write(b)
	if err != nil && r.err == nil {
		r.err = err
	}
	return n, err
}

func (r *Replacer) Abort() {
	if r.err == nil {
		r.err = errAborted
	}
	r.close()
}

func (r *Replacer) Close() error {
	return r.close()
}

func (r *Replacer) close() error {
	err := r.f.Close()
	if err == nil {
		err = os.Chmod(r.f.Name(), r.perm)
	}
	if err == nil {
		err = r.err
	}
	if err == nil {
		err = os.Rename(r.f.Name(), r.filename)
	}
	if err != nil {
		os.Remove(r.f.Name())
	}
	return err
}

// ReplaceFile calls fn with a writer on a replacement for the file name and
// installs the replacement only if fn succeeds.
func ReplaceFile(name string, perm os.FileMode, fn func(w io.Writer) error) error {
	r, err := NewFileReplacer(name, perm)
	if err != nil {
		return err
	}
	if err := fn(r); err != nil {
		r.Abort()
		return err
	}
	return r.Close()
}
