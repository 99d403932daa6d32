package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "out.arrow")
	require.NoError(t, os.WriteFile(fname, []byte("data1"), 0666))

	err := ReplaceFile(fname, 0644, func(w io.Writer) error {
		_, err := w.Write([]byte("data2"))
		return err
	})
	require.NoError(t, err)
	b, err := os.ReadFile(fname)
	require.NoError(t, err)
	require.Equal(t, "data2", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestReplaceFileAbort(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "out.arrow")
	require.NoError(t, os.WriteFile(fname, []byte("data1"), 0666))

	fakeErr := errors.New("fake error")
	err := ReplaceFile(fname, 0666, func(w io.Writer) error {
		_, err := w.Write([]byte("data2"))
		require.NoError(t, err)
		return fakeErr
	})
	require.ErrorIs(t, err, fakeErr)

	b, err := os.ReadFile(fname)
	require.NoError(t, err)
	require.Equal(t, "data1", string(b))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
