// Package outputflags registers the flags that select where and how a command
// writes an Arrow IPC stream.
package outputflags

import (
	"errors"
	"flag"
	"io"
	"os"

	"github.com/brimdata/geovec/arrowio"
	"github.com/brimdata/geovec/pkg/fs"
	"github.com/brimdata/geovec/pkg/terminal"
)

type Flags struct {
	arrowio.WriterOpts
	outputFile  string
	forceBinary bool
}

func (f *Flags) Options() arrowio.WriterOpts {
	return f.WriterOpts
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.outputFile, "o", "", "write data to output file")
	fs.Func("compress", "compress record batches [none,lz4,zstd]", func(s string) error {
		return f.Compression.UnmarshalText([]byte(s))
	})
	fs.BoolVar(&f.forceBinary, "B", false, "allow binary Arrow output to be sent to a terminal")
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	if f.outputFile == "-" {
		f.outputFile = ""
	}
	if f.outputFile == "" && !f.forceBinary && terminal.IsTerminalFile(os.Stdout) {
		return errors.New("writing binary Arrow output to a terminal requires -B or -o")
	}
	return nil
}

func (f *Flags) FileName() string {
	return f.outputFile
}

// Write calls fn with a writer on the output.  An output file is replaced
// atomically and left unmodified if fn fails.
func (f *Flags) Write(opts arrowio.WriterOpts, fn func(*arrowio.Writer) error) error {
	if f.outputFile == "" {
		return write(os.Stdout, opts, fn)
	}
	return fs.ReplaceFile(f.outputFile, 0666, func(w io.Writer) error {
		return write(w, opts, fn)
	})
}

func write(w io.Writer, opts arrowio.WriterOpts, fn func(*arrowio.Writer) error) error {
	writer := arrowio.NewWriter(nopCloser{w}, opts)
	if err := fn(writer); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
