package arrowio

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v11/arrow"
	arrowarray "github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/ipc"
	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/array"
	"github.com/brimdata/geovec/buffer"
	"github.com/brimdata/geovec/chunked"
	"go.uber.org/multierr"
)

// Compression names an IPC body compression codec.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionLZ4  Compression = "lz4"
	CompressionZstd Compression = "zstd"
)

// UnmarshalText lets Compression be decoded from YAML and flags.
func (c *Compression) UnmarshalText(text []byte) error {
	switch s := Compression(text); s {
	case CompressionNone, "none":
		*c = CompressionNone
	case CompressionLZ4, CompressionZstd:
		*c = s
	default:
		return fmt.Errorf("unknown compression %q", text)
	}
	return nil
}

func (c Compression) String() string {
	if c == CompressionNone {
		return "none"
	}
	return string(c)
}

type WriterOpts struct {
	Compression Compression
}

// Writer writes geometry arrays to an Arrow IPC stream with one record batch
// per array and a single column named "geometry".  The schema is taken from
// the first array written and every later array must match its type,
// dimension and metadata.
type Writer struct {
	w      io.WriteCloser
	opts   WriterOpts
	writer *ipc.Writer
	schema *arrow.Schema
	typ    geovec.Type
	dim    geovec.Dimension
	meta   *geovec.Metadata
}

func NewWriter(w io.WriteCloser, opts WriterOpts) *Writer {
	return &Writer{w: w, opts: opts}
}

func (w *Writer) Write(a array.Array) error {
	col, err := w.column(a)
	if err != nil {
		return err
	}
	defer col.Release()
	rec := arrowarray.NewRecord(w.schema, []arrow.Array{col}, int64(a.Len()))
	defer rec.Release()
	return w.writer.Write(rec)
}

// column converts a and checks it against the stream schema, which is
// created from a if nothing has been written yet.
func (w *Writer) column(a array.Array) (arrow.Array, error) {
	if w.writer != nil {
		switch {
		case a.Type() != w.typ:
			return nil, fmt.Errorf("%w: writing %s to %s stream", geovec.ErrChunkVariantMismatch, a.Type(), w.typ)
		case a.Dimension() != w.dim:
			return nil, fmt.Errorf("%w: writing %s to %s stream", geovec.ErrChunkDimensionMismatch, a.Dimension(), w.dim)
		case !a.Metadata().Equal(w.meta):
			return nil, fmt.Errorf("%w: writing to stream", geovec.ErrChunkMetadataMismatch)
		}
	}
	col, field, err := ToArrow(a)
	if err != nil {
		return nil, err
	}
	if w.writer == nil {
		w.typ, w.dim, w.meta = a.Type(), a.Dimension(), a.Metadata()
		w.schema = arrow.NewSchema([]arrow.Field{field}, nil)
		ipcOpts := []ipc.Option{ipc.WithSchema(w.schema)}
		switch w.opts.Compression {
		case CompressionLZ4:
			ipcOpts = append(ipcOpts, ipc.WithLZ4())
		case CompressionZstd:
			ipcOpts = append(ipcOpts, ipc.WithZstd())
		}
		w.writer = ipc.NewWriter(w.w, ipcOpts...)
	}
	return col, nil
}

// WriteChunked writes every chunk of c as its own record batch.  Chunks are
// stamped with the array-level metadata of c so all batches share a schema.
// An empty but typed c still fixes the schema, so the stream is written
// with no batches.
func (w *Writer) WriteChunked(c *chunked.Array) error {
	if c.NumChunks() == 0 {
		if c.Type() == geovec.Unknown {
			return nil
		}
		a, err := emptyArray(c.Type(), c.Dimension(), c.Metadata())
		if err != nil {
			return err
		}
		col, err := w.column(a)
		if err != nil {
			return err
		}
		col.Release()
		return nil
	}
	for k := 0; k < c.NumChunks(); k++ {
		if err := w.Write(c.Chunk(k).WithMetadata(c.Metadata())); err != nil {
			return fmt.Errorf("chunk %d: %w", k, err)
		}
	}
	return nil
}

func emptyArray(typ geovec.Type, dim geovec.Dimension, meta *geovec.Metadata) (array.Array, error) {
	coords, err := buffer.NewCoords(nil, dim)
	if err != nil {
		return nil, err
	}
	levels := make([]*buffer.Offsets, typ.Depth())
	for k := range levels {
		if levels[k], err = buffer.NewOffsets([]int32{0}, 0); err != nil {
			return nil, err
		}
	}
	return array.New(typ, coords, levels, nil, meta)
}

// Close ends the stream.  The schema is written even when no batch was.
func (w *Writer) Close() error {
	var err error
	if w.writer != nil {
		err = w.writer.Close()
		w.writer = nil
	}
	return multierr.Append(err, w.w.Close())
}
