package arrowio

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/ipc"
	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/array"
	"github.com/brimdata/geovec/chunked"
)

// Reader reads geometry arrays from an Arrow IPC stream, one array per record
// batch.  Arrays returned by Read reference the batch buffers, which are
// allocated by the Go allocator and so remain valid after the batch is
// released.
type Reader struct {
	rr    *ipc.Reader
	col   int
	field arrow.Field
	typ   geovec.Type
	dim   geovec.Dimension
	meta  *geovec.Metadata
	n     int
}

func NewReader(r io.Reader) (*Reader, error) {
	rr, err := ipc.NewReader(r)
	if err != nil {
		return nil, err
	}
	col, err := geometryColumn(rr.Schema())
	if err != nil {
		rr.Release()
		return nil, err
	}
	field := rr.Schema().Field(col)
	typ, dim, meta, err := Describe(field)
	if err != nil {
		rr.Release()
		return nil, err
	}
	return &Reader{rr: rr, col: col, field: field, typ: typ, dim: dim, meta: meta}, nil
}

// geometryColumn returns the index of the column named "geometry" or of the
// only column when there is just one.
func geometryColumn(schema *arrow.Schema) (int, error) {
	if indices := schema.FieldIndices(ColumnName); len(indices) > 0 {
		return indices[0], nil
	}
	if len(schema.Fields()) == 1 {
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %d columns and none named %q", ErrNoGeometry, len(schema.Fields()), ColumnName)
}

// Field returns the schema field of the geometry column.
func (r *Reader) Field() arrow.Field {
	return r.field
}

// Read returns the array in the next record batch or nil at end of stream.
func (r *Reader) Read() (array.Array, error) {
	if !r.rr.Next() {
		return nil, r.rr.Err()
	}
	a, err := FromArrow(r.rr.Record().Column(r.col), r.field)
	if err != nil {
		return nil, fmt.Errorf("record batch %d: %w", r.n, err)
	}
	r.n++
	return a, nil
}

func (r *Reader) Close() error {
	if r.rr != nil {
		r.rr.Release()
		r.rr = nil
	}
	return nil
}

// ReadAll reads a whole IPC stream into a chunked array with one chunk per
// record batch.  A stream with no batches yields an empty chunked array of
// the schema's type.
func ReadAll(r io.Reader) (*chunked.Array, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	var chunks []array.Array
	for {
		a, err := reader.Read()
		if err != nil {
			return nil, err
		}
		if a == nil {
			break
		}
		chunks = append(chunks, a)
	}
	if len(chunks) == 0 {
		return chunked.NewEmpty(reader.typ, reader.dim, reader.meta), nil
	}
	return chunked.New(chunks...)
}
