// Package chunked implements a logical geometry collection stored as an
// ordered sequence of same-variant, same-dimension geometry arrays.
package chunked

import (
	"context"
	"fmt"

	"github.com/brimdata/geovec"
	"github.com/brimdata/geovec/array"
	"github.com/twpayne/go-geom"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// Func transforms one chunk.  It must not read or write state shared with
// the invocations for other chunks.
type Func func(array.Array) (array.Array, error)

type Array struct {
	chunks []array.Array
	starts []int
	typ    geovec.Type
	dim    geovec.Dimension
	meta   *geovec.Metadata
}

// New returns a chunked array over chunks.  All chunks must share a variant,
// a dimension and equal metadata, which becomes the array-level metadata.
// With no chunks the result is untyped; use NewEmpty to keep a type.
func New(chunks ...array.Array) (*Array, error) {
	a := &Array{
		chunks: slices.Clone(chunks),
		starts: make([]int, len(chunks)+1),
	}
	for k, c := range chunks {
		if k == 0 {
			a.typ, a.dim, a.meta = c.Type(), c.Dimension(), c.Metadata()
		} else if c.Type() != a.typ {
			return nil, fmt.Errorf("%w: chunk %d is %s, chunk 0 is %s", geovec.ErrChunkVariantMismatch, k, c.Type(), a.typ)
		} else if c.Dimension() != a.dim {
			return nil, fmt.Errorf("%w: chunk %d is %s, chunk 0 is %s", geovec.ErrChunkDimensionMismatch, k, c.Dimension(), a.dim)
		} else if !c.Metadata().Equal(a.meta) {
			return nil, fmt.Errorf("%w: chunk %d", geovec.ErrChunkMetadataMismatch, k)
		}
		a.starts[k+1] = a.starts[k] + c.Len()
	}
	if a.meta == nil {
		a.meta = geovec.NewMetadata()
	}
	return a, nil
}

// NewEmpty returns a chunked array with no chunks that still carries a
// variant, a dimension and metadata.
func NewEmpty(typ geovec.Type, dim geovec.Dimension, meta *geovec.Metadata) *Array {
	if meta == nil {
		meta = geovec.NewMetadata()
	}
	return &Array{starts: []int{0}, typ: typ, dim: dim, meta: meta}
}

// Type returns the variant of the chunks or geovec.Unknown for an untyped
// empty array.
func (a *Array) Type() geovec.Type           { return a.typ }
func (a *Array) Dimension() geovec.Dimension { return a.dim }
func (a *Array) Metadata() *geovec.Metadata  { return a.meta }
func (a *Array) NumChunks() int              { return len(a.chunks) }
func (a *Array) Chunk(i int) array.Array     { return a.chunks[i] }
func (a *Array) Len() int                    { return a.starts[len(a.chunks)] }

// Chunks returns a copy of the chunk list.
func (a *Array) Chunks() []array.Array {
	return slices.Clone(a.chunks)
}

// ChunkLens returns the geometry count of each chunk.
func (a *Array) ChunkLens() []int {
	lens := make([]int, len(a.chunks))
	for k, c := range a.chunks {
		lens[k] = c.Len()
	}
	return lens
}

func (a *Array) NullCount() int {
	var n int
	for _, c := range a.chunks {
		n += c.NullCount()
	}
	return n
}

// Locate maps the logical index i to a chunk and an index within it.
func (a *Array) Locate(i int) (int, int) {
	if i < 0 || i >= a.Len() {
		panic(fmt.Sprintf("chunked.Array: index %d out of range with length %d", i, a.Len()))
	}
	k, _ := slices.BinarySearch(a.starts[1:], i+1)
	return k, i - a.starts[k]
}

// Value returns the geometry at logical index i or nil if it is null.
func (a *Array) Value(i int) geom.T {
	k, j := a.Locate(i)
	return a.chunks[k].Value(j)
}

// Map applies fn to each chunk in order and assembles the results into a
// new chunked array with the same number of chunks.  The first error aborts
// the map and no partial result is returned.
func (a *Array) Map(fn Func) (*Array, error) {
	results := make([]array.Array, len(a.chunks))
	for k, c := range a.chunks {
		out, err := fn(c)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", k, err)
		}
		results[k] = out
	}
	return a.assemble(results)
}

// ParallelMap is like Map but evaluates up to workers chunks concurrently.
// Results are stored by chunk index so the output order is the input order
// regardless of completion order.  ctx is checked before each chunk is
// started; a chunk already running is not interrupted.
func (a *Array) ParallelMap(ctx context.Context, workers int, fn Func) (*Array, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]array.Array, len(a.chunks))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for k, c := range a.chunks {
		if gctx.Err() != nil {
			break
		}
		k, c := k, c
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := fn(c)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", k, err)
			}
			results[k] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.assemble(results)
}

// assemble stamps every result chunk with the receiver's metadata and
// checks the results are homogeneous.
func (a *Array) assemble(results []array.Array) (*Array, error) {
	if len(results) == 0 {
		return NewEmpty(a.typ, a.dim, a.meta), nil
	}
	for k, r := range results {
		if r == nil {
			panic(fmt.Sprintf("chunked.Array: missing result for chunk %d", k))
		}
		if r.Metadata() != a.meta {
			results[k] = r.WithMetadata(a.meta)
		}
	}
	out, err := New(results...)
	if err != nil {
		return nil, err
	}
	out.meta = a.meta
	return out, nil
}
