package buffer

import (
	"fmt"
	"math"

	"github.com/brimdata/geovec"
)

// Offsets is a sequence of n+1 monotonic int32 values describing n runs
// [values[i], values[i+1]) over a child buffer.  Offsets are absolute
// positions in the child, so a view created by Slice addresses the same
// child as its parent.
type Offsets struct {
	values []int32
}

// NewOffsets validates values against the length of the child buffer they
// address.  Like NewCoords it takes ownership of values.
func NewOffsets(values []int32, childLen int) (*Offsets, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty offsets", geovec.ErrInvalidOffsets)
	}
	if values[0] < 0 {
		return nil, fmt.Errorf("%w: negative first offset %d", geovec.ErrInvalidOffsets, values[0])
	}
	for k := 1; k < len(values); k++ {
		if values[k] < values[k-1] {
			return nil, fmt.Errorf("%w: offset %d (%d) less than offset %d (%d)", geovec.ErrInvalidOffsets, k, values[k], k-1, values[k-1])
		}
	}
	if last := values[len(values)-1]; int(last) != childLen {
		return nil, fmt.Errorf("%w: last offset %d does not match child length %d", geovec.ErrInvalidOffsets, last, childLen)
	}
	return &Offsets{values}, nil
}

// Len returns the number of runs.
func (o *Offsets) Len() int {
	return len(o.values) - 1
}

func (o *Offsets) Bounds(i int) (int, int) {
	return int(o.values[i]), int(o.values[i+1])
}

// Start returns the child position of the first run.
func (o *Offsets) Start() int {
	return int(o.values[0])
}

// End returns the child position just past the last run.
func (o *Offsets) End() int {
	return int(o.values[len(o.values)-1])
}

// Values returns the offsets of the view.  The caller must not modify them.
func (o *Offsets) Values() []int32 {
	return o.values
}

// Slice returns a view of runs [start, start+n).
func (o *Offsets) Slice(start, n int) *Offsets {
	return &Offsets{o.values[start : start+n+1]}
}

// OffsetsBuilder builds zero-based offsets one run at a time.
type OffsetsBuilder struct {
	values []int32
}

func NewOffsetsBuilder(capacity int) *OffsetsBuilder {
	values := make([]int32, 1, capacity+1)
	return &OffsetsBuilder{values}
}

// Close ends the current run at child position end.  It panics if end does
// not fit in an int32 offset.
func (b *OffsetsBuilder) Close(end int) {
	if end > math.MaxInt32 {
		panic(fmt.Sprintf("buffer.OffsetsBuilder: child position %d overflows int32 offsets", end))
	}
	b.values = append(b.values, int32(end))
}

func (b *OffsetsBuilder) Len() int {
	return len(b.values) - 1
}

// Build returns the accumulated offsets.  Runs are closed in order so the
// result is monotonic by construction.
func (b *OffsetsBuilder) Build() *Offsets {
	o := &Offsets{b.values}
	b.values = nil
	return o
}
