package buffer

import (
	"fmt"

	"github.com/apache/arrow/go/v11/arrow/bitutil"
	"github.com/brimdata/geovec"
)

// Validity is a per-geometry bitmap in Arrow layout: least significant bit
// first, a set bit marks a valid (non-null) geometry.  A nil *Validity
// means every geometry is valid and all methods accept a nil receiver.
type Validity struct {
	bits   []byte
	offset int
	length int
}

func NewValidity(bits []byte, n int) (*Validity, error) {
	if int(bitutil.BytesForBits(int64(n))) > len(bits) {
		return nil, fmt.Errorf("%w: %d bitmap bytes cannot hold %d bits", geovec.ErrStructuralMismatch, len(bits), n)
	}
	return &Validity{bits: bits, length: n}, nil
}

// ValidityFromBools returns a bitmap with bit i set when valid[i] is true.
func ValidityFromBools(valid []bool) *Validity {
	bits := make([]byte, bitutil.BytesForBits(int64(len(valid))))
	for k, ok := range valid {
		if ok {
			bitutil.SetBit(bits, k)
		}
	}
	return &Validity{bits: bits, length: len(valid)}
}

func (v *Validity) Len() int {
	if v == nil {
		return 0
	}
	return v.length
}

func (v *Validity) IsValid(i int) bool {
	return v == nil || bitutil.BitIsSet(v.bits, v.offset+i)
}

func (v *Validity) NullCount() int {
	if v == nil {
		return 0
	}
	return v.length - bitutil.CountSetBits(v.bits, v.offset, v.length)
}

// Slice returns a view of bits [start, start+n).
func (v *Validity) Slice(start, n int) *Validity {
	if v == nil {
		return nil
	}
	if start < 0 || n < 0 || start+n > v.length {
		panic(fmt.Sprintf("buffer.Validity: slice [%d:%d] out of range with length %d", start, start+n, v.length))
	}
	return &Validity{bits: v.bits, offset: v.offset + start, length: n}
}

// Bytes returns the bitmap packed at bit offset zero, copying only when the
// view does not start on bit zero.
func (v *Validity) Bytes() []byte {
	if v == nil {
		return nil
	}
	if v.offset == 0 {
		return v.bits[:bitutil.BytesForBits(int64(v.length))]
	}
	out := make([]byte, bitutil.BytesForBits(int64(v.length)))
	for k := 0; k < v.length; k++ {
		if bitutil.BitIsSet(v.bits, v.offset+k) {
			bitutil.SetBit(out, k)
		}
	}
	return out
}
