package geovec

import "errors"

var (
	ErrDimensionMismatch      = errors.New("coordinate dimension mismatch")
	ErrInvalidOffsets         = errors.New("invalid offsets")
	ErrStructuralMismatch     = errors.New("structural mismatch")
	ErrChunkVariantMismatch   = errors.New("chunks have different geometry types")
	ErrChunkDimensionMismatch = errors.New("chunks have different dimensions")
	ErrChunkMetadataMismatch  = errors.New("chunks have different metadata")
	ErrUnsupportedVariant     = errors.New("unsupported geometry type")
)
