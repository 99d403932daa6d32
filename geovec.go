// Package geovec defines the geometry types, dimensions, metadata and error
// kinds shared by the columnar geometry arrays in the array, chunked and
// algorithm packages.  Single geometry values are go-geom geometries.
package geovec

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

type Dimension int

const (
	XY  Dimension = 2
	XYZ Dimension = 3
)

// Size returns the number of float64 values per coordinate tuple.
func (d Dimension) Size() int {
	return int(d)
}

func (d Dimension) Valid() bool {
	return d == XY || d == XYZ
}

// Layout returns the go-geom layout with the same coordinate tuple.
func (d Dimension) Layout() geom.Layout {
	if d == XYZ {
		return geom.XYZ
	}
	return geom.XY
}

func (d Dimension) String() string {
	switch d {
	case XY:
		return "xy"
	case XYZ:
		return "xyz"
	}
	return fmt.Sprintf("Dimension(%d)", int(d))
}

// Coord is one coordinate tuple.  Z is zero for XY data.
type Coord struct {
	X, Y, Z float64
}

