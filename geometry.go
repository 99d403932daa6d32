package geovec

import "fmt"

// Type identifies one of the six geometry array variants.
type Type int

const (
	Unknown Type = iota
	PointType
	LineStringType
	PolygonType
	MultiPointType
	MultiLineStringType
	MultiPolygonType
)

var typeNames = []string{
	Unknown:             "unknown",
	PointType:           "point",
	LineStringType:      "linestring",
	PolygonType:         "polygon",
	MultiPointType:      "multipoint",
	MultiLineStringType: "multilinestring",
	MultiPolygonType:    "multipolygon",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// LookupType returns the Type with the given name.
func LookupType(name string) (Type, bool) {
	for k, s := range typeNames {
		if k != int(Unknown) && s == name {
			return Type(k), true
		}
	}
	return Unknown, false
}

// Depth returns the number of offset levels used to encode t.
func (t Type) Depth() int {
	switch t {
	case LineStringType, MultiPointType:
		return 1
	case PolygonType, MultiLineStringType:
		return 2
	case MultiPolygonType:
		return 3
	}
	return 0
}
