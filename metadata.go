package geovec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Edges string

const (
	EdgesPlanar    Edges = "planar"
	EdgesSpherical Edges = "spherical"
)

// CRS is an opaque coordinate reference system description (typically
// PROJJSON or an authority string encoded as JSON).  It is carried through
// every transform unchanged and never interpreted.
type CRS json.RawMessage

func (c CRS) Equal(to CRS) bool {
	return bytes.Equal(c, to)
}

// Metadata is the array-level metadata attached to every geometry array.
type Metadata struct {
	CRS   CRS   `json:"crs,omitempty"`
	Edges Edges `json:"edges,omitempty"`
}

// NewMetadata returns the default metadata: no CRS and planar edges.
func NewMetadata() *Metadata {
	return &Metadata{Edges: EdgesPlanar}
}

func NewMetadataWithCRS(crs CRS) *Metadata {
	m := NewMetadata()
	m.CRS = crs
	return m
}

func (m *Metadata) Equal(to *Metadata) bool {
	if m == nil || to == nil {
		return m == to
	}
	return m.Edges == to.Edges && m.CRS.Equal(to.CRS)
}

// Serialize encodes m as the JSON extension metadata used by the GeoArrow
// encoding.
func (m *Metadata) Serialize() (string, error) {
	if m == nil {
		return "", nil
	}
	b, err := json.Marshal(struct {
		CRS   json.RawMessage `json:"crs,omitempty"`
		Edges Edges           `json:"edges,omitempty"`
	}{json.RawMessage(m.CRS), m.Edges})
	if err != nil {
		return "", fmt.Errorf("serializing geometry metadata: %w", err)
	}
	return string(b), nil
}

// DeserializeMetadata decodes extension metadata.  An empty string yields the
// default metadata.
func DeserializeMetadata(s string) (*Metadata, error) {
	m := NewMetadata()
	if s == "" {
		return m, nil
	}
	var v struct {
		CRS   json.RawMessage `json:"crs"`
		Edges Edges           `json:"edges"`
	}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("deserializing geometry metadata: %w", err)
	}
	if len(v.CRS) > 0 && !bytes.Equal(v.CRS, []byte("null")) {
		m.CRS = CRS(v.CRS)
	}
	if v.Edges != "" {
		m.Edges = v.Edges
	}
	return m, nil
}
