// Package shpfile reads and writes the ESRI shapefile main file (.shp) and
// its offset index (.shx).
//
// The package deals only with the container layer: the 100-byte file header,
// the per-record headers, and the flat record payloads. It performs no
// geometric interpretation; records are surfaced as RawRecord values for the
// codec layer to decode.
//
// References:
//   - ESRI Shapefile Technical Description (July 1998), "Main File Header"
//     and "Main File Record Contents".
package shpfile

import (
	"fmt"
	"math"
)

// ShapeType is the numeric shape type tag carried in the file header and in
// every record header.
// ESRI TD table 2: only a subset of the defined codes is supported here.
type ShapeType int32

const (
	ShapeNull    ShapeType = 0
	ShapePoint   ShapeType = 1
	ShapeArc     ShapeType = 3 // polyline; "Arc" is the legacy name kept by most tooling
	ShapePolygon ShapeType = 5
	ShapePointZ  ShapeType = 11
	ShapePointM  ShapeType = 21
)

// String returns the conventional upper-case tag name.
func (t ShapeType) String() string {
	switch t {
	case ShapeNull:
		return "NULL"
	case ShapePoint:
		return "POINT"
	case ShapeArc:
		return "ARC"
	case ShapePolygon:
		return "POLYGON"
	case ShapePointZ:
		return "POINTZ"
	case ShapePointM:
		return "POINTM"
	}
	return fmt.Sprintf("SHAPETYPE(%d)", int32(t))
}

// BBox is an axis-aligned bounding rectangle in file coordinate order
// (Xmin, Ymin, Xmax, Ymax).
type BBox struct {
	XMin, YMin, XMax, YMax float64
}

// EmptyBBox returns the identity box for Extend: it adopts whatever it is
// first extended with. Accumulators must start from EmptyBBox, not the zero
// value, or a legitimate (0, 0) coordinate would be indistinguishable from
// no coordinates at all.
func EmptyBBox() BBox {
	inf := math.Inf(1)
	return BBox{XMin: inf, YMin: inf, XMax: -inf, YMax: -inf}
}

// IsEmpty reports whether the box has been extended with any coordinate.
func (b BBox) IsEmpty() bool {
	return b.XMin > b.XMax
}

// Extend grows the box to include another box.
func (b *BBox) Extend(o BBox) {
	b.XMin = math.Min(b.XMin, o.XMin)
	b.YMin = math.Min(b.YMin, o.YMin)
	b.XMax = math.Max(b.XMax, o.XMax)
	b.YMax = math.Max(b.YMax, o.YMax)
}

// ExtendPoint grows the box to include a single vertex.
func (b *BBox) ExtendPoint(x, y float64) {
	b.Extend(BBox{XMin: x, YMin: y, XMax: x, YMax: y})
}

// Intersects reports whether two boxes overlap. Boundary contact counts as
// an intersection; an empty box intersects nothing.
func (b BBox) Intersects(o BBox) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.XMin <= o.XMax && o.XMin <= b.XMax &&
		b.YMin <= o.YMax && o.YMin <= b.YMax
}

// RawRecord is the flat, format-level representation of one geometry record.
//
// For point variants only X/Y (and M/Z for measured/3D points) are
// meaningful; PartIndex, Vertices and BBox are used by the poly variants.
type RawRecord struct {
	// Shape is the record's shape type tag. It must match the file's
	// declared type, except for ShapeNull which is legal in any file.
	Shape ShapeType

	// BBox is the record bounding box. Present on ARC and POLYGON records.
	BBox BBox

	// PartIndex holds the starting vertex offset of each part. Its length
	// is the part count; the first element must be 0 and the sequence must
	// be strictly increasing and bounded by the vertex count.
	PartIndex []int32

	// Vertices is the flattened (x, y) vertex run covering all parts.
	Vertices [][2]float64

	// X, Y carry the coordinate for point variants.
	X, Y float64
	// M, Z carry the optional measure and elevation for POINTM/POINTZ.
	M, Z float64
}

// NumParts returns the part count.
func (r *RawRecord) NumParts() int { return len(r.PartIndex) }

// NumPoints returns the vertex count.
func (r *RawRecord) NumPoints() int { return len(r.Vertices) }

// Validate checks the structural invariants of a poly-variant record before
// it is considered writable: the part index must start at 0, be strictly
// increasing, and every offset must address an existing vertex.
func (r *RawRecord) Validate() error {
	if r.Shape != ShapeArc && r.Shape != ShapePolygon {
		return nil
	}
	if len(r.PartIndex) == 0 {
		if len(r.Vertices) != 0 {
			return &ErrInvalidRecord{Shape: r.Shape, Reason: "vertices present but part index is empty"}
		}
		return nil
	}
	if r.PartIndex[0] != 0 {
		return &ErrInvalidRecord{Shape: r.Shape, Reason: fmt.Sprintf("part index must start at 0, got %d", r.PartIndex[0])}
	}
	for i := 1; i < len(r.PartIndex); i++ {
		if r.PartIndex[i] <= r.PartIndex[i-1] {
			return &ErrInvalidRecord{Shape: r.Shape, Reason: fmt.Sprintf("part index not strictly increasing at %d", i)}
		}
	}
	if last := r.PartIndex[len(r.PartIndex)-1]; int(last) >= len(r.Vertices) {
		return &ErrInvalidRecord{Shape: r.Shape, Reason: fmt.Sprintf("part offset %d beyond vertex count %d", last, len(r.Vertices))}
	}
	return nil
}
