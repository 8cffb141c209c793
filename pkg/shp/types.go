// Package shp converts between flat shapefile geometry records and
// structured in-memory geometry values.
//
// The package reconstructs topological structure (shell vs. hole rings,
// multi-part vertex runs) from the flat coordinate layout the format stores,
// and flattens it back on write. Malformed input is repaired where the format
// community conventionally repairs it, with non-fatal warnings.
//
// Reading and writing go through a Session, which owns the cursor over an
// underlying record store (usually a .shp/.shx pair, see Open and Create).
package shp

import (
	"github.com/jlaura/shapeio/internal/shpfile"
)

// Aliases surface the container-level types without exposing the internal
// package path to callers.
type (
	// ShapeType is the numeric record type tag.
	ShapeType = shpfile.ShapeType
	// BBox is an axis-aligned bounding rectangle.
	BBox = shpfile.BBox
	// RawRecord is the flat, format-level representation of one geometry.
	RawRecord = shpfile.RawRecord
)

// Supported record type tags.
const (
	TypeNull    = shpfile.ShapeNull
	TypePoint   = shpfile.ShapePoint
	TypeArc     = shpfile.ShapeArc
	TypePolygon = shpfile.ShapePolygon
	TypePointZ  = shpfile.ShapePointZ
	TypePointM  = shpfile.ShapePointM
)

// Variant identifies a member of the geometry union.
type Variant int

const (
	VariantPoint Variant = iota + 1
	VariantPolyline
	VariantPolygon
)

func (v Variant) String() string {
	switch v {
	case VariantPoint:
		return "Point"
	case VariantPolyline:
		return "Polyline"
	case VariantPolygon:
		return "Polygon"
	}
	return "Variant(?)"
}

// Ring is an ordered vertex sequence. Polygon rings are closed (first vertex
// equals last); polyline parts reuse the representation without the closure
// requirement.
type Ring [][2]float64

// Geometry is the closed union of decodable geometry values: Point, Polyline
// and Polygon. The union is sealed; encoder and decoder switch over it
// exhaustively.
type Geometry interface {
	// Variant reports which member of the union the value is.
	Variant() Variant

	sealed()
}

// Point is a single location, optionally carrying a measure (M) and an
// elevation (Z). A point with an elevation always carries a measure too,
// matching the POINTZ record layout.
type Point struct {
	X, Y float64
	M, Z float64
	HasM bool
	HasZ bool
}

func (Point) Variant() Variant { return VariantPoint }
func (Point) sealed()          {}

// Polyline is an ordered sequence of open vertex runs.
type Polyline struct {
	Parts []Ring
}

func (Polyline) Variant() Variant { return VariantPolyline }
func (Polyline) sealed()          {}

// Polygon is a set of clockwise shell rings and counter-clockwise hole rings.
// Shells and holes are kept separate; their pairing (which hole belongs to
// which shell) is not modeled, matching the source format.
type Polygon struct {
	Shells []Ring
	Holes  []Ring
}

func (Polygon) Variant() Variant { return VariantPolygon }
func (Polygon) sealed()          {}

// VariantFor resolves a record type tag to its geometry variant.
// POINTM and POINTZ both resolve to the point variant; the distinction
// reappears on encode through the point's optional scalars.
func VariantFor(tag ShapeType) (Variant, error) {
	switch tag {
	case TypePoint, TypePointM, TypePointZ:
		return VariantPoint, nil
	case TypeArc:
		return VariantPolyline, nil
	case TypePolygon:
		return VariantPolygon, nil
	}
	return 0, &ErrUnsupportedType{Tag: tag}
}

// TagFor derives the record type tag for a geometry. It is total over the
// union: points are disambiguated by their optional scalars, every other
// variant has exactly one tag.
func TagFor(g Geometry) ShapeType {
	switch g := g.(type) {
	case Point:
		if g.HasZ {
			return TypePointZ
		}
		if g.HasM {
			return TypePointM
		}
		return TypePoint
	case Polyline:
		return TypeArc
	case Polygon:
		return TypePolygon
	}
	// Unreachable: the union is sealed.
	return TypeNull
}

// Bounds computes the min/max extents of a geometry over all its vertices.
// An empty geometry yields the zero box.
func Bounds(g Geometry) BBox {
	b := shpfile.EmptyBBox()
	switch g := g.(type) {
	case Point:
		b.ExtendPoint(g.X, g.Y)
	case Polyline:
		for _, part := range g.Parts {
			for _, v := range part {
				b.ExtendPoint(v[0], v[1])
			}
		}
	case Polygon:
		for _, ring := range g.Shells {
			for _, v := range ring {
				b.ExtendPoint(v[0], v[1])
			}
		}
		for _, ring := range g.Holes {
			for _, v := range ring {
				b.ExtendPoint(v[0], v[1])
			}
		}
	}
	if b.IsEmpty() {
		return BBox{}
	}
	return b
}
