package shp

import (
	"fmt"

	"github.com/jlaura/shapeio/internal/shpfile"
)

// Encode converts a geometry value into a raw record.
//
// Poly variants get a bounding box over every vertex (the format requires it
// on ARC records as well as POLYGON), a part index built as prefix sums of
// part lengths, and the flattened vertex run in part order. Polygon ring
// orientation is enforced on write: shells are serialized clockwise and
// holes counter-clockwise, each ring reversed only when supplied in the
// opposite orientation so an already-conformant ring is never re-reversed.
// Holes follow the shells in the part run.
//
// Encode is pure and does not enforce the session's type lock; the session
// checks TagFor against its locked tag before calling it.
func Encode(g Geometry) (RawRecord, error) {
	switch g := g.(type) {
	case Point:
		rec := RawRecord{Shape: TagFor(g), X: g.X, Y: g.Y}
		if g.HasM {
			rec.M = g.M
		}
		if g.HasZ {
			rec.Z = g.Z
		}
		return rec, nil
	case Polyline:
		return encodeParts(TypeArc, g.Parts)
	case Polygon:
		parts := make([]Ring, 0, len(g.Shells)+len(g.Holes))
		for _, shell := range g.Shells {
			if len(shell) == 0 {
				continue
			}
			if !IsClockwise(shell) {
				shell = Reversed(shell)
			}
			parts = append(parts, shell)
		}
		for _, hole := range g.Holes {
			if len(hole) == 0 {
				continue
			}
			if IsClockwise(hole) {
				hole = Reversed(hole)
			}
			parts = append(parts, hole)
		}
		return encodeParts(TypePolygon, parts)
	}
	// Unreachable: the union is sealed.
	return RawRecord{}, &ErrUnsupportedType{Tag: TypeNull}
}

func encodeParts(tag ShapeType, parts []Ring) (RawRecord, error) {
	rec := RawRecord{Shape: tag, BBox: shpfile.EmptyBBox()}
	for _, part := range parts {
		if len(part) == 0 {
			continue
		}
		rec.PartIndex = append(rec.PartIndex, int32(len(rec.Vertices)))
		for _, v := range part {
			rec.Vertices = append(rec.Vertices, v)
			rec.BBox.ExtendPoint(v[0], v[1])
		}
	}
	if rec.BBox.IsEmpty() {
		rec.BBox = BBox{}
	}
	if err := rec.Validate(); err != nil {
		return RawRecord{}, fmt.Errorf("failed to build %s record: %w", tag, err)
	}
	return rec, nil
}
