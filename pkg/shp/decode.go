package shp

import "fmt"

// Decode converts a raw record into a geometry value.
//
// The declared tag is the file-level shape type; pos is the record's 0-based
// position, used only to label warnings. Decode is pure: it performs no I/O
// and never modifies the record.
//
// Malformed topology is repaired rather than rejected where possible:
// a counter-clockwise single-ring polygon is treated as a shell with a
// TopologyWarning, and a NULL record or a record with zero parts yields an
// empty geometry with a DegenerateShapeWarning.
func Decode(rec RawRecord, declared ShapeType, pos int) (Geometry, []Warning, error) {
	variant, err := VariantFor(declared)
	if err != nil {
		return nil, nil, err
	}

	switch variant {
	case VariantPoint:
		if rec.Shape == TypeNull {
			warning := &DegenerateShapeWarning{Pos: pos, Variant: VariantPoint}
			return Point{}, []Warning{warning}, nil
		}
		return decodePoint(rec, declared), nil, nil
	case VariantPolyline, VariantPolygon:
		return decodePoly(rec, variant, pos)
	}
	return nil, nil, &ErrUnsupportedType{Tag: declared}
}

func decodePoint(rec RawRecord, declared ShapeType) Point {
	p := Point{X: rec.X, Y: rec.Y}
	switch declared {
	case TypePointM:
		p.M = rec.M
		p.HasM = true
	case TypePointZ:
		p.M = rec.M
		p.Z = rec.Z
		p.HasM = true
		p.HasZ = true
	}
	return p
}

func decodePoly(rec RawRecord, variant Variant, pos int) (Geometry, []Warning, error) {
	if rec.NumParts() == 0 || rec.Shape == TypeNull {
		warning := &DegenerateShapeWarning{Pos: pos, Variant: variant}
		if variant == VariantPolyline {
			return Polyline{}, []Warning{warning}, nil
		}
		return Polygon{}, []Warning{warning}, nil
	}
	if err := rec.Validate(); err != nil {
		return nil, nil, fmt.Errorf("record %d: %w", pos, err)
	}

	parts := splitParts(rec)
	if variant == VariantPolyline {
		return Polyline{Parts: parts}, nil, nil
	}
	return decodePolygon(parts, pos)
}

// splitParts cuts the flat vertex run at the part index boundaries.
// The last part extends to the vertex count.
func splitParts(rec RawRecord) []Ring {
	parts := make([]Ring, 0, rec.NumParts())
	for i, start := range rec.PartIndex {
		end := rec.NumPoints()
		if i+1 < len(rec.PartIndex) {
			end = int(rec.PartIndex[i+1])
		}
		parts = append(parts, Ring(rec.Vertices[start:end]))
	}
	return parts
}

// decodePolygon partitions rings into shells and holes.
//
// Assignment is purely orientation-based, never positional: the format allows
// shell and hole parts to interleave in any physical order, so clockwise
// rings become shells and counter-clockwise rings become holes regardless of
// where they sit in the record.
func decodePolygon(rings []Ring, pos int) (Geometry, []Warning, error) {
	if len(rings) == 1 {
		ring := rings[0]
		if !IsClockwise(ring) {
			// Repair rather than fail: treat the lone ring as a shell.
			return Polygon{Shells: []Ring{ring}}, []Warning{&TopologyWarning{Pos: pos}}, nil
		}
		return Polygon{Shells: []Ring{ring}}, nil, nil
	}

	var shells, holes []Ring
	for _, ring := range rings {
		if IsClockwise(ring) {
			shells = append(shells, ring)
		} else {
			holes = append(holes, ring)
		}
	}
	return Polygon{Shells: shells, Holes: holes}, nil, nil
}
