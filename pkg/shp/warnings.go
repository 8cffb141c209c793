package shp

import "fmt"

// Warning is a non-fatal advisory attached to a decoded record. Warnings
// never abort decoding of the surrounding stream; one bad record does not
// invalidate the rest.
type Warning interface {
	// Position is the 0-based index of the record the warning refers to.
	Position() int
	// Warning is the advisory text.
	Warning() string
}

// TopologyWarning reports a single-ring polygon stored counter-clockwise.
// The ring was treated as a shell anyway, i.e. the topology was repaired.
type TopologyWarning struct {
	Pos int
}

func (w *TopologyWarning) Position() int { return w.Pos }

func (w *TopologyWarning) Warning() string {
	return fmt.Sprintf("polygon %d topology has been fixed (ccw -> cw)", w.Pos)
}

// DegenerateShapeWarning reports a record with no geometry: a NULL record,
// or a poly record with zero parts. Decoding produced an empty geometry of
// the requested variant.
type DegenerateShapeWarning struct {
	Pos     int
	Variant Variant
}

func (w *DegenerateShapeWarning) Position() int { return w.Pos }

func (w *DegenerateShapeWarning) Warning() string {
	if w.Variant == VariantPoint {
		return fmt.Sprintf("point %d is null", w.Pos)
	}
	return fmt.Sprintf("%s %d has zero parts", w.Variant, w.Pos)
}
