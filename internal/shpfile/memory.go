package shpfile

// MemStore is an in-memory record store with the same contract as File.
//
// It backs tests and callers that distribute pre-fetched records to parallel
// decoders without sharing a file handle.
type MemStore struct {
	shape  ShapeType
	bounds BBox
	recs   []RawRecord
	closed bool
}

// NewMemStore creates an empty in-memory store for the given shape type.
func NewMemStore(shape ShapeType) *MemStore {
	return &MemStore{shape: shape, bounds: EmptyBBox()}
}

func (s *MemStore) RecordCount() int        { return len(s.recs) }
func (s *MemStore) DeclaredType() ShapeType { return s.shape }

func (s *MemStore) BoundingBox() BBox {
	if s.bounds.IsEmpty() {
		return BBox{}
	}
	return s.bounds
}

func (s *MemStore) Record(i int) (RawRecord, error) {
	if s.closed {
		return RawRecord{}, &ErrWrongMode{Op: "read", Mode: "closed store"}
	}
	if i < 0 || i >= len(s.recs) {
		return RawRecord{}, &ErrOutOfRange{Index: i, Count: len(s.recs)}
	}
	return s.recs[i], nil
}

func (s *MemStore) Append(rec RawRecord) error {
	if s.closed {
		return &ErrWrongMode{Op: "append", Mode: "closed store"}
	}
	if rec.Shape != ShapeNull && rec.Shape != s.shape {
		return &ErrInvalidRecord{Shape: rec.Shape, Reason: "store holds " + s.shape.String() + " records"}
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	s.recs = append(s.recs, rec)
	switch rec.Shape {
	case ShapePoint, ShapePointM, ShapePointZ:
		s.bounds.ExtendPoint(rec.X, rec.Y)
	case ShapeArc, ShapePolygon:
		s.bounds.Extend(rec.BBox)
	}
	return nil
}

func (s *MemStore) Close() error {
	s.closed = true
	return nil
}
