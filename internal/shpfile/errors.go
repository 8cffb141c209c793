package shpfile

import "fmt"

// ErrBadHeader indicates the main file header failed validation.
type ErrBadHeader struct {
	Path   string
	Reason string
}

func (e *ErrBadHeader) Error() string {
	return fmt.Sprintf("bad shapefile header in %s: %s", e.Path, e.Reason)
}

// ErrOutOfRange indicates a record index beyond the stored record count.
type ErrOutOfRange struct {
	Index int
	Count int
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("record index %d out of range (count %d)", e.Index, e.Count)
}

// ErrInvalidRecord indicates a record that violates the format's structural
// rules (part index, vertex bounds, type homogeneity).
type ErrInvalidRecord struct {
	Shape  ShapeType
	Reason string
}

func (e *ErrInvalidRecord) Error() string {
	return fmt.Sprintf("invalid %s record: %s", e.Shape, e.Reason)
}

// ErrWrongMode indicates a read on a write-mode store or vice versa.
type ErrWrongMode struct {
	Op   string
	Mode string
}

func (e *ErrWrongMode) Error() string {
	return fmt.Sprintf("%s not permitted on a store opened for %s", e.Op, e.Mode)
}
