package shp

import (
	"fmt"

	"github.com/jlaura/shapeio/internal/shpfile"
)

// ErrUnsupportedType indicates a record type tag with no geometry mapping.
type ErrUnsupportedType struct {
	Tag ShapeType
}

func (e *ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unsupported shape type %s", e.Tag)
}

// ErrTypeMismatch indicates a geometry written against a session locked to a
// different record type. The session stays usable for correctly-typed writes.
type ErrTypeMismatch struct {
	Locked ShapeType
	Got    ShapeType
}

func (e *ErrTypeMismatch) Error() string {
	return fmt.Sprintf("session only supports %s shapes, got %s", e.Locked, e.Got)
}

// ErrSessionClosed indicates an operation on a closed session.
type ErrSessionClosed struct {
	Op string
}

func (e *ErrSessionClosed) Error() string {
	return fmt.Sprintf("%s on closed session", e.Op)
}

// ErrWrongMode indicates a write on a read session or a read on a write
// session.
type ErrWrongMode = shpfile.ErrWrongMode

// ErrOutOfRange indicates a record index beyond the store's record count.
type ErrOutOfRange = shpfile.ErrOutOfRange
