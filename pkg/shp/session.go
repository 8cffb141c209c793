package shp

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jlaura/shapeio/internal/shpfile"
)

// RecordStore is the record-access contract the session consumes.
//
// Concrete stores are the .shp/.shx pair (Open, Create) and the in-memory
// store used by tests and pre-fetched parallel decoding. A store is either
// readable or appendable, never both; the unsupported direction fails with
// *ErrWrongMode.
type RecordStore interface {
	RecordCount() int
	DeclaredType() ShapeType
	BoundingBox() BBox
	Record(i int) (RawRecord, error)
	Append(RawRecord) error
	Close() error
}

// StoreOpener creates the record store for a write session once the record
// type is known. The session calls it exactly once, on the first write.
type StoreOpener func(tag ShapeType) (RecordStore, error)

// sessionState is the explicit write-side state machine: a write session is
// untyped until its first write locks the record type for the session's
// lifetime. Read sessions are always ready.
type sessionState int

const (
	stateUninitialized sessionState = iota // write mode, type not locked yet
	stateTyped                             // write mode, type locked
	stateReadReady                         // read mode
)

// Session is a stateful cursor over a geometry record stream.
//
// A session is strictly single-threaded: the cursor and the type lock carry
// no synchronization, so concurrent use requires independent sessions. The
// codec functions (Decode, Encode, TagFor, ...) are pure and safe to call
// from any number of goroutines.
type Session struct {
	store  RecordStore
	opener StoreOpener
	state  sessionState
	locked ShapeType
	pos    int
	closed bool
}

// NewReader creates a read session over an existing store.
func NewReader(store RecordStore) *Session {
	return &Session{store: store, state: stateReadReady}
}

// NewWriter creates a write session. The store is not opened until the first
// write, because the record type is derived from the first geometry written.
func NewWriter(open StoreOpener) *Session {
	return &Session{opener: open, state: stateUninitialized}
}

// Open opens a shapefile for reading. A file whose declared type has no
// geometry mapping fails here with *ErrUnsupportedType rather than on the
// first read.
func Open(path string) (*Session, error) {
	store, err := shpfile.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := VariantFor(store.DeclaredType()); err != nil {
		store.Close()
		return nil, err
	}
	return NewReader(store), nil
}

// Create prepares a write session backed by a new shapefile at path.
// The file is not created until the first write locks the record type.
func Create(path string) *Session {
	return NewWriter(func(tag ShapeType) (RecordStore, error) {
		return shpfile.Create(path, tag)
	})
}

// Pos returns the cursor position (0-based).
func (s *Session) Pos() int { return s.pos }

// Len returns the number of records in the underlying store.
func (s *Session) Len() int {
	if s.store == nil {
		return 0
	}
	return s.store.RecordCount()
}

// Type returns the session's record type: the declared type in read mode,
// the locked type in write mode, TypeNull before the first write.
func (s *Session) Type() ShapeType {
	if s.state == stateReadReady {
		return s.store.DeclaredType()
	}
	return s.locked
}

// BoundingBox returns the bounds of the underlying store, or the zero box
// before the first write.
func (s *Session) BoundingBox() BBox {
	if s.store == nil {
		return BBox{}
	}
	return s.store.BoundingBox()
}

// Write encodes a geometry and appends it to the stream.
//
// The first write derives the record type from the geometry, opens the
// underlying store for that type and locks the session to it. Any later
// write of a different variant fails with *ErrTypeMismatch and leaves the
// cursor and the stream untouched.
func (s *Session) Write(g Geometry) error {
	if s.closed {
		return &ErrSessionClosed{Op: "write"}
	}
	tag := TagFor(g)
	switch s.state {
	case stateReadReady:
		return &ErrWrongMode{Op: "write", Mode: "reading"}
	case stateUninitialized:
		store, err := s.opener(tag)
		if err != nil {
			return fmt.Errorf("failed to open stream for %s: %w", tag, err)
		}
		s.store = store
		s.locked = tag
		s.state = stateTyped
	case stateTyped:
		if tag != s.locked {
			return &ErrTypeMismatch{Locked: s.locked, Got: tag}
		}
	}

	rec, err := Encode(g)
	if err != nil {
		return err
	}
	if err := s.store.Append(rec); err != nil {
		return err
	}
	s.pos++
	return nil
}

// Read decodes the record at the cursor and advances the cursor by one.
//
// At the end of the stream Read returns io.EOF and leaves the cursor
// unchanged; io.EOF is the end-of-data signal, not a failure. Warnings are
// non-fatal advisories attached to the returned geometry.
func (s *Session) Read() (Geometry, []Warning, error) {
	if s.closed {
		return nil, nil, &ErrSessionClosed{Op: "read"}
	}
	if s.state != stateReadReady {
		return nil, nil, &ErrWrongMode{Op: "read", Mode: "writing"}
	}
	if s.pos >= s.store.RecordCount() {
		return nil, nil, io.EOF
	}

	rec, err := s.store.Record(s.pos)
	if err != nil {
		return nil, nil, err
	}
	g, warnings, err := Decode(rec, s.store.DeclaredType(), s.pos)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		Logger().Warn(w.Warning(), zap.Int("record", w.Position()))
	}
	s.pos++
	return g, warnings, nil
}

// ReadAll reads every remaining record in order, then resets the cursor to 0.
// The cursor reset distinguishes a full-stream read from partial reads,
// which leave the cursor where they stopped.
func (s *Session) ReadAll() ([]Geometry, []Warning, error) {
	var geoms []Geometry
	var warnings []Warning
	for {
		g, w, err := s.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		geoms = append(geoms, g)
		warnings = append(warnings, w...)
	}
	s.pos = 0
	return geoms, warnings, nil
}

// ReadN reads up to n records.
//
// n < 0 behaves as ReadAll. n == 0 returns an empty result without touching
// the cursor. n > 0 reads up to n records, returning the partial result at
// the end of the stream, and never resets the cursor.
func (s *Session) ReadN(n int) ([]Geometry, []Warning, error) {
	if n < 0 {
		return s.ReadAll()
	}
	if n == 0 {
		if s.closed {
			return nil, nil, &ErrSessionClosed{Op: "read"}
		}
		if s.state != stateReadReady {
			return nil, nil, &ErrWrongMode{Op: "read", Mode: "writing"}
		}
		return nil, nil, nil
	}
	var geoms []Geometry
	var warnings []Warning
	for i := 0; i < n; i++ {
		g, w, err := s.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		geoms = append(geoms, g)
		warnings = append(warnings, w...)
	}
	return geoms, warnings, nil
}

// Close releases the underlying store. Close is idempotent; every read or
// write after it fails with *ErrSessionClosed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
