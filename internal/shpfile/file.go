package shpfile

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"
)

// Shapefile container constants.
// ESRI TD: the main file header is always 100 bytes, begins with the magic
// file code, and mixes big-endian bookkeeping with little-endian payloads.
const (
	fileCode    = 9994
	fileVersion = 1000
	headerSize  = 100
)

// recOffset locates one record's content within the main file.
type recOffset struct {
	off    int64 // byte offset of the record header
	length int64 // content length in bytes (excluding the 8-byte record header)
}

// File is a shapefile-backed record store.
//
// A File is opened either for reading (Open) or for writing (Create); the two
// modes never mix. Writing maintains the .shx offset index and the running
// file bounds, both flushed on Close.
type File struct {
	path   string
	mode   string // "reading" or "writing"
	f      *os.File
	shape  ShapeType
	bounds BBox
	offs   []recOffset
	closed bool
}

// Open opens an existing shapefile for reading.
//
// The record index is taken from the companion .shx file when present;
// otherwise the main file is scanned once to rebuild it.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	file := &File{path: path, mode: "reading", f: f}

	hdr := make([]byte, headerSize)
	if _, err := f.ReadAt(hdr, 0); err != nil {
		f.Close()
		return nil, &ErrBadHeader{Path: path, Reason: fmt.Sprintf("short header: %v", err)}
	}
	if code := int32(binary.BigEndian.Uint32(hdr[0:4])); code != fileCode {
		f.Close()
		return nil, &ErrBadHeader{Path: path, Reason: fmt.Sprintf("file code %d, want %d", code, fileCode)}
	}
	if ver := int32(binary.LittleEndian.Uint32(hdr[28:32])); ver != fileVersion {
		f.Close()
		return nil, &ErrBadHeader{Path: path, Reason: fmt.Sprintf("version %d, want %d", ver, fileVersion)}
	}
	file.shape = ShapeType(binary.LittleEndian.Uint32(hdr[32:36]))
	file.bounds = BBox{
		XMin: readFloat64(hdr[36:44]),
		YMin: readFloat64(hdr[44:52]),
		XMax: readFloat64(hdr[52:60]),
		YMax: readFloat64(hdr[60:68]),
	}

	if offs, err := readIndexFile(shxPath(path)); err == nil {
		file.offs = offs
	} else if offs, err = scanRecords(f); err == nil {
		file.offs = offs
	} else {
		f.Close()
		return nil, fmt.Errorf("failed to index records in %s: %w", path, err)
	}
	return file, nil
}

// Create creates a new shapefile for writing records of the given type.
// The header is finalized on Close once the bounds are known.
func Create(path string, shape ShapeType) (*File, error) {
	if shape != ShapePoint && shape != ShapePointM && shape != ShapePointZ &&
		shape != ShapeArc && shape != ShapePolygon {
		return nil, &ErrInvalidRecord{Shape: shape, Reason: "not a writable shape type"}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create shapefile: %w", err)
	}
	// Placeholder header; rewritten with real length and bounds on Close.
	if _, err := f.Write(make([]byte, headerSize)); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &File{path: path, mode: "writing", f: f, shape: shape, bounds: EmptyBBox()}, nil
}

// RecordCount returns the number of records in the store.
func (s *File) RecordCount() int { return len(s.offs) }

// DeclaredType returns the file-level shape type tag.
func (s *File) DeclaredType() ShapeType { return s.shape }

// BoundingBox returns the file-level bounds, or the zero box when nothing
// has been written yet.
func (s *File) BoundingBox() BBox {
	if s.bounds.IsEmpty() {
		return BBox{}
	}
	return s.bounds
}

// Record reads the i-th record (0-based).
func (s *File) Record(i int) (RawRecord, error) {
	if s.closed {
		return RawRecord{}, &ErrWrongMode{Op: "read", Mode: "closed store"}
	}
	if s.mode != "reading" {
		return RawRecord{}, &ErrWrongMode{Op: "read", Mode: s.mode}
	}
	if i < 0 || i >= len(s.offs) {
		return RawRecord{}, &ErrOutOfRange{Index: i, Count: len(s.offs)}
	}
	loc := s.offs[i]
	content := make([]byte, loc.length)
	if _, err := s.f.ReadAt(content, loc.off+8); err != nil {
		return RawRecord{}, fmt.Errorf("failed to read record %d: %w", i, err)
	}
	rec, err := decodePayload(content)
	if err != nil {
		return RawRecord{}, fmt.Errorf("record %d: %w", i, err)
	}
	if rec.Shape != ShapeNull && rec.Shape != s.shape {
		return RawRecord{}, &ErrInvalidRecord{
			Shape:  rec.Shape,
			Reason: fmt.Sprintf("record %d disagrees with declared type %s", i, s.shape),
		}
	}
	return rec, nil
}

// Append writes one record to a store opened for writing.
func (s *File) Append(rec RawRecord) error {
	if s.closed {
		return &ErrWrongMode{Op: "append", Mode: "closed store"}
	}
	if s.mode != "writing" {
		return &ErrWrongMode{Op: "append", Mode: s.mode}
	}
	if rec.Shape != ShapeNull && rec.Shape != s.shape {
		return &ErrInvalidRecord{
			Shape:  rec.Shape,
			Reason: fmt.Sprintf("file was opened for %s records", s.shape),
		}
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	content := encodePayload(rec)
	off := int64(headerSize)
	if n := len(s.offs); n > 0 {
		off = s.offs[n-1].off + 8 + s.offs[n-1].length
	}
	hdr := make([]byte, 8)
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(s.offs)+1)) // record numbers are 1-based
	binary.BigEndian.PutUint32(hdr[4:8], uint32(len(content)/2))
	if _, err := s.f.WriteAt(append(hdr, content...), off); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	s.offs = append(s.offs, recOffset{off: off, length: int64(len(content))})

	switch rec.Shape {
	case ShapePoint, ShapePointM, ShapePointZ:
		s.bounds.ExtendPoint(rec.X, rec.Y)
	case ShapeArc, ShapePolygon:
		s.bounds.Extend(rec.BBox)
	}
	return nil
}

// Close releases the underlying files. In write mode it first finalizes the
// main file header and writes the .shx index. Close is idempotent.
func (s *File) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.mode == "writing" {
		if err := s.finalize(); err != nil {
			s.f.Close()
			return err
		}
	}
	return s.f.Close()
}

func (s *File) finalize() error {
	total := int64(headerSize)
	for _, loc := range s.offs {
		total += 8 + loc.length
	}
	if _, err := s.f.WriteAt(s.header(total), 0); err != nil {
		return fmt.Errorf("failed to finalize header: %w", err)
	}
	return s.writeIndexFile()
}

// header encodes the 100-byte main file header for a file of totalBytes.
func (s *File) header(totalBytes int64) []byte {
	hdr := make([]byte, headerSize)
	binary.BigEndian.PutUint32(hdr[0:4], fileCode)
	binary.BigEndian.PutUint32(hdr[24:28], uint32(totalBytes/2)) // length in 16-bit words
	binary.LittleEndian.PutUint32(hdr[28:32], fileVersion)
	binary.LittleEndian.PutUint32(hdr[32:36], uint32(s.shape))
	bounds := s.BoundingBox()
	putFloat64(hdr[36:44], bounds.XMin)
	putFloat64(hdr[44:52], bounds.YMin)
	putFloat64(hdr[52:60], bounds.XMax)
	putFloat64(hdr[60:68], bounds.YMax)
	// Z and M ranges stay zero; the 2D variants written here never use them.
	return hdr
}

// writeIndexFile emits the .shx companion: the same header layout followed by
// one (offset, content length) pair per record, both in 16-bit words.
func (s *File) writeIndexFile() error {
	out := s.header(int64(headerSize + 8*len(s.offs)))
	for _, loc := range s.offs {
		entry := make([]byte, 8)
		binary.BigEndian.PutUint32(entry[0:4], uint32(loc.off/2))
		binary.BigEndian.PutUint32(entry[4:8], uint32(loc.length/2))
		out = append(out, entry...)
	}
	return os.WriteFile(shxPath(s.path), out, 0o644)
}

// readIndexFile parses a .shx companion into record offsets.
func readIndexFile(path string) ([]recOffset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < headerSize || (len(data)-headerSize)%8 != 0 {
		return nil, &ErrBadHeader{Path: path, Reason: "truncated index"}
	}
	if code := int32(binary.BigEndian.Uint32(data[0:4])); code != fileCode {
		return nil, &ErrBadHeader{Path: path, Reason: fmt.Sprintf("file code %d, want %d", code, fileCode)}
	}
	n := (len(data) - headerSize) / 8
	offs := make([]recOffset, 0, n)
	for i := 0; i < n; i++ {
		entry := data[headerSize+8*i:]
		offs = append(offs, recOffset{
			off:    int64(binary.BigEndian.Uint32(entry[0:4])) * 2,
			length: int64(binary.BigEndian.Uint32(entry[4:8])) * 2,
		})
	}
	return offs, nil
}

// scanRecords rebuilds the record index by walking the main file.
// Fallback for shapefiles distributed without their .shx companion.
func scanRecords(f *os.File) ([]recOffset, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	var offs []recOffset
	pos := int64(headerSize)
	hdr := make([]byte, 8)
	for pos+8 <= info.Size() {
		if _, err := f.ReadAt(hdr, pos); err != nil {
			return nil, err
		}
		length := int64(binary.BigEndian.Uint32(hdr[4:8])) * 2
		if pos+8+length > info.Size() {
			return nil, fmt.Errorf("truncated record at offset %d", pos)
		}
		offs = append(offs, recOffset{off: pos, length: length})
		pos += 8 + length
	}
	return offs, nil
}

// shxPath maps a .shp path to its .shx companion, preserving case style.
func shxPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".shp"):
		return strings.TrimSuffix(path, ".shp") + ".shx"
	case strings.HasSuffix(path, ".SHP"):
		return strings.TrimSuffix(path, ".SHP") + ".SHX"
	}
	return path + ".shx"
}

// decodePayload parses one record's content bytes.
//
// Layout per ESRI TD "Main File Record Contents": a little-endian shape type
// tag followed by the type-specific payload.
func decodePayload(content []byte) (RawRecord, error) {
	if len(content) < 4 {
		return RawRecord{}, &ErrInvalidRecord{Reason: "content shorter than shape type tag"}
	}
	rec := RawRecord{Shape: ShapeType(binary.LittleEndian.Uint32(content[0:4]))}
	body := content[4:]
	switch rec.Shape {
	case ShapeNull:
		return rec, nil
	case ShapePoint, ShapePointM, ShapePointZ:
		return decodePointPayload(rec, body)
	case ShapeArc, ShapePolygon:
		return decodePolyPayload(rec, body)
	}
	// Unknown tags are surfaced untouched; the codec layer decides whether
	// to reject them.
	return rec, nil
}

func decodePointPayload(rec RawRecord, body []byte) (RawRecord, error) {
	want := 16
	if rec.Shape == ShapePointM {
		want = 24
	} else if rec.Shape == ShapePointZ {
		want = 32
	}
	if len(body) < want {
		return RawRecord{}, &ErrInvalidRecord{Shape: rec.Shape, Reason: "short point payload"}
	}
	rec.X = readFloat64(body[0:8])
	rec.Y = readFloat64(body[8:16])
	switch rec.Shape {
	case ShapePointM:
		rec.M = readFloat64(body[16:24])
	case ShapePointZ:
		// PointZ stores Z then M.
		rec.Z = readFloat64(body[16:24])
		rec.M = readFloat64(body[24:32])
	}
	return rec, nil
}

func decodePolyPayload(rec RawRecord, body []byte) (RawRecord, error) {
	if len(body) < 40 {
		return RawRecord{}, &ErrInvalidRecord{Shape: rec.Shape, Reason: "short poly payload"}
	}
	rec.BBox = BBox{
		XMin: readFloat64(body[0:8]),
		YMin: readFloat64(body[8:16]),
		XMax: readFloat64(body[16:24]),
		YMax: readFloat64(body[24:32]),
	}
	numParts := int(binary.LittleEndian.Uint32(body[32:36]))
	numPoints := int(binary.LittleEndian.Uint32(body[36:40]))
	want := 40 + 4*numParts + 16*numPoints
	if len(body) < want {
		return RawRecord{}, &ErrInvalidRecord{Shape: rec.Shape, Reason: "truncated poly payload"}
	}
	rec.PartIndex = make([]int32, numParts)
	for i := range rec.PartIndex {
		rec.PartIndex[i] = int32(binary.LittleEndian.Uint32(body[40+4*i:]))
	}
	verts := body[40+4*numParts:]
	rec.Vertices = make([][2]float64, numPoints)
	for i := range rec.Vertices {
		rec.Vertices[i] = [2]float64{
			readFloat64(verts[16*i:]),
			readFloat64(verts[16*i+8:]),
		}
	}
	return rec, nil
}

// encodePayload serializes one record's content bytes.
func encodePayload(rec RawRecord) []byte {
	switch rec.Shape {
	case ShapePoint:
		out := make([]byte, 20)
		binary.LittleEndian.PutUint32(out[0:4], uint32(rec.Shape))
		putFloat64(out[4:12], rec.X)
		putFloat64(out[12:20], rec.Y)
		return out
	case ShapePointM:
		out := make([]byte, 28)
		binary.LittleEndian.PutUint32(out[0:4], uint32(rec.Shape))
		putFloat64(out[4:12], rec.X)
		putFloat64(out[12:20], rec.Y)
		putFloat64(out[20:28], rec.M)
		return out
	case ShapePointZ:
		out := make([]byte, 36)
		binary.LittleEndian.PutUint32(out[0:4], uint32(rec.Shape))
		putFloat64(out[4:12], rec.X)
		putFloat64(out[12:20], rec.Y)
		putFloat64(out[20:28], rec.Z)
		putFloat64(out[28:36], rec.M)
		return out
	case ShapeArc, ShapePolygon:
		out := make([]byte, 44+4*len(rec.PartIndex)+16*len(rec.Vertices))
		binary.LittleEndian.PutUint32(out[0:4], uint32(rec.Shape))
		putFloat64(out[4:12], rec.BBox.XMin)
		putFloat64(out[12:20], rec.BBox.YMin)
		putFloat64(out[20:28], rec.BBox.XMax)
		putFloat64(out[28:36], rec.BBox.YMax)
		binary.LittleEndian.PutUint32(out[36:40], uint32(len(rec.PartIndex)))
		binary.LittleEndian.PutUint32(out[40:44], uint32(len(rec.Vertices)))
		for i, p := range rec.PartIndex {
			binary.LittleEndian.PutUint32(out[44+4*i:], uint32(p))
		}
		verts := out[44+4*len(rec.PartIndex):]
		for i, v := range rec.Vertices {
			putFloat64(verts[16*i:], v[0])
			putFloat64(verts[16*i+8:], v[1])
		}
		return out
	}
	// Null record: shape type tag only.
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(ShapeNull))
	return out
}

func readFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[:8]))
}

func putFloat64(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b[:8], math.Float64bits(v))
}
