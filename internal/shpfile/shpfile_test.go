package shpfile

import (
	"errors"
	"testing"
)

func TestShapeTypeString(t *testing.T) {
	tests := []struct {
		tag      ShapeType
		expected string
	}{
		{ShapeNull, "NULL"},
		{ShapePoint, "POINT"},
		{ShapeArc, "ARC"},
		{ShapePolygon, "POLYGON"},
		{ShapePointZ, "POINTZ"},
		{ShapePointM, "POINTM"},
		{ShapeType(99), "SHAPETYPE(99)"},
	}
	for _, tt := range tests {
		if got := tt.tag.String(); got != tt.expected {
			t.Errorf("ShapeType(%d).String() = %q, want %q", tt.tag, got, tt.expected)
		}
	}
}

func TestBBoxExtend(t *testing.T) {
	b := EmptyBBox()
	if !b.IsEmpty() {
		t.Fatal("EmptyBBox should report empty")
	}
	b.ExtendPoint(2, 3)
	if b.IsEmpty() {
		t.Fatal("box no longer empty after extend")
	}
	if b != (BBox{XMin: 2, YMin: 3, XMax: 2, YMax: 3}) {
		t.Fatalf("extend of empty box: got %+v", b)
	}
	b.ExtendPoint(-1, 7)
	want := BBox{XMin: -1, YMin: 3, XMax: 2, YMax: 7}
	if b != want {
		t.Fatalf("got %+v, want %+v", b, want)
	}
	b.Extend(BBox{XMin: -5, YMin: -5, XMax: 1, YMax: 1})
	if b.XMin != -5 || b.YMin != -5 || b.XMax != 2 || b.YMax != 7 {
		t.Fatalf("merged bounds wrong: %+v", b)
	}
}

func TestBBoxIntersects(t *testing.T) {
	base := BBox{XMin: 0, YMin: 0, XMax: 10, YMax: 10}
	tests := []struct {
		name     string
		other    BBox
		expected bool
	}{
		{"overlapping", BBox{XMin: 5, YMin: 5, XMax: 15, YMax: 15}, true},
		{"contained", BBox{XMin: 2, YMin: 2, XMax: 3, YMax: 3}, true},
		{"boundary contact", BBox{XMin: 10, YMin: 10, XMax: 20, YMax: 20}, true},
		{"disjoint x", BBox{XMin: 11, YMin: 0, XMax: 20, YMax: 10}, false},
		{"disjoint y", BBox{XMin: 0, YMin: -5, XMax: 10, YMax: -1}, false},
		{"empty other", EmptyBBox(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.expected {
				t.Errorf("Intersects() = %v, want %v", got, tt.expected)
			}
			if got := tt.other.Intersects(base); got != tt.expected {
				t.Errorf("Intersects() not symmetric: %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRawRecordValidate(t *testing.T) {
	square := [][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	tests := []struct {
		name    string
		rec     RawRecord
		wantErr bool
	}{
		{
			name: "single part polygon",
			rec:  RawRecord{Shape: ShapePolygon, PartIndex: []int32{0}, Vertices: square},
		},
		{
			name: "two part arc",
			rec: RawRecord{
				Shape:     ShapeArc,
				PartIndex: []int32{0, 2},
				Vertices:  [][2]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}},
			},
		},
		{
			name: "empty record",
			rec:  RawRecord{Shape: ShapePolygon},
		},
		{
			name:    "part index not starting at zero",
			rec:     RawRecord{Shape: ShapePolygon, PartIndex: []int32{1, 3}, Vertices: square},
			wantErr: true,
		},
		{
			name:    "non increasing part index",
			rec:     RawRecord{Shape: ShapePolygon, PartIndex: []int32{0, 3, 3}, Vertices: square},
			wantErr: true,
		},
		{
			name:    "part offset beyond vertices",
			rec:     RawRecord{Shape: ShapeArc, PartIndex: []int32{0, 9}, Vertices: square},
			wantErr: true,
		},
		{
			name:    "vertices with empty part index",
			rec:     RawRecord{Shape: ShapePolygon, Vertices: square},
			wantErr: true,
		},
		{
			name: "point records skip part index checks",
			rec:  RawRecord{Shape: ShapePoint, X: 1, Y: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *ErrInvalidRecord
				if !errors.As(err, &invalid) {
					t.Fatalf("expected *ErrInvalidRecord, got %T", err)
				}
			}
		})
	}
}

func TestMemStore(t *testing.T) {
	store := NewMemStore(ShapePoint)
	if store.RecordCount() != 0 {
		t.Fatal("new store not empty")
	}
	if err := store.Append(RawRecord{Shape: ShapePoint, X: 3, Y: 4}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(RawRecord{Shape: ShapePolygon, PartIndex: []int32{0}, Vertices: [][2]float64{{0, 0}}}); err == nil {
		t.Fatal("heterogeneous append should fail")
	}

	rec, err := store.Record(0)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.X != 3 || rec.Y != 4 {
		t.Fatalf("got (%v, %v), want (3, 4)", rec.X, rec.Y)
	}

	var oor *ErrOutOfRange
	if _, err := store.Record(1); !errors.As(err, &oor) {
		t.Fatalf("expected *ErrOutOfRange, got %v", err)
	}

	if got := store.BoundingBox(); got != (BBox{XMin: 3, YMin: 4, XMax: 3, YMax: 4}) {
		t.Fatalf("bounds %+v", got)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := store.Record(0); err == nil {
		t.Fatal("read after close should fail")
	}
}
