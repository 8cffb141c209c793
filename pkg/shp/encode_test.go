package shp

import "testing"

func TestEncodePointTags(t *testing.T) {
	tests := []struct {
		name     string
		g        Point
		expected ShapeType
	}{
		{"plain", Point{X: 1, Y: 2}, TypePoint},
		{"measured", Point{X: 1, Y: 2, M: 3, HasM: true}, TypePointM},
		{"elevated", Point{X: 1, Y: 2, M: 3, Z: 4, HasM: true, HasZ: true}, TypePointZ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Encode(tt.g)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if rec.Shape != tt.expected {
				t.Errorf("tag %s, want %s", rec.Shape, tt.expected)
			}
			if rec.X != tt.g.X || rec.Y != tt.g.Y {
				t.Errorf("coordinates (%v, %v)", rec.X, rec.Y)
			}
			if rec.M != tt.g.M || rec.Z != tt.g.Z {
				t.Errorf("scalars M=%v Z=%v", rec.M, rec.Z)
			}
		})
	}
}

func TestEncodePolylineBBox(t *testing.T) {
	line := Polyline{Parts: []Ring{
		{{0, 0}, {5, 1}},
		{{-2, 3}, {1, 1}},
	}}
	rec, err := Encode(line)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// The format requires the bounding box on ARC records too.
	want := BBox{XMin: -2, YMin: 0, XMax: 5, YMax: 3}
	if rec.BBox != want {
		t.Fatalf("bbox %+v, want %+v", rec.BBox, want)
	}
	if len(rec.PartIndex) != 2 || rec.PartIndex[0] != 0 || rec.PartIndex[1] != 2 {
		t.Fatalf("part index %v", rec.PartIndex)
	}
}

func TestEncodePolygonHoleHandling(t *testing.T) {
	cwHole := Ring{{0.2, 0.2}, {0.2, 0.8}, {0.8, 0.8}, {0.8, 0.2}, {0.2, 0.2}}
	ccwHole := Reversed(cwHole)

	tests := []struct {
		name string
		hole Ring
	}{
		// A caller-supplied clockwise hole is reversed to the ccw convention.
		{"clockwise hole reversed", cwHole},
		// An already-ccw hole is written as-is; re-reversing it would
		// silently turn the hole into a shell on the next read.
		{"ccw hole not double reversed", ccwHole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Encode(Polygon{Shells: []Ring{cwSquare}, Holes: []Ring{tt.hole}})
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if rec.NumParts() != 2 {
				t.Fatalf("part count %d", rec.NumParts())
			}
			serialized := Ring(rec.Vertices[rec.PartIndex[1]:])
			if IsClockwise(serialized) {
				t.Fatal("hole must be serialized counter-clockwise")
			}
			if !EqualRings(serialized, ccwHole) {
				t.Fatalf("hole vertices corrupted: %v", serialized)
			}
		})
	}
}

func TestEncodePolygonShellOrientation(t *testing.T) {
	tests := []struct {
		name  string
		shell Ring
	}{
		// A counter-clockwise shell is reversed to the cw convention;
		// written verbatim it would decode as a hole on the next read.
		{"ccw shell reversed", ccwSquare},
		// An already-cw shell is written as-is.
		{"cw shell not double reversed", cwSquare},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Encode(Polygon{Shells: []Ring{tt.shell}})
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			serialized := Ring(rec.Vertices)
			if !IsClockwise(serialized) {
				t.Fatal("shell must be serialized clockwise")
			}
			if !EqualRings(serialized, cwSquare) {
				t.Fatalf("shell vertices corrupted: %v", serialized)
			}

			g, warnings, err := Decode(rec, TypePolygon, 0)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(warnings) != 0 {
				t.Fatalf("conformant record produced warnings: %v", warnings)
			}
			poly := g.(Polygon)
			if len(poly.Shells) != 1 || len(poly.Holes) != 0 {
				t.Fatalf("got %d shells %d holes, want the shell back",
					len(poly.Shells), len(poly.Holes))
			}
		})
	}
}

func TestEncodePolygonPartOrderAndBBox(t *testing.T) {
	shellB := Ring{{10, 10}, {10, 12}, {12, 12}, {12, 10}, {10, 10}}
	hole := Ring{{0.2, 0.2}, {0.2, 0.8}, {0.8, 0.8}, {0.8, 0.2}, {0.2, 0.2}}
	rec, err := Encode(Polygon{Shells: []Ring{cwSquare, shellB}, Holes: []Ring{hole}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Shells in original order first, then holes.
	if rec.NumParts() != 3 {
		t.Fatalf("part count %d", rec.NumParts())
	}
	first := Ring(rec.Vertices[rec.PartIndex[0]:rec.PartIndex[1]])
	second := Ring(rec.Vertices[rec.PartIndex[1]:rec.PartIndex[2]])
	if !EqualRings(first, cwSquare) || !EqualRings(second, shellB) {
		t.Fatal("shells not serialized in original order")
	}

	// Box spans shells and holes alike.
	want := BBox{XMin: 0, YMin: 0, XMax: 12, YMax: 12}
	if rec.BBox != want {
		t.Fatalf("bbox %+v, want %+v", rec.BBox, want)
	}
}

func TestEncodeSkipsEmptyHoles(t *testing.T) {
	rec, err := Encode(Polygon{Shells: []Ring{cwSquare}, Holes: []Ring{{}}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if rec.NumParts() != 1 {
		t.Fatalf("empty hole must be dropped, part count %d", rec.NumParts())
	}
}

func TestEncodePartIndexInvariant(t *testing.T) {
	geoms := []Geometry{
		Polyline{Parts: []Ring{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}, {4, 4}}}},
		Polygon{Shells: []Ring{cwSquare}},
		Polygon{
			Shells: []Ring{cwSquare, {{10, 10}, {10, 12}, {12, 12}, {10, 10}}},
			Holes:  []Ring{{{0.2, 0.2}, {0.2, 0.8}, {0.8, 0.8}, {0.2, 0.2}}},
		},
	}
	for _, g := range geoms {
		rec, err := Encode(g)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if rec.NumParts() == 0 {
			t.Fatal("expected parts")
		}
		if rec.PartIndex[0] != 0 {
			t.Fatalf("part index starts at %d", rec.PartIndex[0])
		}
		for i := 1; i < len(rec.PartIndex); i++ {
			if rec.PartIndex[i] <= rec.PartIndex[i-1] {
				t.Fatalf("part index not strictly increasing: %v", rec.PartIndex)
			}
		}
		if int(rec.PartIndex[len(rec.PartIndex)-1]) >= rec.NumPoints() {
			t.Fatalf("last part offset %d with %d vertices",
				rec.PartIndex[len(rec.PartIndex)-1], rec.NumPoints())
		}
	}
}

// Round trip: decode(encode(g)) describes the same geometry up to ring
// rotation and closure normalization.
func TestRoundTrip(t *testing.T) {
	hole := Ring{{0.2, 0.2}, {0.2, 0.8}, {0.8, 0.8}, {0.8, 0.2}, {0.2, 0.2}}
	tests := []struct {
		name string
		g    Geometry
	}{
		{"point", Point{X: -71.05, Y: 42.35}},
		{"measured point", Point{X: 1, Y: 2, M: 3, HasM: true}},
		{"elevated point", Point{X: 1, Y: 2, M: 3, Z: 4, HasM: true, HasZ: true}},
		{"polyline", Polyline{Parts: []Ring{{{0, 0}, {1, 1}, {2, 0}}}}},
		{"polygon", Polygon{Shells: []Ring{cwSquare}, Holes: []Ring{hole}}},
		{
			"multi shell polygon",
			Polygon{Shells: []Ring{cwSquare, {{10, 10}, {10, 12}, {12, 12}, {12, 10}, {10, 10}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Encode(tt.g)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, warnings, err := Decode(rec, TagFor(tt.g), 0)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if len(warnings) != 0 {
				t.Fatalf("round trip produced warnings: %v", warnings)
			}
			assertSameGeometry(t, tt.g, got)
		})
	}
}

func assertSameGeometry(t *testing.T, want, got Geometry) {
	t.Helper()
	if want.Variant() != got.Variant() {
		t.Fatalf("variant %s, want %s", got.Variant(), want.Variant())
	}
	switch want := want.(type) {
	case Point:
		if got.(Point) != want {
			t.Fatalf("point %+v, want %+v", got, want)
		}
	case Polyline:
		got := got.(Polyline)
		if len(got.Parts) != len(want.Parts) {
			t.Fatalf("part count %d, want %d", len(got.Parts), len(want.Parts))
		}
		for i := range want.Parts {
			if !EqualRings(got.Parts[i], want.Parts[i]) {
				t.Fatalf("part %d differs", i)
			}
		}
	case Polygon:
		got := got.(Polygon)
		if len(got.Shells) != len(want.Shells) || len(got.Holes) != len(want.Holes) {
			t.Fatalf("got %d shells %d holes, want %d shells %d holes",
				len(got.Shells), len(got.Holes), len(want.Shells), len(want.Holes))
		}
		for i := range want.Shells {
			if !EqualRings(got.Shells[i], want.Shells[i]) {
				t.Fatalf("shell %d differs", i)
			}
		}
		for i := range want.Holes {
			hole := want.Holes[i]
			if IsClockwise(hole) {
				hole = Reversed(hole)
			}
			if !EqualRings(got.Holes[i], hole) {
				t.Fatalf("hole %d differs", i)
			}
		}
	}
}
