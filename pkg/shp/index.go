package shp

import (
	"sort"

	"github.com/dhconnelly/rtreego"
)

// SpatialIndex provides fast bounding-box queries over decoded geometries.
//
// Entries are stored in an R-tree, so queries are O(log N) instead of a
// linear scan over the stream.
//
// Example:
//
//	sess, err := shp.Open("counties.shp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Close()
//
//	idx, _, err := shp.BuildIndex(sess)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	hits := idx.Query(shp.BBox{XMin: -87, YMin: 24, XMax: -80, YMax: 31})
type SpatialIndex struct {
	rtree *rtreego.Rtree
	size  int
}

// IndexEntry is one indexed geometry with its stream position.
type IndexEntry struct {
	Pos      int
	Geometry Geometry
	bounds   BBox
}

// rtreego requires strictly positive extents; degenerate boxes (points,
// vertical/horizontal lines) are padded by this much.
const degenerateExtent = 1e-9

// Bounds implements rtreego.Spatial.
func (e *IndexEntry) Bounds() rtreego.Rect {
	lengths := []float64{
		e.bounds.XMax - e.bounds.XMin,
		e.bounds.YMax - e.bounds.YMin,
	}
	for i := range lengths {
		if lengths[i] <= 0 {
			lengths[i] = degenerateExtent
		}
	}
	rect, _ := rtreego.NewRect(rtreego.Point{e.bounds.XMin, e.bounds.YMin}, lengths)
	return rect
}

// NewSpatialIndex creates an empty index.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{rtree: rtreego.NewTree(2, 25, 50)}
}

// Insert adds a geometry at the given stream position.
func (x *SpatialIndex) Insert(pos int, g Geometry) {
	x.rtree.Insert(&IndexEntry{Pos: pos, Geometry: g, bounds: Bounds(g)})
	x.size++
}

// Size returns the number of indexed geometries.
func (x *SpatialIndex) Size() int { return x.size }

// IsEmpty reports whether the index holds no geometries.
func (x *SpatialIndex) IsEmpty() bool { return x.size == 0 }

// Query returns the entries whose bounds intersect the query box, in stream
// order.
func (x *SpatialIndex) Query(b BBox) []*IndexEntry {
	lengths := []float64{b.XMax - b.XMin, b.YMax - b.YMin}
	for i := range lengths {
		if lengths[i] <= 0 {
			lengths[i] = degenerateExtent
		}
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.XMin, b.YMin}, lengths)
	if err != nil {
		return nil
	}
	var hits []*IndexEntry
	for _, spatial := range x.rtree.SearchIntersect(rect) {
		hits = append(hits, spatial.(*IndexEntry))
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Pos < hits[j].Pos })
	return hits
}

// BuildIndex drains a read session into a fresh index. The session's cursor
// is left at 0, as after any full-stream read. Decode warnings are passed
// through untouched.
func BuildIndex(s *Session) (*SpatialIndex, []Warning, error) {
	geoms, warnings, err := s.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	idx := NewSpatialIndex()
	for pos, g := range geoms {
		idx.Insert(pos, g)
	}
	return idx, warnings, nil
}
