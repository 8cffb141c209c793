package shp

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jlaura/shapeio/internal/shpfile"
)

// FileIndex provides spatial queries over a collection of shapefiles.
//
// The index stores lightweight metadata for each file (declared type, record
// count, bounds) without decoding any geometry, so whole directory trees can
// be indexed cheaply and only the files intersecting a region of interest
// opened for real reads.
//
// Example:
//
//	idx, err := shp.BuildIndexFromDir("/data/tiger")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	files := idx.Query(shp.BBox{XMin: -87, YMin: 24, XMax: -80, YMax: 31})
//	fmt.Printf("%d of %d files cover the region\n", len(files), idx.Count())
type FileIndex struct {
	files []FileEntry
}

// FileEntry contains indexed metadata for a single shapefile.
type FileEntry struct {
	Path   string    // path to the .shp main file
	Shape  ShapeType // declared shape type
	Count  int       // record count
	Bounds BBox      // file-level bounding box
}

// BuildIndexFromDir builds a file index by scanning a directory tree.
//
// Every .shp file under root is opened for its header metadata and closed
// again; no records are decoded. A file that cannot be opened is skipped
// with a logged warning so one corrupt file does not sink the whole scan.
// A tree containing no .shp files at all is an error.
func BuildIndexFromDir(root string) (*FileIndex, error) {
	var entries []FileEntry
	found := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".shp") {
			return nil
		}
		found++
		store, err := shpfile.Open(path)
		if err != nil {
			Logger().Warn("skipping unreadable shapefile",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		entries = append(entries, FileEntry{
			Path:   path,
			Shape:  store.DeclaredType(),
			Count:  store.RecordCount(),
			Bounds: store.BoundingBox(),
		})
		return store.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	if found == 0 {
		return nil, fmt.Errorf("no shapefiles found in %s", root)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no shapefiles could be indexed in %s (%d unreadable)", root, found)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return &FileIndex{files: entries}, nil
}

// Query returns the entries whose bounds intersect the query box, in path
// order. An empty file (zero records, zero box) matches only boxes that
// contain the origin, the convention its normalized bounds imply.
func (idx *FileIndex) Query(b BBox) []FileEntry {
	var result []FileEntry
	for _, entry := range idx.files {
		if entry.Bounds.Intersects(b) {
			result = append(result, entry)
		}
	}
	return result
}

// Count returns the number of indexed files.
func (idx *FileIndex) Count() int { return len(idx.files) }

// Bounds returns the union of all indexed file bounds.
func (idx *FileIndex) Bounds() BBox {
	union := shpfile.EmptyBBox()
	for _, entry := range idx.files {
		union.Extend(entry.Bounds)
	}
	if union.IsEmpty() {
		return BBox{}
	}
	return union
}

// All returns every entry in path order.
func (idx *FileIndex) All() []FileEntry {
	return idx.files
}
