// Package frame exports decoded geometry streams as Apache Arrow record
// batches for columnar consumers.
//
// Each row carries the record's stream position, its variant name, its
// bounding box, and the geometry itself as a GeoJSON-encoded column.
package frame

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/jlaura/shapeio/pkg/shp"
)

// Column names of the series schema.
const (
	ColFID      = "FID"
	ColType     = "TYPE"
	ColXMin     = "XMIN"
	ColYMin     = "YMIN"
	ColXMax     = "XMAX"
	ColYMax     = "YMAX"
	ColGeometry = "GEOMETRY"
)

func seriesSchema() *arrow.Schema {
	return arrow.NewSchema(
		[]arrow.Field{
			{Name: ColFID, Type: arrow.PrimitiveTypes.Int64},
			{Name: ColType, Type: arrow.BinaryTypes.String},
			{Name: ColXMin, Type: arrow.PrimitiveTypes.Float64},
			{Name: ColYMin, Type: arrow.PrimitiveTypes.Float64},
			{Name: ColXMax, Type: arrow.PrimitiveTypes.Float64},
			{Name: ColYMax, Type: arrow.PrimitiveTypes.Float64},
			{Name: ColGeometry, Type: arrow.BinaryTypes.String},
		},
		nil,
	)
}

// Series is a columnar view over a decoded geometry stream.
type Series struct {
	records []arrow.RecordBatch
}

// FromGeometries builds a single-batch series from geometries in stream
// order.
func FromGeometries(geoms []shp.Geometry) (*Series, error) {
	pool := memory.NewGoAllocator()

	fidBuilder := array.NewInt64Builder(pool)
	typeBuilder := array.NewStringBuilder(pool)
	xminBuilder := array.NewFloat64Builder(pool)
	yminBuilder := array.NewFloat64Builder(pool)
	xmaxBuilder := array.NewFloat64Builder(pool)
	ymaxBuilder := array.NewFloat64Builder(pool)
	geomBuilder := array.NewStringBuilder(pool)

	defer fidBuilder.Release()
	defer typeBuilder.Release()
	defer xminBuilder.Release()
	defer yminBuilder.Release()
	defer xmaxBuilder.Release()
	defer ymaxBuilder.Release()
	defer geomBuilder.Release()

	for pos, g := range geoms {
		encoded, err := marshalGeometry(g)
		if err != nil {
			return nil, fmt.Errorf("failed to encode geometry %d: %w", pos, err)
		}
		b := shp.Bounds(g)
		fidBuilder.Append(int64(pos))
		typeBuilder.Append(g.Variant().String())
		xminBuilder.Append(b.XMin)
		yminBuilder.Append(b.YMin)
		xmaxBuilder.Append(b.XMax)
		ymaxBuilder.Append(b.YMax)
		geomBuilder.Append(string(encoded))
	}

	cols := []arrow.Array{
		fidBuilder.NewArray(),
		typeBuilder.NewArray(),
		xminBuilder.NewArray(),
		yminBuilder.NewArray(),
		xmaxBuilder.NewArray(),
		ymaxBuilder.NewArray(),
		geomBuilder.NewArray(),
	}
	rec := array.NewRecordBatch(seriesSchema(), cols, int64(len(geoms)))
	return &Series{records: []arrow.RecordBatch{rec}}, nil
}

// FromSession drains a read session into a series. Decode warnings are
// passed through; the session's cursor ends at 0 as after any full read.
func FromSession(s *shp.Session) (*Series, []shp.Warning, error) {
	geoms, warnings, err := s.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	series, err := FromGeometries(geoms)
	if err != nil {
		return nil, nil, err
	}
	return series, warnings, nil
}

// Records returns the underlying Arrow record batches.
func (s *Series) Records() []arrow.RecordBatch {
	return s.records
}

// Len returns the total row count across batches.
func (s *Series) Len() int {
	n := 0
	for _, rec := range s.records {
		n += int(rec.NumRows())
	}
	return n
}

// Release releases the Arrow buffers.
func (s *Series) Release() {
	for i := range s.records {
		s.records[i].Release()
	}
}
