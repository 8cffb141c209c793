package frame

import (
	"encoding/json"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/jlaura/shapeio/pkg/shp"
)

// GeoJSONFeatureCollection represents a GeoJSON FeatureCollection
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// GeoJSONFeature represents a GeoJSON Feature
type GeoJSONFeature struct {
	Type       string                 `json:"type"`
	BBox       []float64              `json:"bbox,omitempty"`
	Geometry   json.RawMessage        `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type geoJSONGeometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// marshalGeometry encodes one geometry as a GeoJSON geometry object.
//
// Polylines map to MultiLineString. Polygons map to Polygon with the shell
// rings first and the hole rings after them; hole-to-shell pairing is not
// modeled by the codec, so no attempt is made to regroup multi-shell
// polygons into a MultiPolygon.
func marshalGeometry(g shp.Geometry) ([]byte, error) {
	switch g := g.(type) {
	case shp.Point:
		coords := []float64{g.X, g.Y}
		if g.HasZ {
			coords = append(coords, g.Z)
		}
		return json.Marshal(geoJSONGeometry{Type: "Point", Coordinates: coords})
	case shp.Polyline:
		lines := make([][][]float64, 0, len(g.Parts))
		for _, part := range g.Parts {
			lines = append(lines, ringCoords(part, false))
		}
		return json.Marshal(geoJSONGeometry{Type: "MultiLineString", Coordinates: lines})
	case shp.Polygon:
		rings := make([][][]float64, 0, len(g.Shells)+len(g.Holes))
		for _, ring := range g.Shells {
			rings = append(rings, ringCoords(ring, true))
		}
		for _, ring := range g.Holes {
			rings = append(rings, ringCoords(ring, true))
		}
		return json.Marshal(geoJSONGeometry{Type: "Polygon", Coordinates: rings})
	}
	return nil, fmt.Errorf("cannot encode %s geometry", g.Variant())
}

// ringCoords converts a ring to GeoJSON positions, closing it when asked.
func ringCoords(r shp.Ring, closed bool) [][]float64 {
	out := make([][]float64, 0, len(r)+1)
	for _, v := range r {
		out = append(out, []float64{v[0], v[1]})
	}
	if closed && len(r) > 0 && r[0] != r[len(r)-1] {
		out = append(out, []float64{r[0][0], r[0][1]})
	}
	return out
}

// ToGeoJSON converts the series into a GeoJSON FeatureCollection.
func (s *Series) ToGeoJSON() ([]byte, error) {
	fc := GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]GeoJSONFeature, 0, s.Len()),
	}

	for _, batch := range s.records {
		schema := batch.Schema()
		col := func(name string) (int, error) {
			indices := schema.FieldIndices(name)
			if len(indices) == 0 {
				return 0, fmt.Errorf("column %s not found in series", name)
			}
			return indices[0], nil
		}

		fidIdx, err := col(ColFID)
		if err != nil {
			return nil, err
		}
		typeIdx, err := col(ColType)
		if err != nil {
			return nil, err
		}
		geomIdx, err := col(ColGeometry)
		if err != nil {
			return nil, err
		}
		boxIdx := make([]int, 4)
		for i, name := range []string{ColXMin, ColYMin, ColXMax, ColYMax} {
			if boxIdx[i], err = col(name); err != nil {
				return nil, err
			}
		}

		fids := batch.Column(fidIdx).(*array.Int64)
		types := batch.Column(typeIdx).(*array.String)
		geoms := batch.Column(geomIdx).(*array.String)
		box := make([]*array.Float64, 4)
		for i := range boxIdx {
			box[i] = batch.Column(boxIdx[i]).(*array.Float64)
		}

		for row := 0; row < int(batch.NumRows()); row++ {
			fc.Features = append(fc.Features, GeoJSONFeature{
				Type: "Feature",
				BBox: []float64{
					box[0].Value(row), box[1].Value(row),
					box[2].Value(row), box[3].Value(row),
				},
				Geometry: json.RawMessage(geoms.Value(row)),
				Properties: map[string]interface{}{
					"FID":  fids.Value(row),
					"TYPE": types.Value(row),
				},
			})
		}
	}

	return json.Marshal(fc)
}
