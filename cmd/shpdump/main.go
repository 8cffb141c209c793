// Command shpdump inspects shapefiles: it prints the stream summary and
// per-record geometry structure, optionally emits the whole stream as
// GeoJSON, and answers bounding-box queries against a spatial index. Given
// a directory instead of a file it indexes every shapefile underneath and
// prints per-file metadata, filtered by -bounds when given.
//
// Usage:
//
//	shpdump [-geojson] [-bounds xmin,ymin,xmax,ymax] [-v] file.shp
//	shpdump [-bounds xmin,ymin,xmax,ymax] [-v] directory
//
// When no path argument is given the SHAPEIO_PATH environment variable is
// consulted; a .env file in the working directory is loaded first.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jlaura/shapeio/pkg/frame"
	"github.com/jlaura/shapeio/pkg/shp"
)

func main() {
	geojson := flag.Bool("geojson", false, "emit the stream as a GeoJSON FeatureCollection")
	bounds := flag.String("bounds", "", "query box as xmin,ymin,xmax,ymax")
	verbose := flag.Bool("v", false, "log decode diagnostics to stderr")
	flag.Parse()

	// Environment variables
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	path := flag.Arg(0)
	if path == "" {
		path = os.Getenv("SHAPEIO_PATH")
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: shpdump [flags] file.shp|directory")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			log.Fatal("failed to build logger:", err)
		}
		defer logger.Sync()
		shp.SetLogger(logger)
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Fatal(err)
	}
	if info.IsDir() {
		if err := indexDir(path, *bounds); err != nil {
			log.Fatal(err)
		}
		return
	}

	sess, err := shp.Open(path)
	if err != nil {
		log.Fatal("failed to open shapefile:", err)
	}
	defer sess.Close()

	switch {
	case *geojson:
		if err := dumpGeoJSON(sess); err != nil {
			log.Fatal(err)
		}
	case *bounds != "":
		box, err := parseBounds(*bounds)
		if err != nil {
			log.Fatal(err)
		}
		if err := queryBounds(sess, box); err != nil {
			log.Fatal(err)
		}
	default:
		if err := summarize(sess); err != nil {
			log.Fatal(err)
		}
	}
}

func summarize(sess *shp.Session) error {
	b := sess.BoundingBox()
	fmt.Printf("type:    %s\n", sess.Type())
	fmt.Printf("records: %d\n", sess.Len())
	fmt.Printf("bounds:  (%g, %g) - (%g, %g)\n", b.XMin, b.YMin, b.XMax, b.YMax)

	geoms, warnings, err := sess.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read stream: %w", err)
	}
	for pos, g := range geoms {
		switch g := g.(type) {
		case shp.Point:
			fmt.Printf("%6d  %-8s (%g, %g)\n", pos, g.Variant(), g.X, g.Y)
		case shp.Polyline:
			fmt.Printf("%6d  %-8s %d parts, %d vertices\n", pos, g.Variant(), len(g.Parts), vertexCount(g.Parts))
		case shp.Polygon:
			fmt.Printf("%6d  %-8s %d shells, %d holes\n", pos, g.Variant(), len(g.Shells), len(g.Holes))
		}
	}
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w.Warning())
	}
	return nil
}

func dumpGeoJSON(sess *shp.Session) error {
	series, _, err := frame.FromSession(sess)
	if err != nil {
		return fmt.Errorf("failed to build series: %w", err)
	}
	defer series.Release()

	out, err := series.ToGeoJSON()
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func indexDir(root, bounds string) error {
	idx, err := shp.BuildIndexFromDir(root)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", root, err)
	}
	entries := idx.All()
	if bounds != "" {
		box, err := parseBounds(bounds)
		if err != nil {
			return err
		}
		entries = idx.Query(box)
		fmt.Printf("%d of %d files intersect\n", len(entries), idx.Count())
	}
	for _, e := range entries {
		fmt.Printf("%-8s %6d  (%g, %g) - (%g, %g)  %s\n",
			e.Shape, e.Count,
			e.Bounds.XMin, e.Bounds.YMin, e.Bounds.XMax, e.Bounds.YMax, e.Path)
	}
	return nil
}

func queryBounds(sess *shp.Session, box shp.BBox) error {
	idx, _, err := shp.BuildIndex(sess)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	hits := idx.Query(box)
	fmt.Printf("%d of %d records intersect\n", len(hits), idx.Size())
	for _, hit := range hits {
		fmt.Printf("%6d  %s\n", hit.Pos, hit.Geometry.Variant())
	}
	return nil
}

func parseBounds(s string) (shp.BBox, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return shp.BBox{}, fmt.Errorf("bounds must be xmin,ymin,xmax,ymax, got %q", s)
	}
	vals := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return shp.BBox{}, fmt.Errorf("bad bounds value %q: %w", f, err)
		}
		vals[i] = v
	}
	return shp.BBox{XMin: vals[0], YMin: vals[1], XMax: vals[2], YMax: vals[3]}, nil
}

func vertexCount(parts []shp.Ring) int {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	return n
}
