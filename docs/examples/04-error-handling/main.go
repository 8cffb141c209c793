package main

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jlaura/shapeio/pkg/shp"
)

func main() {
	sess, err := shp.Open("mixed-quality.shp")
	if err != nil {
		// An unknown shape tag surfaces as *shp.ErrUnsupportedType.
		var unsupported *shp.ErrUnsupportedType
		if errors.As(err, &unsupported) {
			log.Fatalf("file holds %s records, which this tool cannot decode", unsupported.Tag)
		}
		log.Fatal(err)
	}
	defer sess.Close()

	// Read records one at a time so one bad record does not hide the rest.
	for {
		g, warnings, err := sess.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		// Warnings are advisories: the geometry was still decoded, with
		// repaired topology or as an empty placeholder.
		for _, w := range warnings {
			switch w := w.(type) {
			case *shp.TopologyWarning:
				fmt.Printf("repaired ring orientation in record %d\n", w.Position())
			case *shp.DegenerateShapeWarning:
				fmt.Printf("record %d is empty (%s with zero parts)\n", w.Position(), w.Variant)
			}
		}
		_ = g
	}
}
