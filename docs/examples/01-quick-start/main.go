package main

import (
	"fmt"
	"log"

	"github.com/jlaura/shapeio/pkg/shp"
)

func main() {
	// Open shapefile
	sess, err := shp.Open("counties.shp")
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	// Print stream info
	fmt.Printf("Type: %s\n", sess.Type())
	fmt.Printf("Records: %d\n", sess.Len())

	bounds := sess.BoundingBox()
	fmt.Printf("Bounds: [%.4f,%.4f] to [%.4f,%.4f]\n",
		bounds.XMin, bounds.YMin,
		bounds.XMax, bounds.YMax)

	// Read every geometry
	geoms, warnings, err := sess.ReadAll()
	if err != nil {
		log.Fatal(err)
	}
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w.Warning())
	}
	fmt.Printf("Decoded %d geometries\n", len(geoms))
}
