package main

import (
	"fmt"
	"log"

	"github.com/jlaura/shapeio/pkg/shp"
)

func main() {
	sess, err := shp.Open("counties.shp")
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	// Index the whole stream once; queries are O(log N) afterwards.
	idx, _, err := shp.BuildIndex(sess)
	if err != nil {
		log.Fatal(err)
	}

	// Everything intersecting a region of interest, in stream order.
	region := shp.BBox{XMin: -87.0, YMin: 24.0, XMax: -80.0, YMax: 31.0}
	for _, hit := range idx.Query(region) {
		fmt.Printf("record %d: %s\n", hit.Pos, hit.Geometry.Variant())
	}
}
