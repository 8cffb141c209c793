package main

import (
	"log"

	"github.com/jlaura/shapeio/pkg/shp"
)

func main() {
	// A write session locks its record type on the first write:
	// every later geometry must be the same variant.
	sess := shp.Create("squares.shp")

	square := shp.Ring{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}} // clockwise shell
	hole := shp.Ring{{2, 2}, {2, 4}, {4, 4}, {4, 2}, {2, 2}}       // reversed to ccw on write

	polygons := []shp.Polygon{
		{Shells: []shp.Ring{square}, Holes: []shp.Ring{hole}},
		{Shells: []shp.Ring{{{20, 20}, {20, 30}, {30, 30}, {30, 20}, {20, 20}}}},
	}
	for _, p := range polygons {
		if err := sess.Write(p); err != nil {
			log.Fatal(err)
		}
	}

	// Writing a different variant now fails with *shp.ErrTypeMismatch.
	if err := sess.Write(shp.Point{X: 1, Y: 2}); err != nil {
		log.Printf("as expected: %v", err)
	}

	// Close finalizes the header and the .shx index.
	if err := sess.Close(); err != nil {
		log.Fatal(err)
	}
}
