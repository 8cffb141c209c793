package shp

// Ring orientation is the load-bearing convention of the whole codec: shells
// are stored clockwise, holes counter-clockwise. One signed-area
// implementation backs both the decoder's classification and the encoder's
// hole handling so the two directions cannot drift apart.

// SignedArea computes the shoelace area of a ring, including the wrap-around
// edge from the last vertex back to the first. With y increasing upward the
// result is positive for counter-clockwise rings and negative for clockwise
// rings.
func SignedArea(r Ring) float64 {
	if len(r) < 3 {
		return 0
	}
	var sum float64
	for i, v := range r {
		next := r[(i+1)%len(r)]
		sum += v[0]*next[1] - next[0]*v[1]
	}
	return sum / 2
}

// IsClockwise reports whether a ring winds clockwise, the shell orientation.
func IsClockwise(r Ring) bool {
	return SignedArea(r) < 0
}

// Reversed returns a copy of the ring with vertex order inverted, flipping
// its orientation. The input is not modified.
func Reversed(r Ring) Ring {
	out := make(Ring, len(r))
	for i, v := range r {
		out[len(r)-1-i] = v
	}
	return out
}

// EqualRings reports whether two rings describe the same boundary, ignoring
// which vertex the ring starts at and whether the closing vertex is repeated.
// Orientation is significant: a ring and its reverse are not equal.
func EqualRings(a, b Ring) bool {
	a, b = openRing(a), openRing(b)
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	for shift := range b {
		if ringsMatchAt(a, b, shift) {
			return true
		}
	}
	return false
}

func ringsMatchAt(a, b Ring, shift int) bool {
	for i := range a {
		if a[i] != b[(i+shift)%len(b)] {
			return false
		}
	}
	return true
}

// openRing drops the repeated closing vertex, if present.
func openRing(r Ring) Ring {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}
