package pose

import "math"

// Angle returns the interior angle at vertex b, in degrees within [0,180],
// formed by the rays b→a and b→c. Degenerate input (either ray has zero
// length, or the math produces a non-finite value) yields 0 rather than an
// error; a zero angle is never a counted phase in any classifier, so the
// neutral value is safe.
func Angle(a, b, c Point) float64 {
	bax := a.X - b.X
	bay := a.Y - b.Y
	bcx := c.X - b.X
	bcy := c.Y - b.Y

	magBA := math.Hypot(bax, bay)
	magBC := math.Hypot(bcx, bcy)
	if magBA == 0 || magBC == 0 {
		return 0
	}

	cos := (bax*bcx + bay*bcy) / (magBA * magBC)
	// Floating-point error can push the cosine marginally outside [-1,1].
	cos = math.Max(-1, math.Min(1, cos))

	deg := math.Acos(cos) * 180 / math.Pi
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	return deg
}

// AlignmentAngle returns the tilt of the segment from a to b against the
// horizontal, folded into [0,90]. 0 means the segment is horizontal. Used for
// pushup body-line checks where only the deviation matters, not direction.
func AlignmentAngle(a, b Point) float64 {
	deg := math.Abs(math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi)
	if deg > 90 {
		deg = 180 - deg
	}
	return deg
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
