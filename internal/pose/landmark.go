// Package pose holds the 2-D landmark data model and the angle math shared by
// all exercise classifiers. Coordinates are normalized image coordinates as
// produced by MediaPipe Pose: x grows rightward, y grows downward, both
// nominally in [0,1].
package pose

import "encoding/json"

// Indices into a 33-point MediaPipe Pose frame. Only the points the
// classifiers actually read are named.
const (
	Nose           = 0
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
)

// Point is a position in normalized image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmark is one estimated body joint. Pos is nil when the upstream model did
// not report both coordinates for the joint; the frontend omits the x/y keys
// entirely in that case, and key presence — not the visibility score — is what
// gates whether a classifier may use the point.
type Landmark struct {
	Pos        *Point
	Visibility *float64
}

// landmarkJSON mirrors the wire shape, with pointers so absent keys are
// distinguishable from zero values.
type landmarkJSON struct {
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	Visibility *float64 `json:"visibility,omitempty"`
}

// UnmarshalJSON decodes a landmark object, treating it as missing unless both
// x and y are present.
func (l *Landmark) UnmarshalJSON(data []byte) error {
	var raw landmarkJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Pos = nil
	l.Visibility = raw.Visibility
	if raw.X != nil && raw.Y != nil {
		l.Pos = &Point{X: *raw.X, Y: *raw.Y}
	}
	return nil
}

// MarshalJSON encodes the landmark back into its wire shape.
func (l Landmark) MarshalJSON() ([]byte, error) {
	raw := landmarkJSON{Visibility: l.Visibility}
	if l.Pos != nil {
		raw.X = &l.Pos.X
		raw.Y = &l.Pos.Y
	}
	return json.Marshal(raw)
}

// Frame is one full set of landmarks for an instant in time.
type Frame []Landmark

// At returns the point at index i and whether it is usable. Out-of-range
// indices behave like missing landmarks so short upper-body-only frames do not
// need padding.
func (f Frame) At(i int) (Point, bool) {
	if i < 0 || i >= len(f) {
		return Point{}, false
	}
	if f[i].Pos == nil {
		return Point{}, false
	}
	return *f[i].Pos, true
}

// Visible reports whether every index in idxs carries a usable point.
func (f Frame) Visible(idxs ...int) bool {
	for _, i := range idxs {
		if _, ok := f.At(i); !ok {
			return false
		}
	}
	return true
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
