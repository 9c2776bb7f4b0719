package exercise

import (
	"math"

	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
)

// Tests drive simulated time from a large epoch-style base so that the very
// first cooldown window (measured against LastRepTime zero) is already open,
// as it is with real wall-clock timestamps.
const t0 int64 = 1_700_000_000_000

func testTiming() Timing {
	return Timing{RepCooldownMS: 1000, HoldThresholdMS: 500}
}

func testThresholds() config.Thresholds {
	return config.Default().Thresholds
}

// frameOf builds a 33-point frame with only the given landmarks present.
func frameOf(points map[int]pose.Point) pose.Frame {
	f := make(pose.Frame, 33)
	for i, p := range points {
		pt := p
		f[i] = pose.Landmark{Pos: &pt}
	}
	return f
}

// jointAt places a point at distance r from vertex such that the interior
// angle at vertex between ray (toward `toward`) and the new point is deg.
func jointAt(vertex, toward pose.Point, deg, r float64) pose.Point {
	base := math.Atan2(toward.Y-vertex.Y, toward.X-vertex.X)
	a := base + deg*math.Pi/180
	return pose.Point{X: vertex.X + r*math.Cos(a), Y: vertex.Y + r*math.Sin(a)}
}

// leftArmFrame builds a frame whose left elbow angle is deg; the right arm is
// absent.
func leftArmFrame(deg float64) pose.Frame {
	shoulder := pose.Point{X: 0.5, Y: 0.2}
	elbow := pose.Point{X: 0.5, Y: 0.4}
	wrist := jointAt(elbow, shoulder, deg, 0.2)
	return frameOf(map[int]pose.Point{
		pose.LeftShoulder: shoulder,
		pose.LeftElbow:    elbow,
		pose.LeftWrist:    wrist,
	})
}

// bothArmsFrame builds a frame with both elbow angles set.
func bothArmsFrame(leftDeg, rightDeg float64) pose.Frame {
	leftShoulder := pose.Point{X: 0.4, Y: 0.2}
	leftElbow := pose.Point{X: 0.4, Y: 0.4}
	rightShoulder := pose.Point{X: 0.6, Y: 0.2}
	rightElbow := pose.Point{X: 0.6, Y: 0.4}
	return frameOf(map[int]pose.Point{
		pose.LeftShoulder:  leftShoulder,
		pose.LeftElbow:     leftElbow,
		pose.LeftWrist:     jointAt(leftElbow, leftShoulder, leftDeg, 0.2),
		pose.RightShoulder: rightShoulder,
		pose.RightElbow:    rightElbow,
		pose.RightWrist:    jointAt(rightElbow, rightShoulder, rightDeg, 0.2),
	})
}

// legsFrame builds a frame with per-leg knee angles and explicit knee
// heights. Ankles are derived from the knee angle, hips sit above the knees.
func legsFrame(leftKneeDeg, rightKneeDeg, leftKneeY, rightKneeY, hipY float64) pose.Frame {
	leftHip := pose.Point{X: 0.45, Y: hipY}
	rightHip := pose.Point{X: 0.55, Y: hipY}
	leftKnee := pose.Point{X: 0.45, Y: leftKneeY}
	rightKnee := pose.Point{X: 0.55, Y: rightKneeY}
	return frameOf(map[int]pose.Point{
		pose.LeftHip:    leftHip,
		pose.RightHip:   rightHip,
		pose.LeftKnee:   leftKnee,
		pose.RightKnee:  rightKnee,
		pose.LeftAnkle:  jointAt(leftKnee, leftHip, leftKneeDeg, 0.2),
		pose.RightAnkle: jointAt(rightKnee, rightHip, rightKneeDeg, 0.2),
	})
}
