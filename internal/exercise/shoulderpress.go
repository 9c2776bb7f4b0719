package exercise

import (
	"math"

	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// ShoulderPress combines elbow angles with wrist-above-shoulder checks and a
// frame-to-frame upward-motion verification: a press only counts when the
// wrists actually traveled upward since the previous frame, which filters out
// starting the session with arms already overhead.
type ShoulderPress struct {
	t      config.ShoulderPressThresholds
	timing Timing
}

func NewShoulderPress(t config.ShoulderPressThresholds, timing Timing) *ShoulderPress {
	return &ShoulderPress{t: t, timing: timing}
}

func (c *ShoulderPress) Name() string { return "shoulderPress" }

func (c *ShoulderPress) Classify(frame pose.Frame, st *session.State, now int64) (*Result, error) {
	angles := map[string]Marker{}

	leftShoulder, lsOK := frame.At(pose.LeftShoulder)
	leftElbow, leOK := frame.At(pose.LeftElbow)
	leftWrist, lwOK := frame.At(pose.LeftWrist)
	rightShoulder, rsOK := frame.At(pose.RightShoulder)
	rightElbow, reOK := frame.At(pose.RightElbow)
	rightWrist, rwOK := frame.At(pose.RightWrist)

	leftVisible := lsOK && leOK && lwOK
	rightVisible := rsOK && reOK && rwOK
	if !leftVisible && !rightVisible {
		return notClear(st, "Position not clear - make sure your arms are visible"), nil
	}

	var leftAngle, rightAngle float64
	var leftWristY, rightWristY *float64
	leftAbove := false
	rightAbove := false
	leftElbowAtShoulder := false
	rightElbowAtShoulder := false

	if leftVisible {
		leftAngle = pose.Angle(leftWrist, leftElbow, leftShoulder)
		angles["L"] = Marker{Value: leftAngle, Position: leftElbow}
		y := leftWrist.Y
		leftWristY = &y
		leftAbove = leftWrist.Y < leftShoulder.Y
		leftElbowAtShoulder = math.Abs(leftElbow.Y-leftShoulder.Y) < c.t.ElbowShoulderTol
		angles["LWristPos"] = Marker{Value: boolValue(leftAbove), Position: leftWrist}
	}
	if rightVisible {
		rightAngle = pose.Angle(rightWrist, rightElbow, rightShoulder)
		angles["R"] = Marker{Value: rightAngle, Position: rightElbow}
		y := rightWrist.Y
		rightWristY = &y
		rightAbove = rightWrist.Y < rightShoulder.Y
		rightElbowAtShoulder = math.Abs(rightElbow.Y-rightShoulder.Y) < c.t.ElbowShoulderTol
		angles["RWristPos"] = Marker{Value: boolValue(rightAbove), Position: rightWrist}
	}

	var avgElbow float64
	switch {
	case leftVisible && rightVisible:
		avgElbow = (leftAngle + rightAngle) / 2
		mid := pose.Midpoint(leftElbow, rightElbow)
		angles["Avg"] = Marker{Value: avgElbow, Position: mid}
	case leftVisible:
		avgElbow = leftAngle
	default:
		avgElbow = rightAngle
	}

	bothAbove := leftAbove && rightAbove
	oneAbove := leftAbove || rightAbove
	elbowsAtShoulder := leftElbowAtShoulder || rightElbowAtShoulder

	// Upward motion since the previous frame, beyond jitter.
	movingUpward := false
	if leftWristY != nil && st.PrevLeftWristY != nil {
		movingUp := *leftWristY < *st.PrevLeftWristY
		angles["LMovingUp"] = Marker{Value: boolValue(movingUp), Position: pose.Point{X: leftWrist.X - 0.1, Y: leftWrist.Y}}
		if movingUp && *st.PrevLeftWristY-*leftWristY > c.t.MinUpwardMove {
			movingUpward = true
		}
	}
	if rightWristY != nil && st.PrevRightWristY != nil {
		movingUp := *rightWristY < *st.PrevRightWristY
		angles["RMovingUp"] = Marker{Value: boolValue(movingUp), Position: pose.Point{X: rightWrist.X + 0.1, Y: rightWrist.Y}}
		if movingUp && *st.PrevRightWristY-*rightWristY > c.t.MinUpwardMove {
			movingUpward = true
		}
	}

	inDown := avgElbow < c.t.DownElbowMax && (elbowsAtShoulder || !bothAbove)
	inUp := (avgElbow > c.t.UpBothMin && bothAbove) || (avgElbow > c.t.UpSingleMin && oneAbove)

	feedback := ""
	switch {
	case inDown:
		if st.Stage == "up" {
			st.Stage = "down"
			feedback = "Ready for next rep"
		} else {
			feedback = "Ready position"
		}
		st.HoldStart = now
	case inUp:
		if st.Stage == "down" && movingUpward {
			if c.timing.CooldownPassed(now, st.LastRepTime) {
				st.RepCounter++
				st.LastRepTime = now
				st.Stage = "up"
				feedback = "Rep complete!"
			} else {
				feedback = "Slow down slightly"
			}
		} else if st.Stage == "up" {
			feedback = "Lower arms to shoulder level for next rep"
		}
	case oneAbove && !bothAbove:
		feedback = "Press both arms evenly"
	}
	if feedback == "" {
		if st.Stage == "up" {
			feedback = "Lower arms to shoulder level"
		} else {
			feedback = "Continue the movement"
		}
	}

	st.PrevLeftWristY = leftWristY
	st.PrevRightWristY = rightWristY

	return &Result{
		RepCounter: st.RepCounter,
		Stage:      st.Stage,
		Feedback:   feedback,
		Angles:     angles,
	}, nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
