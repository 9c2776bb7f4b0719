package exercise

import (
	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// JumpingJacks separates the closed and open silhouettes on a conjunction of
// signals: arm elevation (elbow-shoulder-hip angle), ankle spread normalized
// by shoulder width, and an upright torso (shoulder-hip-knee angle) in both
// phases. The closed-to-open transition counts, cooldown gated; there is no
// dwell since the movement is continuous.
type JumpingJacks struct {
	t      config.JumpingJacksThresholds
	timing Timing
}

func NewJumpingJacks(t config.JumpingJacksThresholds, timing Timing) *JumpingJacks {
	return &JumpingJacks{t: t, timing: timing}
}

func (c *JumpingJacks) Name() string { return "jumpingJacks" }

func (c *JumpingJacks) Classify(frame pose.Frame, st *session.State, now int64) (*Result, error) {
	leftShoulder, a := frame.At(pose.LeftShoulder)
	rightShoulder, b := frame.At(pose.RightShoulder)
	leftElbow, d := frame.At(pose.LeftElbow)
	rightElbow, e := frame.At(pose.RightElbow)
	leftHip, f := frame.At(pose.LeftHip)
	rightHip, g := frame.At(pose.RightHip)
	leftAnkle, h := frame.At(pose.LeftAnkle)
	rightAnkle, i := frame.At(pose.RightAnkle)

	if !(a && b && d && e && f && g && h && i) {
		return notClear(st, "Position not clear - full body must be visible"), nil
	}

	angles := map[string]Marker{}

	leftArm := pose.Angle(leftElbow, leftShoulder, leftHip)
	rightArm := pose.Angle(rightElbow, rightShoulder, rightHip)
	armAvg := (leftArm + rightArm) / 2
	angles["LArm"] = Marker{Value: leftArm, Position: leftShoulder}
	angles["RArm"] = Marker{Value: rightArm, Position: rightShoulder}

	shoulderWidth := pose.Dist(leftShoulder, rightShoulder)
	spread := 0.0
	if shoulderWidth > 0 {
		spread = pose.Dist(leftAnkle, rightAnkle) / shoulderWidth
	}
	angles["Spread"] = Marker{Value: spread, Position: pose.Midpoint(leftAnkle, rightAnkle)}

	upright := true
	if leftKnee, ok := frame.At(pose.LeftKnee); ok {
		if pose.Angle(leftShoulder, leftHip, leftKnee) < c.t.HipUprightMin {
			upright = false
		}
		angles["LHip"] = Marker{Value: pose.Angle(leftShoulder, leftHip, leftKnee), Position: leftHip}
	}
	if rightKnee, ok := frame.At(pose.RightKnee); ok {
		if pose.Angle(rightShoulder, rightHip, rightKnee) < c.t.HipUprightMin {
			upright = false
		}
		angles["RHip"] = Marker{Value: pose.Angle(rightShoulder, rightHip, rightKnee), Position: rightHip}
	}

	open := armAvg > c.t.OpenArmMin && spread > c.t.OpenSpreadMin && upright
	closed := armAvg < c.t.ClosedArmMax && spread < c.t.ClosedSpreadMax && upright

	feedback := ""
	if closed {
		if st.Stage == "open" {
			feedback = "Closed - ready for next jack"
		}
		st.Stage = "closed"
	}
	if open && st.Stage == "closed" {
		if c.timing.CooldownPassed(now, st.LastRepTime) {
			st.Stage = "open"
			st.RepCounter++
			st.LastRepTime = now
			feedback = "Rep counted!"
		} else {
			feedback = "Slow down slightly"
		}
	}
	if feedback == "" {
		switch {
		case !upright:
			feedback = "Stay upright"
		case st.Stage == "closed":
			feedback = "Jump out - arms up, feet wide"
		default:
			feedback = "Jump back to standing"
		}
	}

	return &Result{
		RepCounter: st.RepCounter,
		Stage:      st.Stage,
		Feedback:   feedback,
		Angles:     angles,
	}, nil
}
