package exercise

import (
	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// Pushup gates arm-bend transitions on a plank precondition: straight arms
// with the shoulders low enough in the frame arm the machine, and the
// shoulder-to-hip line is checked for sag. The bend counts after hold and
// cooldown.
type Pushup struct {
	t      config.PushupThresholds
	timing Timing
}

func NewPushup(t config.PushupThresholds, timing Timing) *Pushup {
	return &Pushup{t: t, timing: timing}
}

func (c *Pushup) Name() string { return "pushup" }

func (c *Pushup) Classify(frame pose.Frame, st *session.State, now int64) (*Result, error) {
	angles := map[string]Marker{}
	var warnings []string

	leftAngle, leftElbow, leftOK := armAngle(frame, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist)
	rightAngle, rightElbow, rightOK := armAngle(frame, pose.RightShoulder, pose.RightElbow, pose.RightWrist)

	if leftOK {
		angles["L"] = Marker{Value: leftAngle, Position: pose.Point{X: leftElbow.X + 0.05, Y: leftElbow.Y}}
	}
	if rightOK {
		angles["R"] = Marker{Value: rightAngle, Position: pose.Point{X: rightElbow.X + 0.05, Y: rightElbow.Y}}
	}

	var avgElbow float64
	haveElbow := true
	switch {
	case leftOK && rightOK:
		avgElbow = (leftAngle + rightAngle) / 2
		mid := pose.Midpoint(leftElbow, rightElbow)
		angles["Avg"] = Marker{Value: avgElbow, Position: pose.Point{X: mid.X, Y: mid.Y - 0.05}}
	case leftOK:
		avgElbow = leftAngle
	case rightOK:
		avgElbow = rightAngle
	default:
		haveElbow = false
	}

	leftShoulder, lsOK := frame.At(pose.LeftShoulder)
	rightShoulder, rsOK := frame.At(pose.RightShoulder)
	haveHeight := lsOK && rsOK
	var bodyHeight float64
	if haveHeight {
		bodyHeight = (leftShoulder.Y + rightShoulder.Y) / 2
		mid := pose.Midpoint(leftShoulder, rightShoulder)
		angles["Height"] = Marker{Value: bodyHeight * 100, Position: pose.Point{X: mid.X, Y: bodyHeight - 0.05}}
	}

	leftHip, lhOK := frame.At(pose.LeftHip)
	rightHip, rhOK := frame.At(pose.RightHip)
	if haveHeight && lhOK && rhOK {
		shoulderMid := pose.Midpoint(leftShoulder, rightShoulder)
		hipMid := pose.Midpoint(leftHip, rightHip)
		alignment := pose.AlignmentAngle(shoulderMid, hipMid)
		angles["Align"] = Marker{Value: alignment, Position: pose.Point{X: hipMid.X, Y: hipMid.Y + 0.05}}
		if alignment > c.t.AlignmentWarn {
			warnings = append(warnings, "Keep body straight!")
		}
	}

	if !haveElbow || !haveHeight {
		res := notClear(st, "Position not clear - keep your upper body in frame")
		res.Angles = angles
		return res, nil
	}

	feedback := ""
	status := ""
	if avgElbow > c.t.UpElbowMin && bodyHeight < c.t.UpShoulderMax {
		st.Stage = "up"
		st.HoldStart = now
		status = "Up Position"
	}
	if avgElbow < c.t.DownElbowMax && st.Stage == "up" {
		if c.timing.Held(now, st.HoldStart) && c.timing.CooldownPassed(now, st.LastRepTime) {
			st.Stage = "down"
			st.RepCounter++
			st.LastRepTime = now
			status = "Rep Complete!"
			feedback = "Rep complete! Good pushup."
		} else {
			status = "Down Position"
			feedback = "Down position - hold briefly"
		}
	}

	return &Result{
		RepCounter: st.RepCounter,
		Stage:      st.Stage,
		Feedback:   feedback,
		Angles:     angles,
		Status:     status,
		Warnings:   warnings,
	}, nil
}
