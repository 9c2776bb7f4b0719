package exercise

import (
	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// Squat combines the average knee angle with the normalized hip height.
// Standing (straight knees, hips high in the frame, so a small y) re-arms
// the machine and restarts the hold timer; a deep-enough bend with the hips
// dropped counts after the hold and cooldown.
type Squat struct {
	t      config.SquatThresholds
	timing Timing
}

func NewSquat(t config.SquatThresholds, timing Timing) *Squat {
	return &Squat{t: t, timing: timing}
}

func (c *Squat) Name() string { return "squat" }

func (c *Squat) Classify(frame pose.Frame, st *session.State, now int64) (*Result, error) {
	angles := map[string]Marker{}

	leftAngle, leftKnee, leftOK := legAngle(frame, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle)
	rightAngle, rightKnee, rightOK := legAngle(frame, pose.RightHip, pose.RightKnee, pose.RightAnkle)

	if leftOK {
		// Anchor offset right so the overlay does not cover the joint.
		angles["L"] = Marker{Value: leftAngle, Position: pose.Point{X: leftKnee.X + 0.05, Y: leftKnee.Y}}
	}
	if rightOK {
		angles["R"] = Marker{Value: rightAngle, Position: pose.Point{X: rightKnee.X + 0.05, Y: rightKnee.Y}}
	}

	var avgKnee float64
	haveKnee := true
	switch {
	case leftOK && rightOK:
		avgKnee = (leftAngle + rightAngle) / 2
		mid := pose.Midpoint(leftKnee, rightKnee)
		angles["Avg"] = Marker{Value: avgKnee, Position: pose.Point{X: mid.X, Y: mid.Y - 0.05}}
	case leftOK:
		avgKnee = leftAngle
	case rightOK:
		avgKnee = rightAngle
	default:
		haveKnee = false
	}

	leftHip, leftHipOK := frame.At(pose.LeftHip)
	rightHip, rightHipOK := frame.At(pose.RightHip)
	haveHip := leftHipOK && rightHipOK
	var hipHeight float64
	if haveHip {
		hipHeight = (leftHip.Y + rightHip.Y) / 2
		mid := pose.Midpoint(leftHip, rightHip)
		angles["Hip"] = Marker{Value: hipHeight * 100, Position: pose.Point{X: mid.X, Y: hipHeight - 0.05}}
	}

	if !haveKnee || !haveHip {
		res := notClear(st, "Position not clear - keep hips and knees in frame")
		res.Angles = angles
		return res, nil
	}

	feedback := ""
	if avgKnee > c.t.StandingKneeMin && hipHeight < c.t.StandingHipMax {
		st.Stage = "up"
		st.HoldStart = now
		feedback = "Standing position"
	}
	if avgKnee < c.t.SquatKneeMax && hipHeight > c.t.SquatHipMin && st.Stage == "up" {
		if c.timing.Held(now, st.HoldStart) && c.timing.CooldownPassed(now, st.LastRepTime) {
			st.Stage = "down"
			st.RepCounter++
			st.LastRepTime = now
			feedback = "Rep complete!"
		} else {
			feedback = "Squatting"
		}
	}

	status := "Squatting"
	if st.Stage == "up" {
		status = "Standing"
	}

	return &Result{
		RepCounter: st.RepCounter,
		Stage:      st.Stage,
		Feedback:   feedback,
		Angles:     angles,
		Status:     status,
	}, nil
}
