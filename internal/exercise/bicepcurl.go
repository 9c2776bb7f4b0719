package exercise

import (
	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// BicepCurl tracks each arm independently: the elbow angle above ExtendedMin
// re-arms that arm and restarts its hold timer, dropping below CurledMax after
// the hold confirms a curl. Either arm completing counts the rep.
type BicepCurl struct {
	t      config.BicepCurlThresholds
	timing Timing
}

func NewBicepCurl(t config.BicepCurlThresholds, timing Timing) *BicepCurl {
	return &BicepCurl{t: t, timing: timing}
}

func (c *BicepCurl) Name() string { return "bicepCurl" }

func (c *BicepCurl) Classify(frame pose.Frame, st *session.State, now int64) (*Result, error) {
	angles := map[string]Marker{}
	leftDetected := false
	rightDetected := false

	leftAngle, leftAnchor, leftVisible := armAngle(frame, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist)
	rightAngle, rightAnchor, rightVisible := armAngle(frame, pose.RightShoulder, pose.RightElbow, pose.RightWrist)

	if !leftVisible && !rightVisible {
		return notClear(st, "Position not clear - make sure your arms are visible"), nil
	}

	if leftVisible {
		angles["L"] = Marker{Value: leftAngle, Position: leftAnchor}
		if leftAngle > c.t.ExtendedMin {
			st.LeftArmStage = "down"
			st.LeftArmHoldStart = now
		}
		if leftAngle < c.t.CurledMax && st.LeftArmStage == "down" && c.timing.Held(now, st.LeftArmHoldStart) {
			leftDetected = true
			st.LeftArmStage = "up"
		}
	}

	if rightVisible {
		angles["R"] = Marker{Value: rightAngle, Position: rightAnchor}
		if rightAngle > c.t.ExtendedMin {
			st.RightArmStage = "down"
			st.RightArmHoldStart = now
		}
		if rightAngle < c.t.CurledMax && st.RightArmStage == "down" && c.timing.Held(now, st.RightArmHoldStart) {
			rightDetected = true
			st.RightArmStage = "up"
		}
	}

	if (leftDetected || rightDetected) && c.timing.CooldownPassed(now, st.LastRepTime) {
		st.RepCounter++
		st.LastRepTime = now
		st.Stage = "up"

		feedback := "Good rep!"
		switch {
		case leftDetected && rightDetected:
			feedback = "Great form! Both arms curled."
		case leftDetected:
			feedback = "Left arm curl detected."
		case rightDetected:
			feedback = "Right arm curl detected."
		}

		return &Result{
			RepCounter: st.RepCounter,
			Stage:      "up",
			Feedback:   feedback,
			Angles:     angles,
		}, nil
	}

	if st.LeftArmStage == "up" || st.RightArmStage == "up" {
		st.Stage = "up"
	} else {
		st.Stage = "down"
	}

	return &Result{
		RepCounter: st.RepCounter,
		Stage:      st.Stage,
		Angles:     angles,
	}, nil
}
