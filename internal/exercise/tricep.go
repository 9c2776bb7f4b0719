package exercise

import (
	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// TricepExtension tracks each arm from bent to extended. When both arms are
// visible both must extend for the rep; with a single visible arm that arm
// alone suffices, so side-on filming still counts.
type TricepExtension struct {
	t      config.TricepExtensionThresholds
	timing Timing
}

func NewTricepExtension(t config.TricepExtensionThresholds, timing Timing) *TricepExtension {
	return &TricepExtension{t: t, timing: timing}
}

func (c *TricepExtension) Name() string { return "tricepExtension" }

func (c *TricepExtension) Classify(frame pose.Frame, st *session.State, now int64) (*Result, error) {
	angles := map[string]Marker{}

	leftAngle, leftAnchor, leftVisible := armAngle(frame, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist)
	rightAngle, rightAnchor, rightVisible := armAngle(frame, pose.RightShoulder, pose.RightElbow, pose.RightWrist)

	if !leftVisible && !rightVisible {
		return notClear(st, "Cannot see arms clearly - adjust camera angle"), nil
	}

	leftDetected := false
	rightDetected := false

	if leftVisible {
		angles["L"] = Marker{Value: leftAngle, Position: leftAnchor}
		if leftAngle < c.t.BentMax {
			st.LeftArmStage = "down"
			st.LeftArmHoldStart = now
		}
		if leftAngle > c.t.ExtendedMin && st.LeftArmStage == "down" && c.timing.Held(now, st.LeftArmHoldStart) {
			leftDetected = true
			st.LeftArmStage = "up"
		}
	}
	if rightVisible {
		angles["R"] = Marker{Value: rightAngle, Position: rightAnchor}
		if rightAngle < c.t.BentMax {
			st.RightArmStage = "down"
			st.RightArmHoldStart = now
		}
		if rightAngle > c.t.ExtendedMin && st.RightArmStage == "down" && c.timing.Held(now, st.RightArmHoldStart) {
			rightDetected = true
			st.RightArmStage = "up"
		}
	}

	detected := false
	feedback := ""
	switch {
	case leftVisible && rightVisible:
		detected = leftDetected && rightDetected
		switch {
		case detected:
			feedback = "Good rep! Both arms extended."
		case leftDetected:
			feedback = "Extend your right arm too"
		case rightDetected:
			feedback = "Extend your left arm too"
		}
	case leftVisible:
		detected = leftDetected
		if detected {
			feedback = "Left arm rep detected."
		} else {
			feedback = "Extend your left arm fully"
		}
	case rightVisible:
		detected = rightDetected
		if detected {
			feedback = "Right arm rep detected."
		} else {
			feedback = "Extend your right arm fully"
		}
	}

	stage := "down"
	if detected {
		stage = "up"
		if c.timing.CooldownPassed(now, st.LastRepTime) {
			st.RepCounter++
			st.LastRepTime = now
		}
	}
	st.Stage = stage

	return &Result{
		RepCounter: st.RepCounter,
		Stage:      stage,
		Feedback:   feedback,
		Angles:     angles,
	}, nil
}
