package exercise

import (
	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// CalfRaise measures heel lift against a standing reference captured while
// flat-footed, with the ankle-heel-toe angle as a secondary check that the
// foot actually extended rather than the whole body bouncing in frame.
// Lowering back below half the lift threshold re-arms and re-captures the
// reference, so slow camera drift does not accumulate.
type CalfRaise struct {
	t      config.CalfRaiseThresholds
	timing Timing
}

func NewCalfRaise(t config.CalfRaiseThresholds, timing Timing) *CalfRaise {
	return &CalfRaise{t: t, timing: timing}
}

func (c *CalfRaise) Name() string { return "calfRaise" }

func (c *CalfRaise) Classify(frame pose.Frame, st *session.State, now int64) (*Result, error) {
	leftAnkle, la := frame.At(pose.LeftAnkle)
	leftHeel, lh := frame.At(pose.LeftHeel)
	leftToe, lt := frame.At(pose.LeftFootIndex)
	rightAnkle, ra := frame.At(pose.RightAnkle)
	rightHeel, rh := frame.At(pose.RightHeel)
	rightToe, rt := frame.At(pose.RightFootIndex)

	leftVisible := la && lh && lt
	rightVisible := ra && rh && rt
	if !leftVisible && !rightVisible {
		return notClear(st, "Position not clear - keep your feet in frame"), nil
	}

	angles := map[string]Marker{}

	lift := 0.0
	extension := 0.0
	sides := 0.0

	if leftVisible {
		if st.LeftHeelRef == nil {
			y := leftHeel.Y
			st.LeftHeelRef = &y
		}
		leftLift := *st.LeftHeelRef - leftHeel.Y
		leftExt := pose.Angle(leftAnkle, leftHeel, leftToe)
		angles["LLift"] = Marker{Value: leftLift * 100, Position: leftHeel}
		angles["LExt"] = Marker{Value: leftExt, Position: pose.Point{X: leftHeel.X - 0.05, Y: leftHeel.Y}}
		lift += leftLift
		extension += leftExt
		sides++
	}
	if rightVisible {
		if st.RightHeelRef == nil {
			y := rightHeel.Y
			st.RightHeelRef = &y
		}
		rightLift := *st.RightHeelRef - rightHeel.Y
		rightExt := pose.Angle(rightAnkle, rightHeel, rightToe)
		angles["RLift"] = Marker{Value: rightLift * 100, Position: rightHeel}
		angles["RExt"] = Marker{Value: rightExt, Position: pose.Point{X: rightHeel.X + 0.05, Y: rightHeel.Y}}
		lift += rightLift
		extension += rightExt
		sides++
	}
	lift /= sides
	extension /= sides

	raised := lift > c.t.LiftMin && extension > c.t.ExtensionMin
	lowered := lift < c.t.LiftMin/2

	feedback := ""
	if lowered {
		if st.Stage == "up" {
			feedback = "Back down - ready for next raise"
		}
		st.Stage = "down"
		st.HoldStart = now
		// Re-capture the flat-footed reference.
		if leftVisible {
			y := leftHeel.Y
			st.LeftHeelRef = &y
		}
		if rightVisible {
			y := rightHeel.Y
			st.RightHeelRef = &y
		}
	}
	if raised && st.Stage == "down" {
		if c.timing.Held(now, st.HoldStart) && c.timing.CooldownPassed(now, st.LastRepTime) {
			st.Stage = "up"
			st.RepCounter++
			st.LastRepTime = now
			feedback = "Rep complete! Full extension."
		} else {
			feedback = "Up on your toes - hold briefly"
		}
	}
	if feedback == "" {
		if st.Stage == "down" {
			feedback = "Rise up onto your toes"
		} else {
			feedback = "Lower your heels"
		}
	}

	return &Result{
		RepCounter: st.RepCounter,
		Stage:      st.Stage,
		Feedback:   feedback,
		Angles:     angles,
	}, nil
}
