package exercise

import (
	"fmt"

	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// Handstand is a hold, not a cycle: the counter credits one completed hold
// each time an inverted, straight position is sustained for the hold
// threshold. Inversion means the ankles sit above the wrists in image space,
// straightness is checked on both the shoulder-hip-ankle and hip-knee-ankle
// lines, and the wrist separation must be in a plausible ratio to shoulder
// width to reject frames where the hands are not planted.
type Handstand struct {
	t      config.HandstandThresholds
	timing Timing
}

func NewHandstand(t config.HandstandThresholds, timing Timing) *Handstand {
	return &Handstand{t: t, timing: timing}
}

func (c *Handstand) Name() string { return "handstand" }

func (c *Handstand) Classify(frame pose.Frame, st *session.State, now int64) (*Result, error) {
	leftShoulder, a := frame.At(pose.LeftShoulder)
	rightShoulder, b := frame.At(pose.RightShoulder)
	leftWrist, d := frame.At(pose.LeftWrist)
	rightWrist, e := frame.At(pose.RightWrist)
	leftHip, f := frame.At(pose.LeftHip)
	rightHip, g := frame.At(pose.RightHip)
	leftKnee, h := frame.At(pose.LeftKnee)
	rightKnee, i := frame.At(pose.RightKnee)
	leftAnkle, j := frame.At(pose.LeftAnkle)
	rightAnkle, k := frame.At(pose.RightAnkle)

	if !(a && b && d && e && f && g && h && i && j && k) {
		return notClear(st, "Position not clear - full body must be visible"), nil
	}

	angles := map[string]Marker{}

	bodyLine := (pose.Angle(leftShoulder, leftHip, leftAnkle) + pose.Angle(rightShoulder, rightHip, rightAnkle)) / 2
	legLine := (pose.Angle(leftHip, leftKnee, leftAnkle) + pose.Angle(rightHip, rightKnee, rightAnkle)) / 2
	hipMid := pose.Midpoint(leftHip, rightHip)
	angles["Body"] = Marker{Value: bodyLine, Position: hipMid}
	angles["Legs"] = Marker{Value: legLine, Position: pose.Midpoint(leftKnee, rightKnee)}

	ankleY := (leftAnkle.Y + rightAnkle.Y) / 2
	wristY := (leftWrist.Y + rightWrist.Y) / 2
	inverted := ankleY < wristY
	angles["Inverted"] = Marker{Value: boolValue(inverted), Position: pose.Point{X: hipMid.X, Y: ankleY}}

	shoulderWidth := pose.Dist(leftShoulder, rightShoulder)
	wristSep := pose.Dist(leftWrist, rightWrist)
	wristRatio := 0.0
	if shoulderWidth > 0 {
		wristRatio = wristSep / shoulderWidth
	}
	angles["WristRatio"] = Marker{Value: wristRatio, Position: pose.Midpoint(leftWrist, rightWrist)}

	handsPlanted := wristRatio >= c.t.WristRatioMin && wristRatio <= c.t.WristRatioMax
	straight := bodyLine > c.t.BodyLineMin && legLine > c.t.LegLineMin

	if inverted && straight && handsPlanted {
		if st.Stage != "inverted" {
			st.Stage = "inverted"
			st.HoldStart = now
			st.HoldCounted = false
		}
		held := now - st.HoldStart
		angles["Hold"] = Marker{Value: float64(held) / 1000, Position: pose.Point{X: 0.1, Y: 0.1}}

		if !st.HoldCounted && c.timing.Held(now, st.HoldStart) && c.timing.CooldownPassed(now, st.LastRepTime) {
			st.RepCounter++
			st.LastRepTime = now
			st.HoldCounted = true
			return &Result{
				RepCounter: st.RepCounter,
				Stage:      st.Stage,
				Feedback:   "Handstand hold counted!",
				Angles:     angles,
			}, nil
		}

		feedback := fmt.Sprintf("Holding handstand - %.1fs", float64(held)/1000)
		if st.HoldCounted {
			feedback = "Hold counted - keep balancing or come down"
		}
		return &Result{
			RepCounter: st.RepCounter,
			Stage:      st.Stage,
			Feedback:   feedback,
			Angles:     angles,
		}, nil
	}

	st.Stage = "normal"
	st.HoldCounted = false

	feedback := "Kick up into a handstand"
	switch {
	case inverted && !straight:
		feedback = "Straighten your body and legs"
	case inverted && !handsPlanted:
		feedback = "Check your hand placement width"
	}

	return &Result{
		RepCounter: st.RepCounter,
		Stage:      st.Stage,
		Feedback:   feedback,
		Angles:     angles,
	}, nil
}
