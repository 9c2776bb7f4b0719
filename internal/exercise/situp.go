package exercise

import (
	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// Situp watches the shoulder-hip-knee angle: lying flat re-arms the machine
// and restarts the hold timer, curling up past the sitting threshold counts
// after the hold and cooldown.
type Situp struct {
	t      config.SitupThresholds
	timing Timing
}

func NewSitup(t config.SitupThresholds, timing Timing) *Situp {
	return &Situp{t: t, timing: timing}
}

func (c *Situp) Name() string { return "situp" }

func (c *Situp) Classify(frame pose.Frame, st *session.State, now int64) (*Result, error) {
	angles := map[string]Marker{}

	leftAngle, leftOK := torsoAngle(frame, pose.LeftShoulder, pose.LeftHip, pose.LeftKnee)
	rightAngle, rightOK := torsoAngle(frame, pose.RightShoulder, pose.RightHip, pose.RightKnee)

	if !leftOK && !rightOK {
		return notClear(st, "Position not clear - lie side-on to the camera"), nil
	}

	var torso float64
	switch {
	case leftOK && rightOK:
		torso = (leftAngle + rightAngle) / 2
	case leftOK:
		torso = leftAngle
	default:
		torso = rightAngle
	}

	if hip, ok := frame.At(pose.LeftHip); ok {
		angles["Torso"] = Marker{Value: torso, Position: hip}
	} else if hip, ok := frame.At(pose.RightHip); ok {
		angles["Torso"] = Marker{Value: torso, Position: hip}
	}

	feedback := ""
	if torso > c.t.LyingMin {
		st.Stage = "down"
		st.HoldStart = now
		feedback = "Lying position"
	}
	if torso < c.t.SittingMax && st.Stage == "down" {
		if c.timing.Held(now, st.HoldStart) && c.timing.CooldownPassed(now, st.LastRepTime) {
			st.Stage = "up"
			st.RepCounter++
			st.LastRepTime = now
			feedback = "Rep complete!"
		} else {
			feedback = "Sitting up - keep going"
		}
	}
	if feedback == "" {
		if st.Stage == "down" {
			feedback = "Curl up towards your knees"
		} else {
			feedback = "Lower back down"
		}
	}

	return &Result{
		RepCounter: st.RepCounter,
		Stage:      st.Stage,
		Feedback:   feedback,
		Angles:     angles,
	}, nil
}

// torsoAngle is the shoulder-hip-knee angle for one side.
func torsoAngle(frame pose.Frame, shoulder, hip, knee int) (float64, bool) {
	s, okS := frame.At(shoulder)
	h, okH := frame.At(hip)
	k, okK := frame.At(knee)
	if !okS || !okH || !okK {
		return 0, false
	}
	return pose.Angle(s, h, k), true
}
