package exercise

import (
	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// Pullup counts on the down-to-up sequence change alone: hanging with the
// arms extended re-arms the machine, and pulling past the flexed threshold
// counts immediately subject to the cooldown. There is no dwell requirement;
// a pull-up spends too little time at the top for one to be reliable.
type Pullup struct {
	t      config.PullupThresholds
	timing Timing
}

func NewPullup(t config.PullupThresholds, timing Timing) *Pullup {
	return &Pullup{t: t, timing: timing}
}

func (c *Pullup) Name() string { return "pullup" }

func (c *Pullup) Classify(frame pose.Frame, st *session.State, now int64) (*Result, error) {
	angles := map[string]Marker{}

	leftAngle, leftAnchor, leftOK := armAngle(frame, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist)
	rightAngle, rightAnchor, rightOK := armAngle(frame, pose.RightShoulder, pose.RightElbow, pose.RightWrist)

	if !leftOK && !rightOK {
		return notClear(st, "Position not clear - make sure your arms are visible"), nil
	}

	if leftOK {
		angles["L"] = Marker{Value: leftAngle, Position: leftAnchor}
	}
	if rightOK {
		angles["R"] = Marker{Value: rightAngle, Position: rightAnchor}
	}

	var avgElbow float64
	switch {
	case leftOK && rightOK:
		avgElbow = (leftAngle + rightAngle) / 2
		mid := pose.Midpoint(leftAnchor, rightAnchor)
		angles["Avg"] = Marker{Value: avgElbow, Position: mid}
	case leftOK:
		avgElbow = leftAngle
	default:
		avgElbow = rightAngle
	}

	feedback := ""
	if avgElbow > c.t.ExtendedMin {
		if st.Stage == "up" {
			feedback = "Dead hang - ready for next rep"
		}
		st.Stage = "down"
	}
	if avgElbow < c.t.FlexedMax && st.Stage == "down" {
		if c.timing.CooldownPassed(now, st.LastRepTime) {
			st.Stage = "up"
			st.RepCounter++
			st.LastRepTime = now
			feedback = "Rep complete! Good pull."
		} else {
			feedback = "Slow down slightly"
		}
	}
	if feedback == "" {
		if st.Stage == "down" {
			feedback = "Pull your chin over the bar"
		} else {
			feedback = "Lower to a dead hang"
		}
	}

	return &Result{
		RepCounter: st.RepCounter,
		Stage:      st.Stage,
		Feedback:   feedback,
		Angles:     angles,
	}, nil
}
