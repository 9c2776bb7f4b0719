package exercise

import (
	"math"

	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// Lunge infers the front/back leg split from per-leg knee angles and the
// vertical offset between the knees, and only counts transitions backed by
// real movement: a rolling window of knee travel and the angle change across
// that window must both clear thresholds, which rejects static poses and
// frame jitter that happen to straddle the bands.
type Lunge struct {
	t      config.LungeThresholds
	timing Timing
}

func NewLunge(t config.LungeThresholds, timing Timing) *Lunge {
	return &Lunge{t: t, timing: timing}
}

func (c *Lunge) Name() string { return "lunge" }

func (c *Lunge) Classify(frame pose.Frame, st *session.State, now int64) (*Result, error) {
	leftAngle, leftKnee, leftVisible := legAngle(frame, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle)
	rightAngle, rightKnee, rightVisible := legAngle(frame, pose.RightHip, pose.RightKnee, pose.RightAnkle)

	if !leftVisible && !rightVisible {
		return notClear(st, "Position not clear - adjust camera"), nil
	}

	angles := map[string]Marker{}
	if leftVisible {
		angles["LLeg"] = Marker{Value: leftAngle, Position: leftKnee}
	}
	if rightVisible {
		angles["RLeg"] = Marker{Value: rightAngle, Position: rightKnee}
	}

	kneeHeightDiff := 0.0
	if leftVisible && rightVisible {
		kneeHeightDiff = math.Abs(leftKnee.Y - rightKnee.Y)
		angles["KneeDiff"] = Marker{Value: kneeHeightDiff * 100, Position: pose.Midpoint(leftKnee, rightKnee)}
	}

	// Per-frame knee travel against the previous frame.
	leftMove := 0.0
	rightMove := 0.0
	if leftVisible && st.PrevLeftKneeY != nil {
		leftMove = leftKnee.Y - *st.PrevLeftKneeY
		angles["LKneeMove"] = Marker{Value: leftMove * 100, Position: pose.Point{X: leftKnee.X - 0.1, Y: leftKnee.Y}}
	}
	if rightVisible && st.PrevRightKneeY != nil {
		rightMove = rightKnee.Y - *st.PrevRightKneeY
		angles["RKneeMove"] = Marker{Value: rightMove * 100, Position: pose.Point{X: rightKnee.X + 0.1, Y: rightKnee.Y}}
	}

	st.PushMovement(session.MovementSample{Left: leftMove, Right: rightMove, Time: now})
	sample := session.AngleSample{Time: now}
	if leftVisible {
		v := leftAngle
		sample.Left = &v
	}
	if rightVisible {
		v := rightAngle
		sample.Right = &v
	}
	st.PushAngle(sample)

	// Average travel across the window to tell sustained movement from jitter.
	leftAvgMove := 0.0
	rightAvgMove := 0.0
	if n := len(st.MovementHistory); n > 0 {
		for _, m := range st.MovementHistory {
			leftAvgMove += m.Left
			rightAvgMove += m.Right
		}
		leftAvgMove /= float64(n)
		rightAvgMove /= float64(n)
	}

	leftAngleChange := 0.0
	rightAngleChange := 0.0
	if len(st.AngleHistory) >= 2 {
		oldest := st.AngleHistory[0]
		newest := st.AngleHistory[len(st.AngleHistory)-1]
		if oldest.Left != nil && newest.Left != nil {
			leftAngleChange = math.Abs(*newest.Left - *oldest.Left)
		}
		if oldest.Right != nil && newest.Right != nil {
			rightAngleChange = math.Abs(*newest.Right - *oldest.Right)
		}
	}

	significantAngleChange := leftAngleChange > c.t.MinAngleChange || rightAngleChange > c.t.MinAngleChange
	consistentMovement := math.Abs(leftAvgMove) > c.t.MinVelocity || math.Abs(rightAvgMove) > c.t.MinVelocity
	significantMovement := significantAngleChange && consistentMovement
	if significantMovement {
		angles["SignificantMove"] = Marker{Value: 1, Position: pose.Point{X: 0.1, Y: 0.1}}
	}

	if leftVisible {
		y := leftKnee.Y
		st.PrevLeftKneeY = &y
	}
	if rightVisible {
		y := rightKnee.Y
		st.PrevRightKneeY = &y
	}

	standing := false
	switch {
	case leftVisible && rightVisible:
		standing = leftAngle > c.t.StraightKneeMin && rightAngle > c.t.StraightKneeMin && kneeHeightDiff < c.t.StandingKneeDiffMax
	case leftVisible:
		standing = leftAngle > c.t.StraightKneeMin
	case rightVisible:
		standing = rightAngle > c.t.StraightKneeMin
	}

	lunging := false
	switch {
	case leftVisible && rightVisible:
		lunging = (leftAngle < c.t.BentKneeMax || rightAngle < c.t.BentKneeMax) && kneeHeightDiff > c.t.LungeKneeDiffMin
	case leftVisible:
		lunging = leftAngle < c.t.BentKneeMax
	case rightVisible:
		lunging = rightAngle < c.t.BentKneeMax
	}

	feedback := ""
	if standing {
		if st.Stage == "down" {
			if significantMovement {
				st.Stage = "up"
				feedback = "Ready for next lunge"
			} else {
				feedback = "Return to standing position"
			}
		} else {
			feedback = "Standing position"
		}
	}

	if lunging {
		if st.Stage == "up" && significantMovement {
			if c.timing.CooldownPassed(now, st.LastRepTime) {
				st.Stage = "down"
				st.RepCounter++
				st.LastRepTime = now
				feedback = "Rep counted! Good lunge."
			} else {
				feedback = "Slow down slightly"
			}
		} else if st.Stage == "down" {
			feedback = "Return to standing position"
		}
	}

	if feedback == "" {
		if st.Stage == "up" {
			feedback = "Step forward into lunge position"
		} else {
			feedback = "Return to standing position"
		}
	}

	return &Result{
		RepCounter: st.RepCounter,
		Stage:      st.Stage,
		Feedback:   feedback,
		Angles:     angles,
	}, nil
}
