// Package exercise implements the per-exercise repetition detectors. Each
// detector is a small threshold-driven state machine over joint angles and
// landmark distances; the thresholds come from configuration, the timing
// gates (rep cooldown, hold confirmation) are shared.
package exercise

import (
	"fmt"

	"github.com/rapidroutines/render-repbot/internal/config"
	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// Marker is one diagnostic overlay value: a scalar metric anchored to a 2-D
// point, for callers that render angles next to joints. It carries no
// behavioral contract.
type Marker struct {
	Value    float64    `json:"value"`
	Position pose.Point `json:"position"`
}

// Result is what one classified frame yields. Status and Warnings are only
// populated by the exercises that historically emitted them (squat, pushup).
type Result struct {
	RepCounter uint              `json:"repCounter"`
	Stage      string            `json:"stage"`
	Feedback   string            `json:"feedback"`
	Angles     map[string]Marker `json:"angles,omitempty"`
	Status     string            `json:"status,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`

	// Degraded marks a position-not-clear response so the caller can meter
	// them; it is not part of the wire shape.
	Degraded bool `json:"-"`
}

// Classifier is the single detection contract. Classify may mutate st (that
// is how reps are counted) but must keep RepCounter monotonic; the engine
// serializes calls per session key. now is milliseconds since the Unix epoch.
// A returned error means the frame could not be classified at all; the engine
// maps it to an unchanged-counters diagnostic response.
type Classifier interface {
	Name() string
	Classify(frame pose.Frame, st *session.State, now int64) (*Result, error)
}

// Timing carries the two gates every detector shares: the debounce between
// counted reps and the dwell required before a phase is trusted.
type Timing struct {
	RepCooldownMS   int64
	HoldThresholdMS int64
}

// CooldownPassed reports whether enough time has passed since the last
// counted rep.
func (t Timing) CooldownPassed(now, lastRep int64) bool {
	return now-lastRep > t.RepCooldownMS
}

// Held reports whether the phase entered at start has been sustained long
// enough to be trusted.
func (t Timing) Held(now, start int64) bool {
	return now-start > t.HoldThresholdMS
}

// Error wraps a classifier-internal fault with the exercise it came from.
type Error struct {
	Exercise string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s classifier: %v", e.Exercise, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// All constructs every registered classifier from the threshold tables.
func All(t config.Thresholds, timing Timing) []Classifier {
	return []Classifier{
		NewBicepCurl(t.BicepCurl, timing),
		NewSquat(t.Squat, timing),
		NewPushup(t.Pushup, timing),
		NewShoulderPress(t.ShoulderPress, timing),
		NewHandstand(t.Handstand, timing),
		NewPullup(t.Pullup, timing),
		NewSitup(t.Situp, timing),
		NewJumpingJacks(t.JumpingJacks, timing),
		NewLunge(t.Lunge, timing),
		NewCalfRaise(t.CalfRaise, timing),
		NewTricepExtension(t.TricepExtension, timing),
	}
}

// notClear builds the defined degraded-input response: counters untouched,
// guidance in the feedback. Missing landmarks are expected operation (subject
// out of frame, occlusion), not an error.
func notClear(st *session.State, feedback string) *Result {
	return &Result{
		RepCounter: st.RepCounter,
		Stage:      st.Stage,
		Feedback:   feedback,
		Angles:     map[string]Marker{},
		Degraded:   true,
	}
}

// armAngles resolves one arm's shoulder/elbow/wrist triple and returns the
// elbow angle plus the elbow anchor. ok is false if any point is missing.
func armAngle(frame pose.Frame, shoulder, elbow, wrist int) (angle float64, anchor pose.Point, ok bool) {
	s, okS := frame.At(shoulder)
	e, okE := frame.At(elbow)
	w, okW := frame.At(wrist)
	if !okS || !okE || !okW {
		return 0, pose.Point{}, false
	}
	return pose.Angle(s, e, w), e, true
}

// legAngle resolves one leg's hip/knee/ankle triple and returns the knee
// angle plus the knee anchor.
func legAngle(frame pose.Frame, hip, knee, ankle int) (angle float64, anchor pose.Point, ok bool) {
	h, okH := frame.At(hip)
	k, okK := frame.At(knee)
	a, okA := frame.At(ankle)
	if !okH || !okK || !okA {
		return 0, pose.Point{}, false
	}
	return pose.Angle(h, k, a), k, true
}
