package exercise

import (
	"testing"

	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// feetFrame places both feet with the given heel and ankle heights; the toes
// stay planted.
func feetFrame(heelY, ankleY float64) pose.Frame {
	return frameOf(map[int]pose.Point{
		pose.LeftAnkle:      {X: 0.45, Y: ankleY},
		pose.LeftHeel:       {X: 0.45, Y: heelY},
		pose.LeftFootIndex:  {X: 0.48, Y: 0.92},
		pose.RightAnkle:     {X: 0.55, Y: ankleY},
		pose.RightHeel:      {X: 0.55, Y: heelY},
		pose.RightFootIndex: {X: 0.52, Y: 0.92},
	})
}

func flatFeet() pose.Frame   { return feetFrame(0.90, 0.85) }
func raisedFeet() pose.Frame { return feetFrame(0.86, 0.80) }

// TestCalfRaiseRoundTrip: flat-footed reference, then a held raise.
func TestCalfRaiseRoundTrip(t *testing.T) {
	c := NewCalfRaise(testThresholds().CalfRaise, testTiming())
	st := session.NewState(t0)

	res, err := c.Classify(flatFeet(), st, t0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stage != "down" {
		t.Fatalf("flat frame: stage=%q, want down", res.Stage)
	}

	res, err = c.Classify(raisedFeet(), st, t0+600)
	if err != nil {
		t.Fatal(err)
	}
	if res.RepCounter != 1 || res.Stage != "up" {
		t.Fatalf("raised frame: rep=%d stage=%q, want 1/up", res.RepCounter, res.Stage)
	}
	if res.Feedback != "Rep complete! Full extension." {
		t.Errorf("feedback = %q", res.Feedback)
	}

	res, _ = c.Classify(flatFeet(), st, t0+800)
	if res.Stage != "down" || res.Feedback != "Back down - ready for next raise" {
		t.Errorf("lowering frame: stage=%q feedback=%q", res.Stage, res.Feedback)
	}
}

// TestCalfRaiseHoldGate: a raise must be held before it counts.
func TestCalfRaiseHoldGate(t *testing.T) {
	c := NewCalfRaise(testThresholds().CalfRaise, testTiming())
	st := session.NewState(t0)

	c.Classify(flatFeet(), st, t0)
	res, _ := c.Classify(raisedFeet(), st, t0+300)
	if res.RepCounter != 0 {
		t.Fatalf("raise 300ms after flat counted: rep=%d, want 0", res.RepCounter)
	}
	if res.Feedback != "Up on your toes - hold briefly" {
		t.Errorf("feedback = %q", res.Feedback)
	}
}

// TestCalfRaiseReferenceRecapture: the flat-footed reference follows the
// subject when the frame drifts, so lift is measured against the latest
// stance rather than the first one.
func TestCalfRaiseReferenceRecapture(t *testing.T) {
	c := NewCalfRaise(testThresholds().CalfRaise, testTiming())
	st := session.NewState(t0)

	c.Classify(flatFeet(), st, t0)

	// Subject drifts lower in frame while still flat-footed.
	c.Classify(feetFrame(0.95, 0.90), st, t0+200)
	if st.LeftHeelRef == nil || *st.LeftHeelRef != 0.95 {
		t.Fatalf("reference not recaptured: %v", st.LeftHeelRef)
	}

	// A raise relative to the drifted stance still counts.
	res, err := c.Classify(raisedFeet(), st, t0+800)
	if err != nil {
		t.Fatal(err)
	}
	if res.RepCounter != 1 {
		t.Fatalf("raise after drift: rep=%d, want 1", res.RepCounter)
	}
}

// TestCalfRaiseFeetNotVisible covers the degraded response.
func TestCalfRaiseFeetNotVisible(t *testing.T) {
	c := NewCalfRaise(testThresholds().CalfRaise, testTiming())
	st := session.NewState(t0)

	res, err := c.Classify(frameOf(map[int]pose.Point{}), st, t0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Degraded {
		t.Error("empty frame: Degraded = false, want true")
	}
}
