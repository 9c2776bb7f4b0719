package exercise

import (
	"testing"

	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// situpFrame builds a side-on frame with the given shoulder-hip-knee angle.
func situpFrame(torsoDeg float64) pose.Frame {
	hip := pose.Point{X: 0.5, Y: 0.8}
	knee := pose.Point{X: 0.7, Y: 0.78}
	return frameOf(map[int]pose.Point{
		pose.LeftShoulder: jointAt(hip, knee, torsoDeg, 0.3),
		pose.LeftHip:      hip,
		pose.LeftKnee:     knee,
	})
}

// TestSitupRoundTrip: lie flat, curl up after the hold window.
func TestSitupRoundTrip(t *testing.T) {
	c := NewSitup(testThresholds().Situp, testTiming())
	st := session.NewState(t0)

	res, err := c.Classify(situpFrame(170), st, t0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stage != "down" || res.Feedback != "Lying position" {
		t.Fatalf("lying frame: stage=%q feedback=%q", res.Stage, res.Feedback)
	}

	res, err = c.Classify(situpFrame(60), st, t0+600)
	if err != nil {
		t.Fatal(err)
	}
	if res.RepCounter != 1 || res.Stage != "up" {
		t.Fatalf("sitting frame: rep=%d stage=%q, want 1/up", res.RepCounter, res.Stage)
	}

	res, _ = c.Classify(situpFrame(60), st, t0+700)
	if res.RepCounter != 1 {
		t.Errorf("holding the top re-counted: rep=%d, want 1", res.RepCounter)
	}
	if res.Feedback != "Lower back down" {
		t.Errorf("feedback = %q", res.Feedback)
	}
}

// TestSitupHoldGate: curling up immediately after lying down is transit.
func TestSitupHoldGate(t *testing.T) {
	c := NewSitup(testThresholds().Situp, testTiming())
	st := session.NewState(t0)

	c.Classify(situpFrame(170), st, t0)
	res, _ := c.Classify(situpFrame(60), st, t0+200)
	if res.RepCounter != 0 {
		t.Fatalf("curl 200ms after lying counted: rep=%d, want 0", res.RepCounter)
	}
	if res.Feedback != "Sitting up - keep going" {
		t.Errorf("feedback = %q", res.Feedback)
	}
}

// TestSitupTorsoNotVisible covers the degraded response.
func TestSitupTorsoNotVisible(t *testing.T) {
	c := NewSitup(testThresholds().Situp, testTiming())
	st := session.NewState(t0)

	res, err := c.Classify(frameOf(map[int]pose.Point{}), st, t0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Degraded {
		t.Error("empty frame: Degraded = false, want true")
	}
}
