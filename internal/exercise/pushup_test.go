package exercise

import (
	"testing"

	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// plankFrame builds a horizontal plank with the given elbow angle. hipY lets
// sag tests drop the hips below the shoulder line.
func plankFrame(elbowDeg, hipY float64) pose.Frame {
	leftShoulder := pose.Point{X: 0.30, Y: 0.5}
	rightShoulder := pose.Point{X: 0.34, Y: 0.5}
	leftElbow := pose.Point{X: 0.30, Y: 0.68}
	rightElbow := pose.Point{X: 0.34, Y: 0.68}
	return frameOf(map[int]pose.Point{
		pose.LeftShoulder:  leftShoulder,
		pose.RightShoulder: rightShoulder,
		pose.LeftElbow:     leftElbow,
		pose.RightElbow:    rightElbow,
		pose.LeftWrist:     jointAt(leftElbow, leftShoulder, elbowDeg, 0.15),
		pose.RightWrist:    jointAt(rightElbow, rightShoulder, elbowDeg, 0.15),
		pose.LeftHip:       {X: 0.62, Y: hipY},
		pose.RightHip:      {X: 0.66, Y: hipY},
	})
}

// TestPushupRoundTrip: straight arms in plank, then a deep bend after the
// hold window.
func TestPushupRoundTrip(t *testing.T) {
	c := NewPushup(testThresholds().Pushup, testTiming())
	st := session.NewState(t0)

	res, err := c.Classify(plankFrame(170, 0.5), st, t0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stage != "up" || res.Status != "Up Position" {
		t.Fatalf("up frame: stage=%q status=%q", res.Stage, res.Status)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("level plank warned: %v", res.Warnings)
	}

	res, err = c.Classify(plankFrame(70, 0.5), st, t0+600)
	if err != nil {
		t.Fatal(err)
	}
	if res.RepCounter != 1 || res.Status != "Rep Complete!" {
		t.Fatalf("down frame: rep=%d status=%q, want 1/Rep Complete!", res.RepCounter, res.Status)
	}
}

// TestPushupHoldGate: a bend before the up position was held is transit.
func TestPushupHoldGate(t *testing.T) {
	c := NewPushup(testThresholds().Pushup, testTiming())
	st := session.NewState(t0)

	c.Classify(plankFrame(170, 0.5), st, t0)
	res, _ := c.Classify(plankFrame(70, 0.5), st, t0+200)
	if res.RepCounter != 0 {
		t.Fatalf("bend 200ms after up counted: rep=%d, want 0", res.RepCounter)
	}
	if res.Status != "Down Position" {
		t.Errorf("status = %q", res.Status)
	}
}

// TestPushupSagWarning: hips well below the shoulder line trip the form
// warning without affecting the count.
func TestPushupSagWarning(t *testing.T) {
	c := NewPushup(testThresholds().Pushup, testTiming())
	st := session.NewState(t0)

	res, err := c.Classify(plankFrame(170, 0.75), st, t0)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range res.Warnings {
		if w == "Keep body straight!" {
			found = true
		}
	}
	if !found {
		t.Errorf("sagging plank did not warn: %v", res.Warnings)
	}
	if res.RepCounter != 0 {
		t.Errorf("warning frame changed counter: rep=%d", res.RepCounter)
	}
}

// TestPushupUpperBodyNotVisible: no arms and no shoulders is a degraded
// frame.
func TestPushupUpperBodyNotVisible(t *testing.T) {
	c := NewPushup(testThresholds().Pushup, testTiming())
	st := session.NewState(t0)

	res, err := c.Classify(frameOf(map[int]pose.Point{}), st, t0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Degraded {
		t.Error("empty frame: Degraded = false, want true")
	}
}
