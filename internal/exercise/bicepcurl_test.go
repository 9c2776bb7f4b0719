package exercise

import (
	"testing"

	"github.com/rapidroutines/render-repbot/internal/pose"
	"github.com/rapidroutines/render-repbot/internal/session"
)

// TestBicepCurlRoundTrip walks extended -> curled -> duplicate curled frame
// and checks exactly one rep comes out.
func TestBicepCurlRoundTrip(t *testing.T) {
	c := NewBicepCurl(testThresholds().BicepCurl, testTiming())
	st := session.NewState(t0)

	res, err := c.Classify(bothArmsFrame(170, 170), st, t0)
	if err != nil {
		t.Fatalf("extended frame: %v", err)
	}
	if res.RepCounter != 0 || res.Stage != "down" {
		t.Fatalf("extended frame: rep=%d stage=%q, want 0/down", res.RepCounter, res.Stage)
	}

	res, err = c.Classify(bothArmsFrame(30, 30), st, t0+600)
	if err != nil {
		t.Fatalf("curled frame: %v", err)
	}
	if res.RepCounter != 1 || res.Stage != "up" {
		t.Fatalf("curled frame: rep=%d stage=%q, want 1/up", res.RepCounter, res.Stage)
	}
	if res.Feedback != "Great form! Both arms curled." {
		t.Errorf("curled frame feedback = %q", res.Feedback)
	}

	// The same curled frame again must not double-count.
	res, err = c.Classify(bothArmsFrame(30, 30), st, t0+800)
	if err != nil {
		t.Fatalf("duplicate frame: %v", err)
	}
	if res.RepCounter != 1 || res.Stage != "up" {
		t.Errorf("duplicate frame: rep=%d stage=%q, want 1/up", res.RepCounter, res.Stage)
	}
}

// TestBicepCurlShortDip rejects a curl that arrives before the extended
// position was held long enough.
func TestBicepCurlShortDip(t *testing.T) {
	c := NewBicepCurl(testThresholds().BicepCurl, testTiming())
	st := session.NewState(t0)

	if _, err := c.Classify(bothArmsFrame(170, 170), st, t0); err != nil {
		t.Fatal(err)
	}
	res, err := c.Classify(bothArmsFrame(30, 30), st, t0+100)
	if err != nil {
		t.Fatal(err)
	}
	if res.RepCounter != 0 {
		t.Errorf("curl 100ms after extension counted: rep=%d, want 0", res.RepCounter)
	}
}

// TestBicepCurlSingleArm verifies one visible arm still counts.
func TestBicepCurlSingleArm(t *testing.T) {
	c := NewBicepCurl(testThresholds().BicepCurl, testTiming())
	st := session.NewState(t0)

	if _, err := c.Classify(leftArmFrame(170), st, t0); err != nil {
		t.Fatal(err)
	}
	res, err := c.Classify(leftArmFrame(30), st, t0+600)
	if err != nil {
		t.Fatal(err)
	}
	if res.RepCounter != 1 {
		t.Fatalf("single-arm curl: rep=%d, want 1", res.RepCounter)
	}
	if res.Feedback != "Left arm curl detected." {
		t.Errorf("feedback = %q", res.Feedback)
	}
}

// TestBicepCurlCooldown verifies a second curl inside the cooldown window is
// ignored and a later one counts.
func TestBicepCurlCooldown(t *testing.T) {
	c := NewBicepCurl(testThresholds().BicepCurl, testTiming())
	st := session.NewState(t0)

	c.Classify(bothArmsFrame(170, 170), st, t0)
	res, _ := c.Classify(bothArmsFrame(30, 30), st, t0+600)
	if res.RepCounter != 1 {
		t.Fatalf("first curl: rep=%d, want 1", res.RepCounter)
	}

	// Re-extend, curl again 700ms after the counted rep: held long enough
	// but inside the 1000ms cooldown.
	c.Classify(bothArmsFrame(170, 170), st, t0+700)
	res, _ = c.Classify(bothArmsFrame(30, 30), st, t0+1300)
	if res.RepCounter != 1 {
		t.Fatalf("curl inside cooldown counted: rep=%d, want 1", res.RepCounter)
	}

	c.Classify(bothArmsFrame(170, 170), st, t0+1400)
	res, _ = c.Classify(bothArmsFrame(30, 30), st, t0+2000)
	if res.RepCounter != 2 {
		t.Fatalf("curl after cooldown: rep=%d, want 2", res.RepCounter)
	}
}

// TestBicepCurlArmsNotVisible verifies the degraded response leaves counters
// untouched.
func TestBicepCurlArmsNotVisible(t *testing.T) {
	c := NewBicepCurl(testThresholds().BicepCurl, testTiming())
	st := session.NewState(t0)
	st.RepCounter = 4

	res, err := c.Classify(frameOf(map[int]pose.Point{}), st, t0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Degraded {
		t.Error("empty frame: Degraded = false, want true")
	}
	if res.RepCounter != 4 {
		t.Errorf("empty frame changed counter: rep=%d, want 4", res.RepCounter)
	}
	if res.Feedback != "Position not clear - make sure your arms are visible" {
		t.Errorf("feedback = %q", res.Feedback)
	}
}
