package utils

import "testing"

func TestSpeedRamp(t *testing.T) {
	r := NewSpeedRamp(1)
	if got := r.Update(0.1); got != 1 {
		t.Errorf("idle ramp should keep its value, got %v", got)
	}

	r.RampTo(3)
	mid := r.Update(SpeedRampDuration / 2)
	if mid <= 1 || mid >= 3 {
		t.Errorf("halfway value should be between 1 and 3, got %v", mid)
	}

	if got := r.Update(SpeedRampDuration); got != 3 {
		t.Errorf("finished ramp should land on the target, got %v", got)
	}
	if r.Current() != 3 || r.Target() != 3 {
		t.Errorf("unexpected state current=%v target=%v", r.Current(), r.Target())
	}

	r.RampTo(0)
	r.Update(SpeedRampDuration / 4)
	r.Set(2)
	if got := r.Update(1); got != 2 {
		t.Errorf("Set should cancel the ramp, got %v", got)
	}
}
