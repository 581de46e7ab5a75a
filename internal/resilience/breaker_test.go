package resilience

import "testing"

func TestBreaker_NoTripBelowMinSamples(t *testing.T) {
	b := NewFailureRateBreaker(5, 0.8)
	for i := 0; i < 4; i++ {
		b.Record(false)
	}
	if b.ShouldPause() {
		t.Error("breaker tripped before reaching the minimum sample count")
	}
}

func TestBreaker_TripsOnStraightFailures(t *testing.T) {
	b := NewFailureRateBreaker(5, 0.8)
	for i := 0; i < 5; i++ {
		b.Record(false)
	}
	if !b.ShouldPause() {
		t.Error("five straight failures must trip the breaker")
	}
	if rate := b.SuccessRate(); rate != 0 {
		t.Errorf("success rate = %v, want 0", rate)
	}
}

func TestBreaker_HealthyWindowStaysClosed(t *testing.T) {
	b := NewFailureRateBreaker(5, 0.8)
	for i := 0; i < 8; i++ {
		b.Record(true)
	}
	b.Record(false)
	b.Record(false)
	if b.ShouldPause() {
		t.Error("80% success must not trip a 0.8 fail threshold")
	}
}

func TestBreaker_ThresholdBoundary(t *testing.T) {
	// With FailThreshold 0.5 the breaker trips strictly below 50% success.
	b := NewFailureRateBreaker(4, 0.5)
	b.Record(true)
	b.Record(true)
	b.Record(false)
	b.Record(false)
	if b.ShouldPause() {
		t.Error("success rate exactly at the threshold must not trip")
	}
	b.Record(false)
	if !b.ShouldPause() {
		t.Error("success rate below the threshold must trip")
	}
}

func TestBreaker_ResetWindow(t *testing.T) {
	b := NewFailureRateBreaker(5, 0.8)
	for i := 0; i < 5; i++ {
		b.Record(false)
	}
	if !b.ShouldPause() {
		t.Fatal("breaker should be tripped before the reset")
	}
	b.ResetWindow()
	if b.ShouldPause() {
		t.Error("reset window must clear the tripped state")
	}
	if rate := b.SuccessRate(); rate != 1 {
		t.Errorf("empty window success rate = %v, want 1", rate)
	}
}
