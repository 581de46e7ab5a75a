package resilience

import "sync"

// FailureRateBreaker is the run-level circuit breaker behind auto-pause.
// Unlike a consecutive-failure breaker it watches the success rate over the
// current reporting window, so one bad item among many good ones does not
// stop the run, while a site that has started blocking every request does.
type FailureRateBreaker struct {
	mu sync.Mutex

	// MinSamples is the minimum number of recorded outcomes in the window
	// before the breaker may trip. Default: 5.
	MinSamples int

	// FailThreshold is the tolerated failure fraction. The breaker trips
	// once the observed success rate drops below 1 - FailThreshold.
	FailThreshold float64

	successes int
	failures  int
}

// NewFailureRateBreaker creates a breaker with the given threshold.
func NewFailureRateBreaker(minSamples int, failThreshold float64) *FailureRateBreaker {
	if minSamples <= 0 {
		minSamples = 5
	}
	return &FailureRateBreaker{
		MinSamples:    minSamples,
		FailThreshold: failThreshold,
	}
}

// Record adds one item outcome to the current window.
func (b *FailureRateBreaker) Record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if success {
		b.successes++
	} else {
		b.failures++
	}
}

// ShouldPause reports whether the window has enough samples and the
// success rate has fallen below 1 - FailThreshold.
func (b *FailureRateBreaker) ShouldPause() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := b.successes + b.failures
	if total < b.MinSamples {
		return false
	}
	successRate := float64(b.successes) / float64(total)
	return successRate < 1-b.FailThreshold
}

// SuccessRate returns the observed success rate in the current window,
// or 1 when nothing has been recorded yet.
func (b *FailureRateBreaker) SuccessRate() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := b.successes + b.failures
	if total == 0 {
		return 1
	}
	return float64(b.successes) / float64(total)
}

// ResetWindow clears the window counters. The orchestrator calls this at
// each reporting boundary so the rate reflects recent behavior, not the
// whole run.
func (b *FailureRateBreaker) ResetWindow() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.successes = 0
	b.failures = 0
}
