// Package progress derives human-readable run statistics from checkpoint
// state.
package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/step1ne/enrich-cli/internal/checkpoint"
)

// Snapshot is a derived, non-persisted view of run progress.
type Snapshot struct {
	TotalProcessed int           `json:"total_processed"`
	TotalSuccess   int           `json:"total_success"`
	TotalFailed    int           `json:"total_failed"`
	SuccessRate    float64       `json:"success_rate"`
	ResumePosition int           `json:"resume_position"`
	Elapsed        time.Duration `json:"elapsed_seconds"`
	EstRemaining   time.Duration `json:"est_remaining_seconds"`
	GeneratedAt    time.Time     `json:"generated_at"`
}

// Reporter turns checkpoint state into progress snapshots. The elapsed
// clock starts at construction, not at the (possibly much older) state's
// StartedAt, so a resumed run reports its own wall time.
type Reporter struct {
	startedAt  time.Time
	knownTotal int

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

// NewReporter creates a reporter. knownTotal is the full work-list size
// used for ETA; 0 means unknown and suppresses the estimate.
func NewReporter(knownTotal int) *Reporter {
	return &Reporter{
		startedAt:  time.Now(),
		knownTotal: knownTotal,
		nowFunc:    time.Now,
	}
}

// Summarize computes a Snapshot from the current checkpoint state.
func (r *Reporter) Summarize(state *checkpoint.State) Snapshot {
	now := r.nowFunc()
	snap := Snapshot{
		TotalProcessed: state.TotalProcessed,
		TotalSuccess:   state.TotalSuccess,
		TotalFailed:    state.TotalFailed,
		SuccessRate:    state.SuccessRate(),
		ResumePosition: state.ResumePosition,
		Elapsed:        now.Sub(r.startedAt),
		GeneratedAt:    now,
	}

	// ETA = average seconds per item x remaining items, clamped to 0
	// when the total is unknown or already exceeded.
	if r.knownTotal > 0 && state.TotalProcessed > 0 {
		remaining := r.knownTotal - state.TotalProcessed
		if remaining > 0 {
			avg := snap.Elapsed / time.Duration(state.TotalProcessed)
			snap.EstRemaining = avg * time.Duration(remaining)
		}
	}

	return snap
}

// Format renders a snapshot as a multi-line report for logs and console.
func (r *Reporter) Format(snap Snapshot, headline string) string {
	var b strings.Builder
	if headline != "" {
		fmt.Fprintf(&b, "%s\n", headline)
	}
	fmt.Fprintf(&b, "processed: %d\n", snap.TotalProcessed)
	fmt.Fprintf(&b, "success:   %d (%.1f%%)\n", snap.TotalSuccess, snap.SuccessRate*100)
	fmt.Fprintf(&b, "failed:    %d\n", snap.TotalFailed)
	fmt.Fprintf(&b, "elapsed:   %s\n", formatDuration(snap.Elapsed))
	if snap.EstRemaining > 0 {
		fmt.Fprintf(&b, "remaining: ~%s\n", formatDuration(snap.EstRemaining))
	}
	fmt.Fprintf(&b, "position:  row %d", snap.ResumePosition)
	return b.String()
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%02ds", m, s)
}
