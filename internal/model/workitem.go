package model

import "time"

// WorkItem is one company row waiting for contact enrichment. Items are
// keyed by Position (the spreadsheet row number) and immutable once built.
type WorkItem struct {
	Position   int    `json:"position"`
	Name       string `json:"name"`
	TargetURL  string `json:"target_url"`
	NeedsPhone bool   `json:"needs_phone"`
	NeedsEmail bool   `json:"needs_email"`
}

// RunOutcome is the terminal state of a batch run.
type RunOutcome string

const (
	RunCompleted   RunOutcome = "completed"
	RunInterrupted RunOutcome = "interrupted"
	RunAutoPaused  RunOutcome = "auto_paused"
)

// ItemResult records the outcome of processing a single work item.
type ItemResult struct {
	Position  int            `json:"position"`
	Name      string         `json:"name"`
	Record    *ContactRecord `json:"record,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
