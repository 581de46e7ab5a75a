// Package checkpoint persists batch progress as a single JSON document so
// an interrupted run resumes exactly where it left off.
package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/step1ne/enrich-cli/internal/model"
)

// State is the durable record of run progress. It is the single source of
// truth for resume and the only entity that survives restarts.
//
// Invariant: TotalProcessed == TotalSuccess + TotalFailed ==
// len(Succeeded) + len(Failed), and ResumePosition never decreases.
type State struct {
	ResumePosition int                `json:"resume_position"`
	TotalProcessed int                `json:"total_processed"`
	TotalSuccess   int                `json:"total_success"`
	TotalFailed    int                `json:"total_failed"`
	Succeeded      []model.ItemResult `json:"succeeded"`
	Failed         []model.ItemResult `json:"failed"`
	StartedAt      time.Time          `json:"started_at"`
	LastUpdated    time.Time          `json:"last_updated"`
}

// SuccessRate returns TotalSuccess / TotalProcessed, 0 for an empty state.
func (s *State) SuccessRate() float64 {
	if s.TotalProcessed == 0 {
		return 0
	}
	return float64(s.TotalSuccess) / float64(s.TotalProcessed)
}

// Store manages the checkpoint file. All access happens from the single
// orchestrator goroutine; crash consistency comes from whole-file atomic
// replacement, not locking.
type Store struct {
	path  string
	state *State
}

// Open loads the checkpoint at path. A missing or unreadable file is not an
// error: tracking silently restarts from a fresh state rather than aborting
// the run.
func Open(path string) *Store {
	st := &Store{path: path}
	st.state = st.load()
	return st
}

func (s *Store) load() *State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("checkpoint unreadable, starting fresh",
				zap.String("path", s.path), zap.Error(err))
		}
		return freshState()
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		zap.L().Warn("checkpoint corrupt, starting fresh",
			zap.String("path", s.path), zap.Error(err))
		return freshState()
	}
	return &state
}

func freshState() *State {
	now := time.Now()
	return &State{
		ResumePosition: 1,
		Succeeded:      []model.ItemResult{},
		Failed:         []model.ItemResult{},
		StartedAt:      now,
		LastUpdated:    now,
	}
}

// State returns the live state for reporting. Callers must not mutate it.
func (s *Store) State() *State {
	return s.state
}

// ResumePosition returns the highest fully committed position.
func (s *Store) ResumePosition() int {
	return s.state.ResumePosition
}

// RecordOutcome commits one item outcome: exactly one of Succeeded/Failed
// grows, the counters advance, and the resume position moves forward
// monotonically.
func (s *Store) RecordOutcome(position int, name string, success bool, rec *model.ContactRecord) {
	if position > s.state.ResumePosition {
		s.state.ResumePosition = position
	}
	s.state.TotalProcessed++

	item := model.ItemResult{
		Position:  position,
		Name:      name,
		Timestamp: time.Now(),
	}
	if success {
		item.Record = rec
		s.state.TotalSuccess++
		s.state.Succeeded = append(s.state.Succeeded, item)
	} else {
		s.state.TotalFailed++
		s.state.Failed = append(s.state.Failed, item)
	}
	s.state.LastUpdated = time.Now()
}

// ShouldCheckpoint reports whether the interval-th item was just processed.
func (s *Store) ShouldCheckpoint(interval int) bool {
	if interval <= 0 {
		return false
	}
	return s.state.TotalProcessed > 0 && s.state.TotalProcessed%interval == 0
}

// Save rewrites the whole checkpoint file atomically: marshal, write to a
// temp file in the same directory, rename over the old copy. A crash
// mid-save leaves the previous checkpoint intact, never a partial one.
func (s *Store) Save() error {
	s.state.LastUpdated = time.Now()

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return eris.Wrap(err, "checkpoint: marshal state")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".checkpoint-*.json")
	if err != nil {
		return eris.Wrap(err, "checkpoint: create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: close temp file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "checkpoint: replace file")
	}
	return nil
}

// Reset discards all progress and persists a fresh state.
func (s *Store) Reset() error {
	s.state = freshState()
	return s.Save()
}
