package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/step1ne/enrich-cli/internal/model"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "checkpoint.json")
}

func TestOpen_MissingFileStartsFresh(t *testing.T) {
	st := Open(tempPath(t))
	assert.Equal(t, 1, st.ResumePosition())
	assert.Zero(t, st.State().TotalProcessed)
}

func TestOpen_CorruptFileStartsFresh(t *testing.T) {
	path := tempPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	st := Open(path)
	assert.Equal(t, 1, st.ResumePosition(), "corrupt checkpoint must not abort the run")
	assert.Zero(t, st.State().TotalProcessed)
}

func TestRecordOutcome_Invariant(t *testing.T) {
	st := Open(tempPath(t))
	st.RecordOutcome(2, "甲公司", true, &model.ContactRecord{Phone: "02-1234-5678"})
	st.RecordOutcome(3, "乙公司", false, nil)
	st.RecordOutcome(4, "丙公司", true, &model.ContactRecord{Email: "a@b.tw"})

	s := st.State()
	assert.Equal(t, s.TotalProcessed, s.TotalSuccess+s.TotalFailed)
	assert.Equal(t, s.TotalProcessed, len(s.Succeeded)+len(s.Failed))
	assert.Equal(t, 4, s.ResumePosition)
	assert.InDelta(t, 2.0/3.0, s.SuccessRate(), 0.001)
}

func TestRecordOutcome_ResumeNeverDecreases(t *testing.T) {
	st := Open(tempPath(t))
	st.RecordOutcome(10, "甲公司", true, nil)
	st.RecordOutcome(7, "乙公司", false, nil)
	assert.Equal(t, 10, st.ResumePosition())
}

func TestSaveAndReopen(t *testing.T) {
	path := tempPath(t)

	st := Open(path)
	st.RecordOutcome(2, "甲公司", true, &model.ContactRecord{Phone: "02-1234-5678"})
	st.RecordOutcome(3, "乙公司", false, nil)
	require.NoError(t, st.Save())

	reopened := Open(path)
	s := reopened.State()
	assert.Equal(t, 3, s.ResumePosition)
	assert.Equal(t, 2, s.TotalProcessed)
	assert.Equal(t, 1, s.TotalSuccess)
	require.Len(t, s.Succeeded, 1)
	assert.Equal(t, "甲公司", s.Succeeded[0].Name)
	require.NotNil(t, s.Succeeded[0].Record)
	assert.Equal(t, "02-1234-5678", s.Succeeded[0].Record.Phone)
}

func TestSave_FileIsValidJSON(t *testing.T) {
	path := tempPath(t)
	st := Open(path)
	st.RecordOutcome(2, "甲公司", true, nil)
	require.NoError(t, st.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.EqualValues(t, 2, parsed["resume_position"])

	// No temp files left behind after the rename.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestShouldCheckpoint(t *testing.T) {
	st := Open(tempPath(t))
	assert.False(t, st.ShouldCheckpoint(5), "empty state never checkpoints")

	for i := 0; i < 4; i++ {
		st.RecordOutcome(i+2, "x", true, nil)
	}
	assert.False(t, st.ShouldCheckpoint(5))
	st.RecordOutcome(6, "x", true, nil)
	assert.True(t, st.ShouldCheckpoint(5))
	assert.False(t, st.ShouldCheckpoint(0), "zero interval disables checkpointing")
}

func TestReset(t *testing.T) {
	path := tempPath(t)
	st := Open(path)
	st.RecordOutcome(5, "甲公司", true, nil)
	require.NoError(t, st.Save())

	require.NoError(t, st.Reset())
	assert.Equal(t, 1, st.ResumePosition())

	reopened := Open(path)
	assert.Zero(t, reopened.State().TotalProcessed, "reset must persist")
}
