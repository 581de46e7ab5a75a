package sheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/step1ne/enrich-cli/internal/model"
)

func TestColumnIndex(t *testing.T) {
	tests := []struct {
		column string
		want   int
	}{
		{"A", 0},
		{"B", 1},
		{"K", 10},
		{"Z", 25},
		{"AA", 26},
		{"AB", 27},
		{"", -1},
		{"a", -1},
		{"1", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ColumnIndex(tt.column), "column %q", tt.column)
	}
}

func TestDefaultColumns_ForField(t *testing.T) {
	cols := DefaultColumns()
	assert.Equal(t, "B", cols.ForField(model.FieldPhone))
	assert.Equal(t, "C", cols.ForField(model.FieldEmail))
	assert.Equal(t, "D", cols.ForField(model.FieldWebsite))
	assert.Equal(t, "H", cols.ForField(model.FieldServices))
	assert.Empty(t, cols.ForField(model.FieldName("bogus")))
}

func TestLoadColumns_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("phone: \"C\"\nemail: \"D\"\n"), 0o644))

	cols, err := LoadColumns(path)
	require.NoError(t, err)
	assert.Equal(t, "C", cols.Phone)
	assert.Equal(t, "D", cols.Email)
	assert.Equal(t, "A", cols.Name, "unset entries keep the defaults")
	assert.Equal(t, "I", cols.Status)
}

func TestLoadColumns_MissingFile(t *testing.T) {
	cols, err := LoadColumns(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
	assert.Equal(t, DefaultColumns(), cols, "defaults still returned on error")
}
