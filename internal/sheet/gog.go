package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// GogStore drives a Google Sheet through the gog CLI, the same tool the
// spreadsheet is maintained with. Each call is a separate process under a
// deadline.
type GogStore struct {
	command string
	sheetID string
	account string
	timeout time.Duration
}

// NewGogStore creates a gog-backed store for the given sheet and account.
func NewGogStore(command, sheetID, account string, timeout time.Duration) *GogStore {
	if command == "" {
		command = "gog"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GogStore{command: command, sheetID: sheetID, account: account, timeout: timeout}
}

// ReadRows fetches A<start>:Z<end> and returns the raw values.
func (s *GogStore) ReadRows(ctx context.Context, startRow, endRow int) ([][]string, error) {
	if startRow < 1 || endRow < startRow {
		return nil, eris.Errorf("sheet: invalid row range %d-%d", startRow, endRow)
	}

	rangeRef := fmt.Sprintf("A%d:Z%d", startRow, endRow)
	out, err := s.run(ctx, "sheets", "get", s.sheetID, rangeRef,
		"--account", s.account, "--json")
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: gog get %s", rangeRef)
	}

	var payload struct {
		Values [][]string `json:"values"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, eris.Wrap(err, "sheet: parse gog output")
	}
	return payload.Values, nil
}

// WriteCell updates a single cell via `gog sheets update`.
func (s *GogStore) WriteCell(ctx context.Context, row int, column string, value string) error {
	if row < 1 || ColumnIndex(column) < 0 {
		return eris.Errorf("sheet: invalid cell %s%d", column, row)
	}

	valuesJSON, err := json.Marshal([][]string{{value}})
	if err != nil {
		return eris.Wrap(err, "sheet: marshal cell value")
	}

	cellRef := fmt.Sprintf("%s%d", column, row)
	if _, err := s.run(ctx, "sheets", "update", s.sheetID, cellRef,
		"--values-json", string(valuesJSON), "--account", s.account); err != nil {
		return eris.Wrapf(err, "sheet: gog update %s", cellRef)
	}
	return nil
}

func (s *GogStore) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		zap.L().Debug("gog command failed",
			zap.Strings("args", args),
			zap.String("stderr", stderr.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return stdout.Bytes(), nil
}

// Close is a no-op.
func (s *GogStore) Close() error { return nil }
