package sheet

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXStore backs the record store with a local workbook. Every write is
// saved straight back to disk, so an interrupted run loses at most the
// in-flight cell.
type XLSXStore struct {
	path  string
	file  *xlsx.File
	sheet *xlsx.Sheet
}

// OpenXLSX opens the workbook at path and selects its first sheet.
func OpenXLSX(path string) (*XLSXStore, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: open workbook %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("sheet: workbook %s has no sheets", path)
	}
	return &XLSXStore{path: path, file: f, sheet: f.Sheets[0]}, nil
}

// ReadRows returns cell values for spreadsheet rows [startRow, endRow].
// Rows beyond the sheet come back empty rather than erroring, matching
// how a ranged spreadsheet read behaves.
func (s *XLSXStore) ReadRows(ctx context.Context, startRow, endRow int) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "sheet: read rows")
	}
	if startRow < 1 || endRow < startRow {
		return nil, eris.Errorf("sheet: invalid row range %d-%d", startRow, endRow)
	}

	var rows [][]string
	for r := startRow; r <= endRow; r++ {
		idx := r - 1
		if idx >= len(s.sheet.Rows) {
			rows = append(rows, nil)
			continue
		}
		row := s.sheet.Rows[idx]
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// WriteCell sets one cell and saves the workbook.
func (s *XLSXStore) WriteCell(ctx context.Context, row int, column string, value string) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "sheet: write cell")
	}
	col := ColumnIndex(column)
	if row < 1 || col < 0 {
		return eris.Errorf("sheet: invalid cell %s%d", column, row)
	}

	s.sheet.Cell(row-1, col).SetString(value)

	if err := s.file.Save(s.path); err != nil {
		return eris.Wrapf(err, "sheet: save workbook %s", s.path)
	}
	return nil
}

// Close is a no-op; writes are flushed eagerly.
func (s *XLSXStore) Close() error { return nil }
