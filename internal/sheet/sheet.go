// Package sheet reads and writes the company spreadsheet: the record store
// the pipeline enriches. Two backends exist, a local XLSX workbook and the
// gog CLI for Google Sheets.
package sheet

import "context"

// Store is the spreadsheet access contract. Rows are 1-based spreadsheet
// row numbers; columns are letters ("A".."Z").
type Store interface {
	// ReadRows returns raw cell values for rows [startRow, endRow],
	// first slice element corresponding to startRow. Short rows are
	// returned as-is; callers pad.
	ReadRows(ctx context.Context, startRow, endRow int) ([][]string, error)

	// WriteCell sets one cell to value.
	WriteCell(ctx context.Context, row int, column string, value string) error

	Close() error
}
