package sheet

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sh, err := f.AddSheet("companies")
	require.NoError(t, err)
	for _, row := range rows {
		r := sh.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "companies.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestOpenXLSX_MissingFile(t *testing.T) {
	_, err := OpenXLSX(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Error(t, err)
}

func TestXLSXStore_ReadRows(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"公司名稱", "電話"},
		{"甲公司", "待查", "", "", "https://www.104.com.tw/company/a"},
		{"乙公司", "02-1234-5678"},
	})
	store, err := OpenXLSX(path)
	require.NoError(t, err)
	defer store.Close()

	rows, err := store.ReadRows(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "甲公司", rows[0][0])
	assert.Equal(t, "02-1234-5678", rows[1][1])
	assert.Nil(t, rows[2], "rows past the sheet end come back empty")
	assert.Nil(t, rows[3])
}

func TestXLSXStore_ReadRows_InvalidRange(t *testing.T) {
	store, err := OpenXLSX(writeWorkbook(t, [][]string{{"x"}}))
	require.NoError(t, err)
	_, err = store.ReadRows(context.Background(), 5, 2)
	assert.Error(t, err)
}

func TestXLSXStore_WriteCellPersists(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"公司名稱"},
		{"甲公司"},
	})
	store, err := OpenXLSX(path)
	require.NoError(t, err)

	require.NoError(t, store.WriteCell(context.Background(), 2, "B", "0912-345-678"))
	require.NoError(t, store.Close())

	reopened, err := OpenXLSX(path)
	require.NoError(t, err)
	rows, err := reopened.ReadRows(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "0912-345-678", rows[0][1])
}

func TestXLSXStore_WriteCell_InvalidColumn(t *testing.T) {
	store, err := OpenXLSX(writeWorkbook(t, [][]string{{"x"}}))
	require.NoError(t, err)
	assert.Error(t, store.WriteCell(context.Background(), 1, "", "v"))
	assert.Error(t, store.WriteCell(context.Background(), 0, "A", "v"))
}
