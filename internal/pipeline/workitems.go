package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/step1ne/enrich-cli/internal/model"
	"github.com/step1ne/enrich-cli/internal/sheet"
)

// BuildWorkList turns raw sheet rows into work items. rows[0] corresponds
// to spreadsheet row startRow. Rows without a company name or a usable
// listing URL are skipped; rows whose phone and email are already filled
// (and not the pending marker) need no work.
func BuildWorkList(rows [][]string, startRow int, cols sheet.Columns) []model.WorkItem {
	var items []model.WorkItem

	for i, row := range rows {
		position := startRow + i

		name := cellAt(row, cols.Name)
		if name == "" {
			continue
		}

		listing := cellAt(row, cols.Listing)
		if !strings.HasPrefix(listing, "http") {
			zap.L().Debug("row has no listing url, skipping",
				zap.Int("row", position), zap.String("company", name))
			continue
		}

		phone := cellAt(row, cols.Phone)
		email := cellAt(row, cols.Email)
		needsPhone := phone == "" || phone == sheet.Pending
		needsEmail := email == "" || email == sheet.Pending
		if !needsPhone && !needsEmail {
			continue
		}

		items = append(items, model.WorkItem{
			Position:   position,
			Name:       name,
			TargetURL:  listing,
			NeedsPhone: needsPhone,
			NeedsEmail: needsEmail,
		})
	}

	return items
}

func cellAt(row []string, column string) string {
	idx := sheet.ColumnIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
