package sheet

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/step1ne/enrich-cli/internal/model"
)

// Pending is the placeholder the sheet uses for a value still to be found.
// A cell holding it counts as missing.
const Pending = "待查"

// StatusReady marks a row whose contact details were found.
const StatusReady = "待聯繫"

// RowWriter writes accepted fields back to the sheet, plus the status,
// date and owner bookkeeping columns. Writes are paced through a shared
// rate limiter to stay inside the sheets API quota.
type RowWriter struct {
	store      Store
	cols       Columns
	limiter    *rate.Limiter
	consultant string

	// nowFunc allows test injection of the bookkeeping date.
	nowFunc func() time.Time
}

// NewRowWriter creates a writer over store. writesPerSec bounds the write
// rate; consultant fills the owner column.
func NewRowWriter(store Store, cols Columns, writesPerSec float64, consultant string) *RowWriter {
	if writesPerSec <= 0 {
		writesPerSec = 2
	}
	return &RowWriter{
		store:      store,
		cols:       cols,
		limiter:    rate.NewLimiter(rate.Limit(writesPerSec), 1),
		consultant: consultant,
		nowFunc:    time.Now,
	}
}

// WriteRecord persists the extracted fields the item needs, then the
// bookkeeping columns. Phone and email respect the item's needs flags so a
// value the sheet already has is never overwritten; the remaining fields
// are written whenever extraction found them. The first write error fails
// the whole item.
func (w *RowWriter) WriteRecord(ctx context.Context, item model.WorkItem, rec model.ContactRecord) error {
	type update struct {
		column string
		value  string
	}
	var updates []update

	if rec.Phone != "" && item.NeedsPhone {
		updates = append(updates, update{w.cols.Phone, rec.Phone})
	}
	if rec.Email != "" && item.NeedsEmail {
		updates = append(updates, update{w.cols.Email, rec.Email})
	}
	for _, field := range []model.FieldName{
		model.FieldWebsite, model.FieldAddress, model.FieldIndustry, model.FieldServices,
	} {
		if v := rec.Get(field); v != "" {
			updates = append(updates, update{w.cols.ForField(field), v})
		}
	}

	// Bookkeeping: a row with a phone or email moves to ready-to-contact.
	status := Pending
	if rec.HasContact() {
		status = StatusReady
	}
	updates = append(updates,
		update{w.cols.Status, status},
		update{w.cols.Date, w.nowFunc().Format("2006-01-02")},
		update{w.cols.Owner, w.consultant},
	)

	for _, u := range updates {
		if err := w.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "sheet: write pacing interrupted")
		}
		if err := w.store.WriteCell(ctx, item.Position, u.column, u.value); err != nil {
			return eris.Wrapf(err, "sheet: write %s%d", u.column, item.Position)
		}
	}

	zap.L().Info("row updated",
		zap.Int("row", item.Position),
		zap.String("company", item.Name),
		zap.Int("cells", len(updates)),
	)
	return nil
}
