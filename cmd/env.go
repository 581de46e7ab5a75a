package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/step1ne/enrich-cli/internal/archive"
	"github.com/step1ne/enrich-cli/internal/config"
	"github.com/step1ne/enrich-cli/internal/sheet"
	"github.com/step1ne/enrich-cli/internal/snapshot"
)

// loadColumns resolves the sheet column map, applying the optional YAML
// override file.
func loadColumns(cfg config.SheetConfig) (sheet.Columns, error) {
	if cfg.ColumnsFile == "" {
		return sheet.DefaultColumns(), nil
	}
	cols, err := sheet.LoadColumns(cfg.ColumnsFile)
	if err != nil {
		return cols, eris.Wrap(err, "resolve column map")
	}
	return cols, nil
}

// openSheetStore picks the record-store backend from config.
func openSheetStore(cfg config.SheetConfig) (sheet.Store, error) {
	switch cfg.Driver {
	case "xlsx", "":
		return sheet.OpenXLSX(cfg.Path)
	case "gog":
		if cfg.SheetID == "" {
			return nil, eris.New("sheet.id is required for the gog driver")
		}
		return sheet.NewGogStore("", cfg.SheetID, cfg.Account, 30*time.Second), nil
	default:
		return nil, eris.Errorf("unknown sheet driver %q", cfg.Driver)
	}
}

// openSnapshotter picks the page-fetching backend from config.
func openSnapshotter(cfg config.SnapshotConfig) (snapshot.Snapshotter, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	switch cfg.Backend {
	case "exec", "":
		return snapshot.NewExecSnapshotter(cfg.Command, nil, timeout), nil
	case "chromedp":
		return snapshot.NewChromedpSnapshotter(cfg.UserAgent, timeout), nil
	default:
		return nil, eris.Errorf("unknown snapshot backend %q", cfg.Backend)
	}
}

// openArchive opens the optional result archive. Returns nil when disabled.
func openArchive(ctx context.Context, cfg config.ArchiveConfig) (archive.Store, error) {
	var (
		st  archive.Store
		err error
	)
	switch cfg.Driver {
	case "", "off":
		return nil, nil
	case "sqlite":
		st, err = archive.NewSQLite(cfg.DSN)
	case "postgres":
		st, err = archive.NewPostgres(ctx, cfg.DSN)
	default:
		return nil, eris.Errorf("unknown archive driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	zap.L().Info("archive enabled", zap.String("driver", cfg.Driver))
	return st, nil
}
