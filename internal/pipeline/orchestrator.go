// Package pipeline drives the batch enrichment loop: delay, fetch,
// extract, validate, persist, checkpoint. Processing is strictly
// sequential; the snapshot capability is a single shared browser-like
// resource and pacing requires serialized items.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/step1ne/enrich-cli/internal/archive"
	"github.com/step1ne/enrich-cli/internal/checkpoint"
	"github.com/step1ne/enrich-cli/internal/extract"
	"github.com/step1ne/enrich-cli/internal/model"
	"github.com/step1ne/enrich-cli/internal/progress"
	"github.com/step1ne/enrich-cli/internal/resilience"
	"github.com/step1ne/enrich-cli/internal/sheet"
	"github.com/step1ne/enrich-cli/internal/validate"
)

// Fetcher obtains a page snapshot, absorbing its own retries. ok=false
// means the item failed, not that something exceptional happened.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (text string, ok bool)
}

// Delayer paces the gap between work items.
type Delayer interface {
	Delay(ctx context.Context) (time.Duration, error)
}

// RecordWriter persists accepted fields to the record store.
type RecordWriter interface {
	WriteRecord(ctx context.Context, item model.WorkItem, rec model.ContactRecord) error
}

// Config holds the orchestration knobs.
type Config struct {
	// CheckpointInterval saves state every N processed items.
	CheckpointInterval int
	// ReportInterval emits a progress report every N processed items and
	// resets the auto-pause window.
	ReportInterval int
	// ScanEndRow is the last spreadsheet row considered. Default 250.
	ScanEndRow int
	// TestLimit caps the number of items processed; 0 means no cap.
	TestLimit int
	// Reset discards the checkpoint before starting.
	Reset bool
	// DryRun extracts and validates but skips record-store writes.
	DryRun bool
	// SnapshotTTL bounds how long cached snapshots stay usable.
	SnapshotTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.CheckpointInterval <= 0 {
		c.CheckpointInterval = 5
	}
	if c.ReportInterval <= 0 {
		c.ReportInterval = 5
	}
	if c.ScanEndRow <= 0 {
		c.ScanEndRow = 250
	}
	if c.SnapshotTTL <= 0 {
		c.SnapshotTTL = 24 * time.Hour
	}
	return c
}

// Orchestrator wires the pipeline collaborators together and owns the run
// loop.
type Orchestrator struct {
	cfg       Config
	cols      sheet.Columns
	sheet     sheet.Store
	writer    RecordWriter
	fetcher   Fetcher
	extractor *extract.Extractor
	ckpt      *checkpoint.Store
	reporter  *progress.Reporter
	notifier  *progress.Notifier
	governor  Delayer
	breaker   *resilience.FailureRateBreaker
	archive   archive.Store // nil disables archiving and the snapshot cache
}

// New creates an Orchestrator. archiveStore may be nil.
func New(
	cfg Config,
	cols sheet.Columns,
	sheetStore sheet.Store,
	writer RecordWriter,
	fetcher Fetcher,
	extractor *extract.Extractor,
	ckpt *checkpoint.Store,
	reporter *progress.Reporter,
	notifier *progress.Notifier,
	governor Delayer,
	breaker *resilience.FailureRateBreaker,
	archiveStore archive.Store,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg.withDefaults(),
		cols:      cols,
		sheet:     sheetStore,
		writer:    writer,
		fetcher:   fetcher,
		extractor: extractor,
		ckpt:      ckpt,
		reporter:  reporter,
		notifier:  notifier,
		governor:  governor,
		breaker:   breaker,
		archive:   archiveStore,
	}
}

// Run executes the batch until the work list is exhausted, the caller
// cancels, or the auto-pause breaker trips. Every exit path saves the
// checkpoint before reporting.
func (o *Orchestrator) Run(ctx context.Context) (model.RunOutcome, error) {
	if o.cfg.Reset {
		zap.L().Info("resetting checkpoint")
		if err := o.ckpt.Reset(); err != nil {
			return "", eris.Wrap(err, "pipeline: reset checkpoint")
		}
	}

	cursor := o.ckpt.ResumePosition() + 1
	if cursor < 2 {
		cursor = 2 // row 1 is the header
	}
	zap.L().Info("starting batch",
		zap.Int("cursor", cursor),
		zap.Int("resume_position", o.ckpt.ResumePosition()),
	)

	endRow := o.cfg.ScanEndRow
	if endRow < cursor {
		return o.finish(ctx, model.RunCompleted, "no rows left to scan")
	}
	rows, err := o.sheet.ReadRows(ctx, cursor, endRow)
	if err != nil {
		return "", eris.Wrap(err, "pipeline: read work rows")
	}

	items := BuildWorkList(rows, cursor, o.cols)
	if o.cfg.TestLimit > 0 && len(items) > o.cfg.TestLimit {
		items = items[:o.cfg.TestLimit]
	}
	if len(items) == 0 {
		return o.finish(ctx, model.RunCompleted, "no companies need processing")
	}
	zap.L().Info("work list built", zap.Int("items", len(items)))

	if o.archive != nil {
		if n, err := o.archive.DeleteExpiredSnapshots(ctx); err == nil && n > 0 {
			zap.L().Debug("expired snapshots pruned", zap.Int("count", n))
		}
	}

	for i, item := range items {
		if ctx.Err() != nil {
			return o.finish(context.WithoutCancel(ctx), model.RunInterrupted, "stop signal received")
		}

		zap.L().Info("processing item",
			zap.Int("n", i+1), zap.Int("of", len(items)),
			zap.Int("row", item.Position), zap.String("company", item.Name),
		)

		rec, success, interrupted := o.processItem(ctx, item)
		o.ckpt.RecordOutcome(item.Position, item.Name, success, rec)
		o.breaker.Record(success)
		o.archiveResult(ctx, item, rec, success)

		if interrupted {
			return o.finish(context.WithoutCancel(ctx), model.RunInterrupted, "stop signal received")
		}

		// Circuit-break the whole run when the window success rate has
		// collapsed: burning through the rest of the list against a site
		// that started blocking us helps nobody. Checked before the report
		// boundary, which resets the window.
		if o.breaker.ShouldPause() {
			zap.L().Warn("failure rate too high, pausing run",
				zap.Float64("success_rate", o.breaker.SuccessRate()))
			return o.finish(ctx, model.RunAutoPaused, "auto-paused: failure rate too high")
		}

		if o.ckpt.ShouldCheckpoint(o.cfg.CheckpointInterval) {
			o.saveCheckpoint()
		}
		if o.ckpt.State().TotalProcessed%o.cfg.ReportInterval == 0 {
			o.report(ctx, "progress update")
			o.breaker.ResetWindow()
		}
	}

	return o.finish(ctx, model.RunCompleted, "batch complete")
}

// processItem handles one work item end to end. interrupted is set when a
// stop signal arrived mid-item; the item still counts as failed.
func (o *Orchestrator) processItem(ctx context.Context, item model.WorkItem) (rec *model.ContactRecord, success, interrupted bool) {
	if _, err := o.governor.Delay(ctx); err != nil {
		return nil, false, true
	}

	text, ok := o.obtainSnapshot(ctx, item.TargetURL)
	if !ok {
		return nil, false, ctx.Err() != nil
	}

	extracted := o.extractor.Extract(text)
	val := validate.Record(extracted)
	rec = &extracted
	zap.L().Info("extracted",
		zap.Int("row", item.Position),
		zap.String("company", item.Name),
		zap.String("summary", val.Summary(extracted)),
	)

	if o.cfg.DryRun {
		return rec, true, false
	}

	if err := o.writer.WriteRecord(ctx, item, extracted); err != nil {
		zap.L().Error("record store write failed",
			zap.Int("row", item.Position),
			zap.String("company", item.Name),
			zap.Error(err),
		)
		return rec, false, ctx.Err() != nil
	}
	return rec, true, false
}

// obtainSnapshot checks the archive cache first, then falls back to a live
// fetch, caching the result for the configured TTL.
func (o *Orchestrator) obtainSnapshot(ctx context.Context, url string) (string, bool) {
	if o.archive != nil {
		if text, hit, err := o.archive.GetCachedSnapshot(ctx, url); err != nil {
			zap.L().Warn("snapshot cache read failed", zap.Error(err))
		} else if hit {
			zap.L().Debug("snapshot cache hit", zap.String("url", url))
			return text, true
		}
	}

	text, ok := o.fetcher.Fetch(ctx, url)
	if !ok {
		return "", false
	}

	if o.archive != nil {
		if err := o.archive.PutSnapshot(ctx, url, text, o.cfg.SnapshotTTL); err != nil {
			zap.L().Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	return text, true
}

func (o *Orchestrator) archiveResult(ctx context.Context, item model.WorkItem, rec *model.ContactRecord, success bool) {
	if o.archive == nil {
		return
	}
	res := archive.Result{
		Position: item.Position,
		Company:  item.Name,
		Success:  success,
	}
	if rec != nil {
		res.Record = rec
		res.Quality = validate.Record(*rec).QualityScore()
	}
	if err := o.archive.SaveResult(ctx, res); err != nil {
		zap.L().Warn("archive write failed", zap.Error(err))
	}
}

// saveCheckpoint persists state, degrading to in-memory tracking when the
// disk is unwritable: losing resumability beats losing the run.
func (o *Orchestrator) saveCheckpoint() {
	if err := o.ckpt.Save(); err != nil {
		zap.L().Error("checkpoint save failed, continuing in memory", zap.Error(err))
	}
}

func (o *Orchestrator) report(ctx context.Context, headline string) {
	snap := o.reporter.Summarize(o.ckpt.State())
	zap.L().Info("progress report", zap.String("report", o.reporter.Format(snap, headline)))
	if o.notifier != nil {
		o.notifier.Notify(ctx, snap, headline)
	}
}

// finish is the single exit path: save state, report, and list failures on
// normal completion for manual follow-up.
func (o *Orchestrator) finish(ctx context.Context, outcome model.RunOutcome, headline string) (model.RunOutcome, error) {
	o.saveCheckpoint()
	o.report(ctx, headline)

	if outcome == model.RunCompleted {
		for _, f := range o.ckpt.State().Failed {
			zap.L().Info("failed item",
				zap.Int("row", f.Position), zap.String("company", f.Name))
		}
	}

	zap.L().Info("run finished", zap.String("outcome", string(outcome)))
	return outcome, nil
}
