package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/step1ne/enrich-cli/internal/checkpoint"
	"github.com/step1ne/enrich-cli/internal/extract"
	"github.com/step1ne/enrich-cli/internal/pacing"
	"github.com/step1ne/enrich-cli/internal/pipeline"
	"github.com/step1ne/enrich-cli/internal/progress"
	"github.com/step1ne/enrich-cli/internal/resilience"
	"github.com/step1ne/enrich-cli/internal/sheet"
	"github.com/step1ne/enrich-cli/internal/snapshot"
)

var (
	runReset  bool
	runTest   int
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the batch enrichment pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cols, err := loadColumns(cfg.Sheet)
		if err != nil {
			return err
		}

		sheetStore, err := openSheetStore(cfg.Sheet)
		if err != nil {
			return err
		}
		defer sheetStore.Close()

		snapshotter, err := openSnapshotter(cfg.Snapshot)
		if err != nil {
			return err
		}

		arch, err := openArchive(ctx, cfg.Archive)
		if err != nil {
			return err
		}
		if arch != nil {
			defer arch.Close()
		}

		fetcher := snapshot.NewFetcher(snapshotter, snapshot.FetcherConfig{
			Retries:         cfg.Retry.Times,
			RetryDelay:      time.Duration(cfg.Retry.DelaySecs) * time.Second,
			MinContentBytes: cfg.Snapshot.MinBytes,
		})
		defer fetcher.Close()

		orch := pipeline.New(
			pipeline.Config{
				CheckpointInterval: cfg.Checkpoint.Interval,
				ReportInterval:     cfg.Report.Interval,
				ScanEndRow:         cfg.Sheet.ScanEndRow,
				TestLimit:          runTest,
				Reset:              runReset,
				DryRun:             runDryRun,
				SnapshotTTL:        time.Duration(cfg.Archive.SnapshotTTLHours) * time.Hour,
			},
			cols,
			sheetStore,
			sheet.NewRowWriter(sheetStore, cols, cfg.Sheet.WriteRate, cfg.Sheet.Consultant),
			fetcher,
			extract.New(cfg.Snapshot.AggregatorDomain),
			checkpoint.Open(cfg.Checkpoint.Path),
			progress.NewReporter(cfg.Report.KnownTotal),
			progress.NewNotifier(cfg.Report.WebhookURL),
			pacing.NewGovernor(
				time.Duration(cfg.Delay.MinSecs)*time.Second,
				time.Duration(cfg.Delay.MaxSecs)*time.Second,
			),
			resilience.NewFailureRateBreaker(cfg.AutoPause.MinSamples, cfg.AutoPause.FailThreshold),
			arch,
		)

		outcome, err := orch.Run(ctx)
		if err != nil {
			return err
		}
		zap.L().Info("batch run done", zap.String("outcome", string(outcome)))
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runReset, "reset", false, "clear the checkpoint and restart from the beginning")
	runCmd.Flags().IntVar(&runTest, "test", 0, "test mode: process at most N companies")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "extract and validate but skip sheet writes")
	rootCmd.AddCommand(runCmd)
}
