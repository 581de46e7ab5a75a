package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/step1ne/enrich-cli/internal/checkpoint"
	"github.com/step1ne/enrich-cli/internal/progress"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show checkpoint statistics and resume position",
	RunE: func(cmd *cobra.Command, args []string) error {
		ckpt := checkpoint.Open(cfg.Checkpoint.Path)
		reporter := progress.NewReporter(cfg.Report.KnownTotal)
		snap := reporter.Summarize(ckpt.State())
		fmt.Println(reporter.Format(snap, "checkpoint status"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
