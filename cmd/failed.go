package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/step1ne/enrich-cli/internal/checkpoint"
)

var failedCmd = &cobra.Command{
	Use:   "failed",
	Short: "List failed rows for manual follow-up",
	RunE: func(cmd *cobra.Command, args []string) error {
		ckpt := checkpoint.Open(cfg.Checkpoint.Path)
		failed := ckpt.State().Failed
		if len(failed) == 0 {
			fmt.Println("no failed rows")
			return nil
		}
		for _, item := range failed {
			fmt.Printf("row %d: %s (%s)\n",
				item.Position, item.Name, item.Timestamp.Format("2006-01-02 15:04"))
		}
		fmt.Printf("%d failed rows total\n", len(failed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(failedCmd)
}
