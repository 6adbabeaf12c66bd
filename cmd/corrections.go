package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Antagata/Month-recap-AVU/internal/learning"
	"github.com/Antagata/Month-recap-AVU/internal/report"
)

var applyCorrectionsCmd = &cobra.Command{
	Use:   "apply-corrections <file>",
	Short: "Apply a reviewed corrections file to the learning store",
	Long:  "Reads item numbers filled in by a reviewer and records them as manual corrections. Corrections permanently supersede earlier automatic decisions for the same name and vintage.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "apply-corrections: open %s", args[0])
		}
		defer f.Close()

		corrections, err := report.ParseCorrections(f)
		if err != nil {
			return err
		}
		if len(corrections) == 0 {
			zap.L().Info("apply-corrections: no filled-in entries found")
			return nil
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		applied, skipped := 0, 0
		for _, c := range corrections {
			key := learning.NewKey(c.Name, c.Vintage)
			outcome, err := store.Record(ctx, key, c.ItemID, learning.OriginManualCorrection)
			if err != nil {
				return eris.Wrapf(err, "apply-corrections: record %q", c.Name)
			}
			if outcome == learning.DuplicateSkipped {
				skipped++
				continue
			}
			applied++
			zap.L().Info("apply-corrections: recorded",
				zap.String("name", key.Name),
				zap.String("vintage", key.Vintage.String()),
				zap.Int64("item_id", c.ItemID),
				zap.String("outcome", outcome.String()),
			)
		}
		if err := store.Flush(ctx); err != nil {
			return eris.Wrap(err, "apply-corrections: flush")
		}

		zap.L().Info("apply-corrections: done",
			zap.Int("applied", applied),
			zap.Int("skipped", skipped),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCorrectionsCmd)
}
