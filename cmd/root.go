package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Antagata/Month-recap-AVU/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "month-recap",
	Short: "Campaign price recap converter",
	Long:  "Resolves free-text price mentions against the offer catalog via a tiered cascade and rewrites CHF campaign text into EUR.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
