package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tradeflow/internal/config"
)

var cfg *config.Config

// validateAnnotation names the config mode a command validates before running.
const validateAnnotation = "config-mode"

var rootCmd = &cobra.Command{
	Use:   "tradeflow",
	Short: "Customs shipment cleaner and dashboard",
	Long:  "Normalizes customs declaration spreadsheets and serves filtered summaries, rankings, monthly pivots and tariff-code drill-downs over them.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		if cmd.Annotations[validateAnnotation] == "" {
			return nil
		}
		return cfg.Validate(cmd.Annotations[validateAnnotation])
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
