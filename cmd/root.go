package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alum-office/crmsync-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "crmsync",
	Short: "Alumni record reconciliation for Blackbaud Raiser's Edge",
	Long:  "Reads alumni form submissions, matches each attribute against the constituent's CRM record over the SKY API, and applies only the writes that add new information, with full provenance tagging.",
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
