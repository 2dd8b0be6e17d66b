package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alum-office/crmsync-cli/internal/ledger"
)

var ledgerLimit int

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the submission ledger",
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List committed submissions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		led, err := ledger.Open(ctx, cfg.Ledger)
		if err != nil {
			return err
		}
		defer led.Close()

		entries, err := led.Entries(ctx, ledgerLimit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%s\t%s\t%s\n",
				e.ProcessedAt.Format("2006-01-02 15:04:05"),
				e.SubmissionID,
				e.ConstituentID,
			)
		}
		fmt.Printf("%d entries\n", len(entries))
		return nil
	},
}

var ledgerCheckCmd = &cobra.Command{
	Use:   "check <submission-id>",
	Short: "Report whether a submission was already committed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		led, err := ledger.Open(ctx, cfg.Ledger)
		if err != nil {
			return err
		}
		defer led.Close()

		processed, err := led.Processed(ctx, args[0])
		if err != nil {
			return err
		}
		if processed {
			fmt.Printf("%s: committed\n", args[0])
		} else {
			fmt.Printf("%s: not committed\n", args[0])
		}
		return nil
	},
}

func init() {
	ledgerListCmd.Flags().IntVar(&ledgerLimit, "limit", 50, "maximum entries to list")
	ledgerCmd.AddCommand(ledgerListCmd, ledgerCheckCmd)
	rootCmd.AddCommand(ledgerCmd)
}
