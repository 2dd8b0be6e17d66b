package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alum-office/crmsync-cli/internal/vocab"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Inspect the degree vocabulary",
}

var vocabCheckCmd = &cobra.Command{
	Use:   "check [degree ...]",
	Short: "Verify the degree file loads, and resolve the given form values",
	RunE: func(cmd *cobra.Command, args []string) error {
		degrees, err := vocab.LoadDegrees(cfg.Vocab.DegreesPath)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d degrees\n", cfg.Vocab.DegreesPath, degrees.Len())

		for _, form := range args {
			mapped, err := degrees.Lookup(form)
			if err != nil {
				fmt.Printf("%s: UNMAPPED\n", form)
				continue
			}
			fmt.Printf("%s: %s\n", form, mapped)
		}
		return nil
	},
}

func init() {
	vocabCmd.AddCommand(vocabCheckCmd)
	rootCmd.AddCommand(vocabCmd)
}
