package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"sync", "ledger", "vocab"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "crmsync", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestSyncCommand_Flags(t *testing.T) {
	flag := syncCmd.Flags().Lookup("responses")
	require.NotNil(t, flag, "sync command should have --responses flag")

	dryRun := syncCmd.Flags().Lookup("dry-run")
	require.NotNil(t, dryRun, "sync command should have --dry-run flag")
	assert.Equal(t, "false", dryRun.DefValue)
}

func TestLedgerListCommand_Flags(t *testing.T) {
	flag := ledgerListCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "ledger list should have --limit flag")
	assert.Equal(t, "50", flag.DefValue)
}
