// Package cli implements the journal command line on top of the wired Env.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree bound to env.
func NewRootCommand(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Position sizing calculator and trade journal for forex and crypto",
		Long: `Journal sizes forex and crypto positions from a risk amount and keeps a journal
of open and closed trades with performance metrics.

It provides tools for:
  - Risk-based position sizing (forex pips, crypto price or unit stops)
  - Recording, editing and closing trades
  - Win rate, profit factor and streak statistics
  - SQLite persistence with optional Redis replica and Kafka events`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newPairsCmd(),
		newCalcCmd(env),
		newTradeCmd(env),
		newHistoryCmd(env),
		newMetricsCmd(env),
		newResetCmd(env),
		newSyncCmd(env),
		newSettingsCmd(env),
		newExportCmd(env),
		newServeCmd(env),
	)

	return cmd
}
