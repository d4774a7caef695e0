package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradeJournal/internal/ports"
	"tradeJournal/internal/utils"
)

func newResetCmd(env *Env) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every active and closed trade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("%w: reset removes the whole journal, pass --yes to confirm", ports.ErrInvalidRequest)
			}
			if err := env.Store.ResetAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Journal cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the reset")

	return cmd
}

func newSyncCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Inspect and drive replication",
	}

	pull := &cobra.Command{
		Use:   "pull",
		Short: "Replace the local journal with the remote replica",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Store.Pull(cmd.Context()); err != nil {
				if errors.Is(err, ports.ErrConfigurationError) {
					return fmt.Errorf("no remote replica configured (set REDIS_ADDR): %w", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d active and %d closed trades.\n", len(env.Store.Active()), len(env.Store.Closed()))
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the outcome of the last sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Store.Flush(cmd.Context()); err != nil {
				return err
			}
			st := env.Store.SyncStatus()
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "State\t%s\n", st.State)
			last := "never"
			if !st.LastSyncAt.IsZero() {
				last = st.LastSyncAt.Local().Format(time.RFC3339)
			}
			fmt.Fprintf(tw, "Last sync\t%s\n", last)
			if st.LastError != "" {
				fmt.Fprintf(tw, "Last error\t%s\n", st.LastError)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(pull, status)

	return cmd
}

func newExportCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv>",
		Short: "Export closed trades as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closed := env.Store.Closed()
			if err := utils.WriteClosedTradesCSVFile(args[0], closed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d closed trades to %s\n", len(closed), args[0])
			return nil
		},
	}
}
