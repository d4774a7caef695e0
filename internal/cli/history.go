package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
	"tradeJournal/internal/risk"
)

func newHistoryCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Review and correct closed trades",
	}

	cmd.AddCommand(
		newHistoryListCmd(env),
		newHistoryEditCmd(env),
		newHistoryDeleteCmd(env),
	)

	return cmd
}

func closedIDs(env *Env) []uuid.UUID {
	trades := env.Store.Closed()
	ids := make([]uuid.UUID, len(trades))
	for i, t := range trades {
		ids[i] = t.ID
	}
	return ids
}

func newHistoryListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List closed trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printClosed(cmd.OutOrStdout(), env.Store.Closed())
			return nil
		},
	}
}

func newHistoryEditCmd(env *Env) *cobra.Command {
	var (
		pair       string
		riskAmount string
		result     string
		openDate   string
		closeDate  string
	)

	cmd := &cobra.Command{
		Use:   "edit <trade-id>",
		Short: "Correct a closed trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(args[0], closedIDs(env))
			if err != nil {
				return err
			}
			trade, ok := env.Store.FindClosed(id)
			if !ok {
				return fmt.Errorf("closed trade %s: %w", id, ports.ErrNotFound)
			}

			flags := cmd.Flags()
			if flags.Changed("pair") {
				if trade.PairSymbol, err = normalizePair(trade.AssetClass, pair); err != nil {
					return err
				}
			}
			if flags.Changed("risk") {
				if trade.Risk, err = parseRisk(riskAmount); err != nil {
					return err
				}
			}
			if flags.Changed("result") {
				res, ok := risk.ParseDecimal(result)
				if !ok {
					return fmt.Errorf("%w: result %q must be a number", ports.ErrInvalidRequest, result)
				}
				trade.Result = res
			}
			if flags.Changed("open") {
				d, err := parseDate(openDate)
				if err != nil {
					return err
				}
				if !d.IsZero() {
					trade.OpenDate = d
				}
			}
			if flags.Changed("close") {
				d, err := parseDate(closeDate)
				if err != nil {
					return err
				}
				if !d.IsZero() {
					trade.CloseDate = d
				}
			}

			if err := env.Store.UpdateClosed(cmd.Context(), trade); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", trade.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "Corrected pair symbol (same asset class)")
	cmd.Flags().StringVar(&riskAmount, "risk", "", "Corrected risk amount")
	cmd.Flags().StringVar(&result, "result", "", "Corrected result in USD")
	cmd.Flags().StringVar(&openDate, "open", "", "Corrected open date, YYYY-MM-DD")
	cmd.Flags().StringVar(&closeDate, "close", "", "Corrected close date, YYYY-MM-DD")

	return cmd
}

func newHistoryDeleteCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a closed trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(args[0], closedIDs(env))
			if err != nil {
				return err
			}
			if err := env.Store.DeleteClosed(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}

func printClosed(w io.Writer, trades []domain.ClosedTrade) {
	if len(trades) == 0 {
		fmt.Fprintln(w, "No closed trades.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tASSET\tPAIR\tRISK\tOPENED\tCLOSED\tRESULT")
	for _, t := range trades {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(t.ID), t.AssetClass, t.PairSymbol, t.Risk.StringFixed(2),
			formatDate(t.OpenDate), formatDate(t.CloseDate), t.Result.StringFixed(2))
	}
	tw.Flush()
}
