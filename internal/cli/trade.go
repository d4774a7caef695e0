package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/pairs"
	"tradeJournal/internal/ports"
	"tradeJournal/internal/risk"
)

func newTradeCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Manage active trades",
		Long: `Manage active (open) trades.

Subcommands:
  add     - Record a new active trade
  edit    - Change pair, risk, open date or take profit
  close   - Move a trade to history with its result
  delete  - Remove an active trade
  list    - List active trades

Trade ids may be abbreviated to any unique prefix.`,
	}

	cmd.AddCommand(
		newTradeAddCmd(env),
		newTradeEditCmd(env),
		newTradeCloseCmd(env),
		newTradeDeleteCmd(env),
		newTradeListCmd(env),
	)

	return cmd
}

func activeIDs(env *Env) []uuid.UUID {
	trades := env.Store.Active()
	ids := make([]uuid.UUID, len(trades))
	for i, t := range trades {
		ids[i] = t.ID
	}
	return ids
}

// normalizePair checks the pair against the registry of the trade's asset class.
func normalizePair(asset domain.AssetClass, pair string) (string, error) {
	p, ok := pairs.Lookup(pair)
	if !ok || p.AssetClass != asset {
		return "", fmt.Errorf("%s pair %q: %w", asset, pair, ports.ErrUnknownPair)
	}
	return p.Symbol, nil
}

func parseRisk(s string) (decimal.Decimal, error) {
	d, ok := risk.ParsePositiveDecimal(s)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("risk %q must be a positive number: %w", s, ports.ErrInvalidRisk)
	}
	return d, nil
}

func parseTakeProfit(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, ok := risk.ParsePositiveDecimal(s)
	if !ok {
		return nil, fmt.Errorf("%w: take profit %q must be a positive number", ports.ErrInvalidRequest, s)
	}
	return &d, nil
}

func newTradeAddCmd(env *Env) *cobra.Command {
	var (
		asset      string
		pair       string
		riskAmount string
		takeProfit string
		openDate   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new active trade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ac := env.Calculator.Settings().DefaultAssetClass
			if asset != "" {
				var err error
				if ac, err = domain.ParseAssetClass(asset); err != nil {
					return fmt.Errorf("%w: %w", ports.ErrInvalidRequest, err)
				}
			}
			symbol, err := normalizePair(ac, pair)
			if err != nil {
				return err
			}

			r := decimal.NewFromFloat(env.Calculator.Settings().DefaultRisk)
			if riskAmount != "" {
				if r, err = parseRisk(riskAmount); err != nil {
					return err
				}
			}
			tp, err := parseTakeProfit(takeProfit)
			if err != nil {
				return err
			}
			open, err := parseDate(openDate)
			if err != nil {
				return err
			}

			trade, err := env.Store.AddActive(cmd.Context(), domain.NewActiveTrade(ac, symbol, r, open, tp))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (risk %s) as %s\n", trade.AssetClass, trade.PairSymbol, trade.Risk, trade.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "Asset class (forex|crypto, default from settings)")
	cmd.Flags().StringVar(&pair, "pair", "", "Pair symbol, e.g. EUR/USD")
	cmd.Flags().StringVar(&riskAmount, "risk", "", "Risk amount in USD (default from settings)")
	cmd.Flags().StringVar(&takeProfit, "tp", "", "Take profit distance in pips")
	cmd.Flags().StringVar(&openDate, "open", "", "Open date, YYYY-MM-DD (default now)")
	cmd.MarkFlagRequired("pair")

	return cmd
}

func newTradeEditCmd(env *Env) *cobra.Command {
	var (
		pair       string
		riskAmount string
		takeProfit string
		clearTP    bool
		openDate   string
	)

	cmd := &cobra.Command{
		Use:   "edit <trade-id>",
		Short: "Edit an active trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(args[0], activeIDs(env))
			if err != nil {
				return err
			}
			trade, ok := env.Store.FindActive(id)
			if !ok {
				return fmt.Errorf("active trade %s: %w", id, ports.ErrNotFound)
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
			if flags.Changed("tp") {
				if trade.TakeProfitPips, err = parseTakeProfit(takeProfit); err != nil {
					return err
				}
			}
			if clearTP {
				trade.TakeProfitPips = nil
			}
			if flags.Changed("open") {
				if trade.OpenDate, err = parseDate(openDate); err != nil {
					return err
				}
			}

			if err := env.Store.UpdateActive(cmd.Context(), trade); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", trade.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "New pair symbol (same asset class)")
	cmd.Flags().StringVar(&riskAmount, "risk", "", "New risk amount")
	cmd.Flags().StringVar(&takeProfit, "tp", "", "New take profit distance in pips")
	cmd.Flags().BoolVar(&clearTP, "clear-tp", false, "Remove the take profit")
	cmd.Flags().StringVar(&openDate, "open", "", "New open date, YYYY-MM-DD")
	cmd.MarkFlagsMutuallyExclusive("tp", "clear-tp")

	return cmd
}

func newTradeCloseCmd(env *Env) *cobra.Command {
	var (
		result    string
		closeDate string
	)

	cmd := &cobra.Command{
		Use:   "close <trade-id>",
		Short: "Close an active trade with its result",
		Long: `Close an active trade. The result is the realized profit (positive),
loss (negative) or zero for breakeven, in USD.`,
		Example: `  journal trade close 3f2a --result -45.50
  journal trade close 3f2a --result 120 --date 2024-06-03`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(args[0], activeIDs(env))
			if err != nil {
				return err
			}
			res, ok := risk.ParseDecimal(result)
			if !ok {
				return fmt.Errorf("%w: result %q must be a number", ports.ErrInvalidRequest, result)
			}
			date, err := parseDate(closeDate)
			if err != nil {
				return err
			}

			closed, err := env.Store.CloseTrade(cmd.Context(), id, date, res)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Closed %s %s with result %s\n", closed.PairSymbol, closed.ID, closed.Result.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&result, "result", "", "Realized result in USD (negative for a loss)")
	cmd.Flags().StringVar(&closeDate, "date", "", "Close date, YYYY-MM-DD (default now)")
	cmd.MarkFlagRequired("result")

	return cmd
}

func newTradeDeleteCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete an active trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveID(args[0], activeIDs(env))
			if err != nil {
				return err
			}
			if err := env.Store.DeleteActive(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}

func newTradeListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printActive(cmd.OutOrStdout(), env.Store.Active())
			return nil
		},
	}
}

func printActive(w io.Writer, trades []domain.ActiveTrade) {
	if len(trades) == 0 {
		fmt.Fprintln(w, "No active trades.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tASSET\tPAIR\tRISK\tOPENED\tTP (PIPS)")
	for _, t := range trades {
		tp := "-"
		if t.TakeProfitPips != nil {
			tp = t.TakeProfitPips.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", shortID(t.ID), t.AssetClass, t.PairSymbol, t.Risk.StringFixed(2), formatDate(t.OpenDate), tp)
	}
	tw.Flush()
}
