package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tradeJournal/internal/app"
	"tradeJournal/internal/domain"
	"tradeJournal/internal/pairs"
	"tradeJournal/internal/ports"
	"tradeJournal/internal/risk"
)

func newCalcCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Size a position from a risk amount",
	}

	cmd.AddCommand(
		newCalcForexCmd(env),
		newCalcCryptoCmd(env),
	)

	return cmd
}

// transferFlags records a sized setup as a new active trade.
type transferFlags struct {
	enabled    bool
	takeProfit string
	openDate   string
}

func (t *transferFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&t.enabled, "transfer", false, "Record the setup as an active trade")
	cmd.Flags().StringVar(&t.takeProfit, "tp", "", "Take profit distance in pips, recorded with --transfer")
	cmd.Flags().StringVar(&t.openDate, "open", "", "Open date for --transfer (default now)")
}

func (t *transferFlags) run(cmd *cobra.Command, env *Env, asset domain.AssetClass, pair, riskAmount string) error {
	if !t.enabled {
		return nil
	}
	open, err := parseDate(t.openDate)
	if err != nil {
		return err
	}
	trade, err := env.Calculator.Transfer(cmd.Context(), app.TransferRequest{
		AssetClass:     asset,
		Pair:           pair,
		Risk:           riskAmount,
		TakeProfitPips: t.takeProfit,
		OpenDate:       open,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nRecorded active trade %s (%s, risk %s)\n", trade.ID, trade.PairSymbol, trade.Risk)
	return nil
}

func newCalcForexCmd(env *Env) *cobra.Command {
	var (
		form     risk.ForexForm
		transfer transferFlags
	)

	cmd := &cobra.Command{
		Use:   "forex",
		Short: "Size a forex position in units and lots",
		Example: `  journal calc forex --pair EUR/USD --entry 1.0850 --stop 1.0800 --risk 100
  journal calc forex --pair EUR/GBP --entry 0.85 --stop 0.845 --risk 20 --rate 1.27`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := pairs.Lookup(form.Pair)
			if !ok || p.AssetClass != domain.Forex {
				return fmt.Errorf("forex pair %q: %w", form.Pair, ports.ErrUnknownPair)
			}
			form.Pair = p.Symbol

			res, ok := env.Calculator.SizeForex(cmd.Context(), form)
			if !ok {
				return fmt.Errorf("%w: cannot compute position size, check entry, stop and risk", ports.ErrInvalidRequest)
			}
			printForex(cmd.OutOrStdout(), p, res)
			return transfer.run(cmd, env, domain.Forex, p.Symbol, form.Risk)
		},
	}

	cmd.Flags().StringVar(&form.Pair, "pair", "", "Forex pair, e.g. EUR/USD")
	cmd.Flags().StringVar(&form.Entry, "entry", "", "Entry price")
	cmd.Flags().StringVar(&form.Stop, "stop", "", "Stop loss price")
	cmd.Flags().StringVar(&form.Risk, "risk", "", "Risk amount in USD (default from settings)")
	cmd.Flags().StringVar(&form.ConversionRate, "rate", "", "Conversion rate for cross pairs (default reference rate)")
	cmd.MarkFlagRequired("pair")
	transfer.register(cmd)

	return cmd
}

func printForex(w io.Writer, p pairs.Pair, res risk.ForexResult) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Pair\t%s\n", p.Symbol)
	fmt.Fprintf(tw, "Pip size\t%s\n", formatNumber(res.PipSize, -1))
	fmt.Fprintf(tw, "Stop distance\t%s pips\n", formatNumber(res.PipDistance, 1))
	if res.ConversionPair != "" {
		fmt.Fprintf(tw, "Conversion\t%s @ %s\n", res.ConversionPair, formatNumber(res.ConversionRate, -1))
	}
	fmt.Fprintf(tw, "Pip value per unit\t%s USD\n", formatNumber(res.PipValuePerUnit, 8))
	fmt.Fprintf(tw, "Units\t%s\n", formatNumber(res.Units, 0))
	fmt.Fprintf(tw, "Lots\t%s micro / %s standard\n", formatNumber(res.MicroLots(), 2), formatNumber(res.StandardLots(), 2))
	fmt.Fprintf(tw, "Pip value\t%s USD\n", formatNumber(res.PipValue, 2))
	fmt.Fprintf(tw, "Notional\t%s USD\n", formatNumber(res.Notional, 2))
	fmt.Fprintf(tw, "Margin (1:%d)\t%s USD\n", int(risk.ForexLeverage), formatNumber(res.Margin, 2))
	tw.Flush()
}

func newCalcCryptoCmd(env *Env) *cobra.Command {
	var (
		form     risk.CryptoForm
		mode     string
		transfer transferFlags
	)

	cmd := &cobra.Command{
		Use:   "crypto",
		Short: "Size a crypto position in coins",
		Long: `Size a crypto position. The stop is either a price level (--mode price --stop)
or a distance in price units (--mode units --stop-units). A blank --entry is
filled with the latest market price when available.`,
		Example: `  journal calc crypto --pair BTC/USD --entry 60000 --stop 59000 --risk 100 --leverage 10
  journal calc crypto --pair ETH/USD --mode units --stop-units 50 --risk 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := pairs.Lookup(form.Pair)
			if !ok || p.AssetClass != domain.Crypto {
				return fmt.Errorf("crypto pair %q: %w", form.Pair, ports.ErrUnknownPair)
			}
			form.Pair = p.Symbol

			switch strings.ToLower(mode) {
			case risk.StopAtPrice.String():
				form.Mode = risk.StopAtPrice
			case risk.StopInUnits.String():
				form.Mode = risk.StopInUnits
			default:
				return fmt.Errorf("%w: unknown stop mode %q (price|units)", ports.ErrInvalidRequest, mode)
			}

			res, ok := env.Calculator.SizeCrypto(cmd.Context(), form)
			if !ok {
				return fmt.Errorf("%w: cannot compute position size, check entry, stop, risk and leverage", ports.ErrInvalidRequest)
			}
			printCrypto(cmd.OutOrStdout(), p, form.Mode, res)
			return transfer.run(cmd, env, domain.Crypto, p.Symbol, form.Risk)
		},
	}

	cmd.Flags().StringVar(&form.Pair, "pair", "", "Crypto pair, e.g. BTC/USD")
	cmd.Flags().StringVar(&mode, "mode", risk.StopAtPrice.String(), "Stop mode (price|units)")
	cmd.Flags().StringVar(&form.Entry, "entry", "", "Entry price (default latest price)")
	cmd.Flags().StringVar(&form.Stop, "stop", "", "Stop loss price, with --mode price")
	cmd.Flags().StringVar(&form.StopUnits, "stop-units", "", "Stop distance in price units, with --mode units")
	cmd.Flags().StringVar(&form.Risk, "risk", "", "Risk amount in USD (default from settings)")
	cmd.Flags().StringVar(&form.Leverage, "leverage", "", "Leverage (default from settings)")
	cmd.MarkFlagRequired("pair")
	transfer.register(cmd)

	return cmd
}

func printCrypto(w io.Writer, p pairs.Pair, mode risk.StopMode, res risk.CryptoResult) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Pair\t%s\n", p.Symbol)
	fmt.Fprintf(tw, "Stop mode\t%s\n", mode)
	fmt.Fprintf(tw, "Stop distance\t%s\n", formatNumber(res.PriceDistance, -1))
	fmt.Fprintf(tw, "Units\t%s %s\n", formatNumber(res.Units, 6), p.Base)
	fmt.Fprintf(tw, "Notional\t%s USD\n", formatNumber(res.Notional, 2))
	fmt.Fprintf(tw, "Margin (1:%s)\t%s USD\n", formatNumber(res.Leverage, -1), formatNumber(res.Margin, 2))
	tw.Flush()
}
