package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/pairs"
)

func newPairsCmd() *cobra.Command {
	var (
		asset string
		base  string
	)

	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "List supported forex and crypto pairs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if base != "" {
				symbols := pairs.ForexByBase(strings.ToUpper(base))
				if len(symbols) == 0 {
					return fmt.Errorf("no forex pairs with base %q", base)
				}
				fmt.Fprintln(out, strings.Join(symbols, "\n"))
				return nil
			}

			showForex, showCrypto := true, true
			if asset != "" {
				ac, err := domain.ParseAssetClass(asset)
				if err != nil {
					return err
				}
				showForex, showCrypto = ac == domain.Forex, ac == domain.Crypto
			}

			if showForex {
				fmt.Fprintln(out, "Forex:")
				for _, b := range pairs.ForexBases() {
					fmt.Fprintf(out, "  %s: %s\n", b, strings.Join(pairs.ForexByBase(b), ", "))
				}
			}
			if showCrypto {
				fmt.Fprintln(out, "Crypto:")
				fmt.Fprintf(out, "  %s\n", strings.Join(pairs.CryptoSymbols(), ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "Only list one asset class (forex|crypto)")
	cmd.Flags().StringVar(&base, "base", "", "List forex pairs for one base currency")

	return cmd
}
