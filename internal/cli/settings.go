package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tradeJournal/config"
	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
	"tradeJournal/internal/risk"
)

func newSettingsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change calculator defaults",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show calculator defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printSettings(cmd, env.Calculator.Settings())
			return nil
		},
	}

	var (
		riskAmount float64
		leverage   float64
		asset      string
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change calculator defaults and save them to the settings file",
		Example: `  journal settings set --risk 50
  journal settings set --leverage 20 --asset crypto`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := env.Calculator.Settings()
			flags := cmd.Flags()
			if flags.Changed("risk") {
				s.DefaultRisk = riskAmount
			}
			if flags.Changed("leverage") {
				s.DefaultLeverage = leverage
			}
			if flags.Changed("asset") {
				ac, err := domain.ParseAssetClass(asset)
				if err != nil {
					return fmt.Errorf("%w: %w", ports.ErrInvalidRequest, err)
				}
				s.DefaultAssetClass = ac
			}

			if err := config.SaveSettings(env.Config.SettingsFile, s); err != nil {
				return fmt.Errorf("%w: %w", ports.ErrInvalidRequest, err)
			}
			if err := env.setCalculator(s, env.Calculator.Prices()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved settings to %s\n", env.Config.SettingsFile)
			printSettings(cmd, s)
			return nil
		},
	}
	set.Flags().Float64Var(&riskAmount, "risk", 0, "Default risk amount in USD")
	set.Flags().Float64Var(&leverage, "leverage", 0, "Default crypto leverage")
	set.Flags().StringVar(&asset, "asset", "", "Default asset class (forex|crypto)")

	cmd.AddCommand(show, set)

	return cmd
}

func printSettings(cmd *cobra.Command, s risk.Settings) {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintf(tw, "Default risk\t%s USD\n", formatNumber(s.DefaultRisk, -1))
	fmt.Fprintf(tw, "Default leverage\t%s\n", formatNumber(s.DefaultLeverage, -1))
	fmt.Fprintf(tw, "Default asset class\t%s\n", s.DefaultAssetClass)
	tw.Flush()
}
