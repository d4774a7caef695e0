package cli

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spf13/cobra"

	"tradeJournal/internal/analytics"
)

func newMetricsCmd(env *Env) *cobra.Command {
	var monthly bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show performance metrics over closed trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			m := env.Store.Performance()
			printSummary(out, m)
			if monthly {
				printMonthly(out, m)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&monthly, "monthly", false, "Include results per close month")

	return cmd
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "∞"
	}
	return formatNumber(pf, 2)
}

func printSummary(w io.Writer, m *analytics.PerformanceMetrics) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Closed trades\t%d\n", m.TotalClosed)
	fmt.Fprintf(tw, "Wins / losses\t%d / %d\n", m.WinTrades, m.LossTrades)
	fmt.Fprintf(tw, "Win rate\t%s%%\n", formatNumber(m.WinRate*100, 1))
	fmt.Fprintf(tw, "Average win\t%s\n", m.AvgWin.StringFixed(2))
	fmt.Fprintf(tw, "Average loss\t%s\n", m.AvgLoss.StringFixed(2))
	fmt.Fprintf(tw, "Largest win\t%s\n", m.LargestWin.StringFixed(2))
	fmt.Fprintf(tw, "Largest loss\t%s\n", m.LargestLoss.StringFixed(2))
	fmt.Fprintf(tw, "Gross profit\t%s\n", m.GrossProfit.StringFixed(2))
	fmt.Fprintf(tw, "Gross loss\t%s\n", m.GrossLoss.StringFixed(2))
	fmt.Fprintf(tw, "Profit factor\t%s\n", formatProfitFactor(m.ProfitFactor))
	fmt.Fprintf(tw, "Net result\t%s\n", m.TotalResult.StringFixed(2))
	fmt.Fprintf(tw, "Expectancy\t%s\n", m.Expectancy.StringFixed(2))
	fmt.Fprintf(tw, "Max consecutive wins\t%d\n", m.MaxConsecutiveWins)
	fmt.Fprintf(tw, "Max consecutive losses\t%d\n", m.MaxConsecutiveLosses)
	fmt.Fprintf(tw, "Average holding period\t%s\n", m.AverageHoldingPeriod.Round(time.Second))
	tw.Flush()
}

func printMonthly(w io.Writer, m *analytics.PerformanceMetrics) {
	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "MONTH\tRESULT")
	for _, mr := range m.GetMonthlyResults() {
		fmt.Fprintf(tw, "%s\t%s\n", mr.Month.Format("2006-01"), mr.Result.StringFixed(2))
	}
	tw.Flush()
}
