package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"tradeJournal/internal/analytics"
	"tradeJournal/internal/domain"
	"tradeJournal/internal/utils"
)

func main() {
	dir := flag.String("dir", "data", "Directory holding exported history CSV files")
	prefix := flag.String("prefix", "", "Only analyze files starting with this prefix")
	flag.Parse()

	files, err := findExportFiles(*dir, *prefix)
	if err != nil {
		log.Fatalf("Error finding export files: %v", err)
	}

	if len(files) == 0 {
		log.Println("No export files found. Run 'journal export <file.csv>' first.")
		return
	}

	// Create a tabwriter for formatted output
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "File\tTrades\tWinRate\tAvgWin\tAvgLoss\tNet\tPF\tMaxDD\t")

	histories := make(map[string][]domain.ClosedTrade, len(files))
	for _, file := range files {
		trades, err := utils.ReadClosedTradesCSVFile(file)
		if err != nil {
			log.Printf("Error reading trades from %s: %v", file, err)
			continue
		}
		histories[file] = trades

		m := analytics.Analyze(trades)
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%s\t%s\t%s\t%s\t%s\t\n",
			filepath.Base(file),
			m.TotalClosed,
			m.WinRate*100,
			m.AvgWin.StringFixed(2),
			m.AvgLoss.StringFixed(2),
			m.TotalResult.StringFixed(2),
			formatPF(m.ProfitFactor),
			maxDrawdown(trades).StringFixed(2),
		)
	}
	w.Flush()

	fmt.Println("\n## Results by Pair")
	for _, file := range files {
		if trades, ok := histories[file]; ok {
			analyzePairs(filepath.Base(file), trades)
		}
	}
}

// findExportFiles lists CSV files in dir, sorted by name.
func findExportFiles(dir, prefix string) ([]string, error) {
	var files []string

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) && strings.HasSuffix(entry.Name(), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	return files, nil
}

// maxDrawdown is the largest peak-to-trough decline of the cumulative result in close order.
func maxDrawdown(trades []domain.ClosedTrade) decimal.Decimal {
	sorted := domain.CloneClosed(trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CloseDate.Before(sorted[j].CloseDate)
	})

	var equity, peak, dd decimal.Decimal
	for _, t := range sorted {
		equity = equity.Add(t.Result)
		if equity.GreaterThan(peak) {
			peak = equity
		}
		if d := peak.Sub(equity); d.GreaterThan(dd) {
			dd = d
		}
	}
	return dd
}

func formatPF(pf float64) string {
	if math.IsInf(pf, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", pf)
}

// analyzePairs prints a per-pair breakdown of one history.
func analyzePairs(name string, trades []domain.ClosedTrade) {
	byPair := make(map[string][]domain.ClosedTrade)
	for _, t := range trades {
		byPair[t.PairSymbol] = append(byPair[t.PairSymbol], t)
	}

	var symbols []string
	for s := range byPair {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	fmt.Printf("\nFile: %s\n", name)
	fmt.Println("Pair\tCount\tWinRate\tNet\tPF")
	for _, s := range symbols {
		m := analytics.Analyze(byPair[s])
		fmt.Printf("%s\t%d\t%.1f%%\t%s\t%s\n", s, m.TotalClosed, m.WinRate*100, m.TotalResult.StringFixed(2), formatPF(m.ProfitFactor))
	}
}
