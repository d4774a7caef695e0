package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
)

// SummaryMetrics holds the headline statistics of the closed-trade journal.
// Money figures keep decimal precision; ratios are plain floats.
type SummaryMetrics struct {
	TotalClosed  int
	WinTrades    int
	LossTrades   int
	WinRate      float64 // WinTrades / TotalClosed, 0 when empty
	AvgWin       decimal.Decimal
	AvgLoss      decimal.Decimal // Negative or zero
	LargestWin   decimal.Decimal
	LargestLoss  decimal.Decimal // Most negative loser, 0 when none
	GrossProfit  decimal.Decimal
	GrossLoss    decimal.Decimal // Absolute value, >= 0
	ProfitFactor float64         // +Inf when there are profits and no losses
}

// Summarize computes SummaryMetrics over closed trades. Breakeven trades count toward
// TotalClosed only. The input slice is neither modified nor reordered.
func Summarize(closed []domain.ClosedTrade) SummaryMetrics {
	m := SummaryMetrics{
		TotalClosed: len(closed),
		AvgWin:      decimal.Zero,
		AvgLoss:     decimal.Zero,
		LargestWin:  decimal.Zero,
		LargestLoss: decimal.Zero,
		GrossProfit: decimal.Zero,
		GrossLoss:   decimal.Zero,
	}
	if m.TotalClosed == 0 {
		return m
	}

	lossSum := decimal.Zero
	for _, t := range closed {
		switch {
		case t.IsWin():
			m.WinTrades++
			m.GrossProfit = m.GrossProfit.Add(t.Result)
			if t.Result.GreaterThan(m.LargestWin) {
				m.LargestWin = t.Result
			}
		case t.IsLoss():
			m.LossTrades++
			lossSum = lossSum.Add(t.Result)
			if t.Result.LessThan(m.LargestLoss) {
				m.LargestLoss = t.Result
			}
		}
	}

	m.WinRate = float64(m.WinTrades) / float64(m.TotalClosed)
	if m.WinTrades > 0 {
		m.AvgWin = m.GrossProfit.Div(decimal.NewFromInt(int64(m.WinTrades)))
	}
	if m.LossTrades > 0 {
		m.AvgLoss = lossSum.Div(decimal.NewFromInt(int64(m.LossTrades)))
	}
	m.GrossLoss = lossSum.Abs()
	m.ProfitFactor = profitFactor(m.GrossProfit, m.GrossLoss)
	return m
}

func profitFactor(grossProfit, grossLoss decimal.Decimal) float64 {
	if grossLoss.IsZero() {
		if grossProfit.IsPositive() {
			return math.Inf(1)
		}
		return 0
	}
	return grossProfit.Div(grossLoss).InexactFloat64()
}

// PerformanceMetrics extends SummaryMetrics with sequence-dependent statistics.
type PerformanceMetrics struct {
	SummaryMetrics

	TotalResult          decimal.Decimal
	Expectancy           decimal.Decimal // Mean result per closed trade
	MaxConsecutiveWins   int
	MaxConsecutiveLosses int
	AverageHoldingPeriod time.Duration
	MonthlyResults       map[string]decimal.Decimal // Keyed by close month, "2006-01"
}

// Analyze computes the full performance report. Streaks follow close-date order; a
// breakeven trade ends both a winning and a losing streak.
func Analyze(closed []domain.ClosedTrade) *PerformanceMetrics {
	metrics := &PerformanceMetrics{
		SummaryMetrics: Summarize(closed),
		TotalResult:    decimal.Zero,
		Expectancy:     decimal.Zero,
		MonthlyResults: make(map[string]decimal.Decimal),
	}
	if len(closed) == 0 {
		return metrics
	}

	trades := domain.CloneClosed(closed)
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].CloseDate.Before(trades[j].CloseDate)
	})

	var consecutiveWins, consecutiveLosses int
	var totalHolding time.Duration
	for _, trade := range trades {
		switch {
		case trade.IsWin():
			consecutiveWins++
			consecutiveLosses = 0
		case trade.IsLoss():
			consecutiveLosses++
			consecutiveWins = 0
		default:
			consecutiveWins, consecutiveLosses = 0, 0
		}
		if consecutiveWins > metrics.MaxConsecutiveWins {
			metrics.MaxConsecutiveWins = consecutiveWins
		}
		if consecutiveLosses > metrics.MaxConsecutiveLosses {
			metrics.MaxConsecutiveLosses = consecutiveLosses
		}

		metrics.TotalResult = metrics.TotalResult.Add(trade.Result)
		monthKey := trade.CloseDate.Format("2006-01")
		metrics.MonthlyResults[monthKey] = metrics.MonthlyResults[monthKey].Add(trade.Result)
		totalHolding += trade.HoldingPeriod()
	}

	n := int64(len(trades))
	metrics.Expectancy = metrics.TotalResult.Div(decimal.NewFromInt(n))
	metrics.AverageHoldingPeriod = totalHolding / time.Duration(n)
	return metrics
}

// MonthlyResult is one month's summed result.
type MonthlyResult struct {
	Month  time.Time
	Result decimal.Decimal
}

// GetMonthlyResults returns the monthly results in chronological order.
func (m *PerformanceMetrics) GetMonthlyResults() []MonthlyResult {
	results := make([]MonthlyResult, 0, len(m.MonthlyResults))
	for month, result := range m.MonthlyResults {
		date, _ := time.Parse("2006-01", month)
		results = append(results, MonthlyResult{
			Month:  date,
			Result: result,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Month.Before(results[j].Month)
	})
	return results
}
