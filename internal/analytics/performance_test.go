package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
)

func closedTrade(result string, closeDate time.Time) domain.ClosedTrade {
	return domain.ClosedTrade{
		AssetClass: domain.Forex,
		PairSymbol: "EUR/USD",
		Risk:       decimal.NewFromInt(100),
		OpenDate:   closeDate.Add(-48 * time.Hour),
		CloseDate:  closeDate,
		Result:     decimal.RequireFromString(result),
	}
}

func day(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 12, 0, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestSummarizeMixedResults(t *testing.T) {
	trades := []domain.ClosedTrade{
		closedTrade("100", day(1, 1)),
		closedTrade("50", day(1, 2)),
		closedTrade("-40", day(1, 3)),
	}

	m := Summarize(trades)

	assert.Equal(t, 3, m.TotalClosed)
	assert.Equal(t, 2, m.WinTrades)
	assert.Equal(t, 1, m.LossTrades)
	assert.InDelta(t, 2.0/3.0, m.WinRate, 1e-12)
	assertDecimal(t, "75", m.AvgWin)
	assertDecimal(t, "-40", m.AvgLoss)
	assertDecimal(t, "100", m.LargestWin)
	assertDecimal(t, "-40", m.LargestLoss)
	assertDecimal(t, "150", m.GrossProfit)
	assertDecimal(t, "40", m.GrossLoss)
	assert.Equal(t, 3.75, m.ProfitFactor)
}

func TestSummarizeOnlyWinners(t *testing.T) {
	m := Summarize([]domain.ClosedTrade{closedTrade("100", day(2, 1))})

	assert.True(t, math.IsInf(m.ProfitFactor, 1))
	assert.Equal(t, 1.0, m.WinRate)
	assertDecimal(t, "0", m.AvgLoss)
	assertDecimal(t, "0", m.LargestLoss)
}

func TestSummarizeEmpty(t *testing.T) {
	m := Summarize(nil)

	assert.Zero(t, m.TotalClosed)
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.ProfitFactor)
	assertDecimal(t, "0", m.AvgWin)
	assertDecimal(t, "0", m.GrossLoss)
}

func TestSummarizeBreakevenCountsOnlyTowardTotal(t *testing.T) {
	m := Summarize([]domain.ClosedTrade{
		closedTrade("0", day(3, 1)),
		closedTrade("0", day(3, 2)),
	})

	assert.Equal(t, 2, m.TotalClosed)
	assert.Zero(t, m.WinTrades)
	assert.Zero(t, m.LossTrades)
	assert.Zero(t, m.WinRate)
	assert.Zero(t, m.ProfitFactor)
}

func TestSummarizeIsIdempotentAndDoesNotReorder(t *testing.T) {
	trades := []domain.ClosedTrade{
		closedTrade("-10", day(4, 3)),
		closedTrade("25.5", day(4, 1)),
		closedTrade("-2.25", day(4, 2)),
	}
	before := domain.CloneClosed(trades)

	first := Summarize(trades)
	second := Summarize(trades)

	assert.Equal(t, first.TotalClosed, second.TotalClosed)
	assert.Equal(t, first.WinRate, second.WinRate)
	assert.Equal(t, first.ProfitFactor, second.ProfitFactor)
	assert.True(t, first.GrossLoss.Equal(second.GrossLoss))
	assertDecimal(t, "12.25", first.GrossLoss)
	assertDecimal(t, "-6.125", first.AvgLoss)

	for i := range trades {
		assert.True(t, before[i].CloseDate.Equal(trades[i].CloseDate))
		assert.True(t, before[i].Result.Equal(trades[i].Result))
	}
}

func TestAnalyze(t *testing.T) {
	// Deliberately out of close-date order.
	trades := []domain.ClosedTrade{
		closedTrade("-20", day(2, 10)),
		closedTrade("100", day(1, 5)),
		closedTrade("50", day(1, 20)),
		closedTrade("-30", day(2, 15)),
		closedTrade("0", day(2, 20)),
		closedTrade("40", day(3, 1)),
	}

	m := Analyze(trades)
	require.NotNil(t, m)

	assert.Equal(t, 6, m.TotalClosed)
	assert.Equal(t, 2, m.MaxConsecutiveWins)
	assert.Equal(t, 2, m.MaxConsecutiveLosses)
	assertDecimal(t, "140", m.TotalResult)
	assert.True(t, m.Expectancy.Sub(decimal.RequireFromString("23.3333")).Abs().LessThan(decimal.RequireFromString("0.001")))
	assert.Equal(t, 48*time.Hour, m.AverageHoldingPeriod)

	require.Len(t, m.MonthlyResults, 3)
	assertDecimal(t, "150", m.MonthlyResults["2024-01"])
	assertDecimal(t, "-50", m.MonthlyResults["2024-02"])
	assertDecimal(t, "40", m.MonthlyResults["2024-03"])

	monthly := m.GetMonthlyResults()
	require.Len(t, monthly, 3)
	assert.Equal(t, time.January, monthly[0].Month.Month())
	assert.Equal(t, time.March, monthly[2].Month.Month())

	// Input order is untouched.
	assertDecimal(t, "-20", trades[0].Result)
}

func TestAnalyzeEmpty(t *testing.T) {
	m := Analyze([]domain.ClosedTrade{})

	assert.Zero(t, m.TotalClosed)
	assert.Zero(t, m.MaxConsecutiveWins)
	assert.Empty(t, m.MonthlyResults)
	assert.Empty(t, m.GetMonthlyResults())
	assertDecimal(t, "0", m.Expectancy)
}
