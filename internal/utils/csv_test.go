package utils

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
)

func sampleClosed() []domain.ClosedTrade {
	return []domain.ClosedTrade{
		{
			ID:         uuid.MustParse("6f1c1f0e-8a0b-4c43-9d35-1b7a4f0c2e11"),
			AssetClass: domain.Forex,
			PairSymbol: "EUR/USD",
			Risk:       decimal.NewFromInt(100),
			OpenDate:   time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
			CloseDate:  time.Date(2024, 3, 2, 16, 30, 0, 0, time.UTC),
			Result:     decimal.RequireFromString("-45.50"),
		},
		{
			ID:         uuid.MustParse("0a7d2a55-3c1e-4f5b-8f11-2d9e7c6b5a40"),
			AssetClass: domain.Crypto,
			PairSymbol: "BTC/USD",
			Risk:       decimal.NewFromInt(50),
			OpenDate:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			CloseDate:  time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
			Result:     decimal.NewFromInt(120),
		},
	}
}

func TestWriteClosedTradesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteClosedTradesCSV(&buf, sampleClosed()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, closedTradeHeader, records[0])
	assert.Equal(t, []string{
		"6f1c1f0e-8a0b-4c43-9d35-1b7a4f0c2e11", "Forex", "EUR/USD", "100",
		"2024-03-01T08:00:00Z", "2024-03-02T16:30:00Z", "-45.5",
	}, records[1])
	assert.Equal(t, "BTC/USD", records[2][2])
	assert.Equal(t, "120", records[2][6])
}

func TestWriteClosedTradesCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteClosedTradesCSV(&buf, nil))
	assert.Equal(t, "id,asset_class,pair,risk,open_date,close_date,result\n", buf.String())
}

func TestWriteClosedTradesCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "history.csv")
	require.NoError(t, WriteClosedTradesCSVFile(path, sampleClosed()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "0a7d2a55-3c1e-4f5b-8f11-2d9e7c6b5a40,Crypto,BTC/USD,50")
}

func TestReadClosedTradesCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	want := sampleClosed()
	require.NoError(t, WriteClosedTradesCSVFile(path, want))

	got, err := ReadClosedTradesCSVFile(path)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].AssetClass, got[i].AssetClass)
		assert.Equal(t, want[i].PairSymbol, got[i].PairSymbol)
		assert.True(t, want[i].Risk.Equal(got[i].Risk))
		assert.True(t, want[i].Result.Equal(got[i].Result))
		assert.True(t, want[i].OpenDate.Equal(got[i].OpenDate))
		assert.True(t, want[i].CloseDate.Equal(got[i].CloseDate))
	}
}

func TestReadClosedTradesCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong header", "id,asset,pair,risk,open_date,close_date,result\n"},
		{"short row", "id,asset_class,pair,risk,open_date,close_date,result\nabc,Forex\n"},
		{"bad id", "id,asset_class,pair,risk,open_date,close_date,result\nnope,Forex,EUR/USD,1,2024-01-01T00:00:00Z,2024-01-02T00:00:00Z,5\n"},
		{"bad asset", "id,asset_class,pair,risk,open_date,close_date,result\n6f1c1f0e-8a0b-4c43-9d35-1b7a4f0c2e11,Stocks,EUR/USD,1,2024-01-01T00:00:00Z,2024-01-02T00:00:00Z,5\n"},
		{"bad result", "id,asset_class,pair,risk,open_date,close_date,result\n6f1c1f0e-8a0b-4c43-9d35-1b7a4f0c2e11,Forex,EUR/USD,1,2024-01-01T00:00:00Z,2024-01-02T00:00:00Z,five\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadClosedTradesCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}

	trades, err := ReadClosedTradesCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, trades)
}
