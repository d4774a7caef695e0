package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
	"tradeJournal/internal/risk"
)

type mockPriceSource struct {
	prices map[string]float64
	err    error
	calls  int
}

func (m *mockPriceSource) GetLatestPrice(ctx context.Context, pair string) (float64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	p, ok := m.prices[pair]
	if !ok {
		return 0, ports.ErrPriceUnavailable
	}
	return p, nil
}

func newCalculatorService(t *testing.T, prices ports.PriceSource) (*CalculatorService, *TradeStore) {
	t.Helper()
	calc, err := risk.NewCalculator(risk.DefaultSettings())
	require.NoError(t, err)
	store := newTestStore(t, StoreConfig{})
	svc, err := NewCalculatorService(calc, prices, store, &mockLogger{})
	require.NoError(t, err)
	return svc, store
}

func TestNewCalculatorServiceRequiresDependencies(t *testing.T) {
	_, err := NewCalculatorService(nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestSizeCryptoPrefillsEntry(t *testing.T) {
	prices := &mockPriceSource{prices: map[string]float64{"BTC/USD": 60000}}
	svc, _ := newCalculatorService(t, prices)

	res, ok := svc.SizeCrypto(context.Background(), risk.CryptoForm{
		Pair: "BTC/USD",
		Mode: risk.StopAtPrice,
		Stop: "59000",
		Risk: "100",
	})
	require.True(t, ok)
	assert.InDelta(t, 0.1, res.Units, 1e-12)
	assert.Equal(t, 1, prices.calls)

	// An explicit entry skips the lookup.
	_, ok = svc.SizeCrypto(context.Background(), risk.CryptoForm{
		Pair:  "BTC/USD",
		Mode:  risk.StopAtPrice,
		Entry: "61000",
		Stop:  "60000",
		Risk:  "100",
	})
	require.True(t, ok)
	assert.Equal(t, 1, prices.calls)
}

func TestSizeCryptoWithoutPriceSource(t *testing.T) {
	svc, _ := newCalculatorService(t, nil)

	_, ok := svc.SizeCrypto(context.Background(), risk.CryptoForm{Pair: "BTC/USD", Mode: risk.StopAtPrice, Stop: "59000"})
	assert.False(t, ok)

	_, err := svc.LatestPrice(context.Background(), "BTC/USD")
	assert.ErrorIs(t, err, ports.ErrPriceUnavailable)
}

func TestLatestPriceRejectsUnknownPair(t *testing.T) {
	prices := &mockPriceSource{}
	svc, _ := newCalculatorService(t, prices)

	_, err := svc.LatestPrice(context.Background(), "EUR/USD")
	assert.ErrorIs(t, err, ports.ErrUnknownPair)
	assert.Zero(t, prices.calls)
}

func TestSizeForex(t *testing.T) {
	svc, _ := newCalculatorService(t, nil)

	res, ok := svc.SizeForex(context.Background(), risk.ForexForm{Pair: "EUR/USD", Entry: "1.1000", Stop: "1.0950"})
	require.True(t, ok)
	// Default risk of 100 over 50 pips.
	assert.InDelta(t, 20000, res.Units, 1e-6)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	svc, store := newCalculatorService(t, nil)

	trade, err := svc.Transfer(ctx, TransferRequest{
		AssetClass:     domain.Forex,
		Pair:           "eur/gbp",
		Risk:           "20",
		TakeProfitPips: "75",
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR/GBP", trade.PairSymbol)
	assert.Equal(t, "20", trade.Risk.String())
	require.NotNil(t, trade.TakeProfitPips)
	assert.Equal(t, "75", trade.TakeProfitPips.String())
	assert.False(t, trade.OpenDate.IsZero())

	_, ok := store.FindActive(trade.ID)
	assert.True(t, ok)

	trade, err = svc.Transfer(ctx, TransferRequest{AssetClass: domain.Crypto, Pair: "ETH/USD"})
	require.NoError(t, err)
	assert.Equal(t, "100", trade.Risk.String())
	assert.Nil(t, trade.TakeProfitPips)
}

func TestTransferValidation(t *testing.T) {
	ctx := context.Background()
	svc, store := newCalculatorService(t, nil)

	tests := []struct {
		name string
		req  TransferRequest
		want error
	}{
		{"unknown pair", TransferRequest{AssetClass: domain.Forex, Pair: "EUR/XYZ", Risk: "10"}, ports.ErrUnknownPair},
		{"pair of other asset class", TransferRequest{AssetClass: domain.Forex, Pair: "BTC/USD", Risk: "10"}, ports.ErrUnknownPair},
		{"bad asset class", TransferRequest{AssetClass: "Stocks", Pair: "EUR/USD", Risk: "10"}, ports.ErrInvalidRequest},
		{"zero risk", TransferRequest{AssetClass: domain.Forex, Pair: "EUR/USD", Risk: "0"}, ports.ErrInvalidRisk},
		{"bad take profit", TransferRequest{AssetClass: domain.Forex, Pair: "EUR/USD", Risk: "10", TakeProfitPips: "lots"}, ports.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Transfer(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, store.Active())
}
