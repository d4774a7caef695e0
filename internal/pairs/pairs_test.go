package pairs

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
)

func TestForexByBase(t *testing.T) {
	tests := []struct {
		base string
		want []string
	}{
		{"EUR", []string{"EUR/AUD", "EUR/CAD", "EUR/CHF", "EUR/GBP", "EUR/JPY", "EUR/NZD", "EUR/USD"}},
		{"usd", []string{"USD/CAD", "USD/CHF", "USD/JPY"}},
		{"CHF", []string{"CHF/JPY"}},
		{"XXX", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.want, ForexByBase(tt.base))
		})
	}
}

func TestForexBasesSorted(t *testing.T) {
	bases := ForexBases()
	assert.True(t, sort.StringsAreSorted(bases))
	assert.Equal(t, []string{"AUD", "CAD", "CHF", "EUR", "GBP", "JPY", "NZD", "USD"}, bases)

	// Mutating the returned slice must not leak into the registry.
	bases[0] = "ZZZ"
	assert.Equal(t, "AUD", ForexBases()[0])
}

func TestCryptoSymbols(t *testing.T) {
	symbols := CryptoSymbols()
	require.Len(t, symbols, 12)
	assert.True(t, sort.StringsAreSorted(symbols))
	assert.Contains(t, symbols, "BTC/USD")
	assert.Contains(t, symbols, "MATIC/USD")
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("gbp/jpy")
	require.True(t, ok)
	assert.Equal(t, "GBP", p.Base)
	assert.Equal(t, "JPY", p.Quote)
	assert.Equal(t, JPYPipSize, p.PipSize)
	assert.True(t, p.IsCross())

	p, ok = Lookup("EUR/USD")
	require.True(t, ok)
	assert.Equal(t, StandardPipSize, p.PipSize)
	assert.True(t, p.QuoteIsUSD())

	p, ok = Lookup("ETH/USD")
	require.True(t, ok)
	assert.Equal(t, domain.Crypto, p.AssetClass)

	_, ok = Lookup("EUR/XYZ")
	assert.False(t, ok)
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(domain.Forex, "AUD/NZD"))
	assert.False(t, IsKnown(domain.Crypto, "AUD/NZD"))
	assert.True(t, IsKnown(domain.Crypto, "SOL/USD"))
	assert.False(t, IsKnown(domain.Forex, "SOL/USD"))
}

func TestConversionPair(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
		ok     bool
	}{
		{"EUR/USD", "", false},
		{"USD/JPY", "USD/JPY", true},
		{"USD/CAD", "USD/CAD", true},
		{"EUR/GBP", "GBP/USD", true},
		{"EUR/JPY", "USD/JPY", true},
		{"GBP/CHF", "USD/CHF", true},
		{"AUD/CAD", "USD/CAD", true},
		{"EUR/NZD", "NZD/USD", true},
		{"GBP/AUD", "AUD/USD", true},
		{"BTC/USD", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			p, ok := Lookup(tt.symbol)
			require.True(t, ok)
			got, ok := ConversionPair(p)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultRate(t *testing.T) {
	r, ok := DefaultRate("GBP/USD")
	require.True(t, ok)
	assert.Equal(t, 1.27, r)

	_, ok = DefaultRate("EUR/GBP")
	assert.False(t, ok)
}

func TestSymbolsByAssetClass(t *testing.T) {
	assert.Len(t, Symbols(domain.Forex), 29)
	assert.Len(t, Symbols(domain.Crypto), 12)
	assert.Empty(t, Symbols(domain.AssetClass("Stocks")))
}
