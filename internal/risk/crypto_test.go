package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoSizeStopAtPrice(t *testing.T) {
	res, ok := CryptoSize(CryptoInput{
		Mode:       StopAtPrice,
		EntryPrice: 60000,
		StopPrice:  59000,
		RiskAmount: 100,
	})
	require.True(t, ok)

	assert.Equal(t, 1000.0, res.PriceDistance)
	assert.InDelta(t, 0.1, res.Units, 1e-12)
	assert.InDelta(t, 6000, res.Notional, 1e-9)
	assert.InDelta(t, 6000, res.Margin, 1e-9)
	assert.Equal(t, 1.0, res.Leverage)
}

func TestCryptoSizeLeverageOnlyAffectsMargin(t *testing.T) {
	base := CryptoInput{Mode: StopAtPrice, EntryPrice: 60000, StopPrice: 61000, RiskAmount: 100}
	plain, ok := CryptoSize(base)
	require.True(t, ok)

	base.Leverage = 10
	levered, ok := CryptoSize(base)
	require.True(t, ok)

	assert.Equal(t, plain.Units, levered.Units)
	assert.Equal(t, plain.Notional, levered.Notional)
	assert.InDelta(t, plain.Margin/10, levered.Margin, 1e-9)
}

func TestCryptoSizeStopInUnits(t *testing.T) {
	res, ok := CryptoSize(CryptoInput{
		Mode:       StopInUnits,
		EntryPrice: 2000,
		StopUnits:  50,
		RiskAmount: 100,
		Leverage:   5,
	})
	require.True(t, ok)

	// 100/50 = 2 dollars per unit of price move, 2/2000 = 0.001 units
	assert.InDelta(t, 0.001, res.Units, 1e-12)
	assert.InDelta(t, 2, res.Notional, 1e-9)
	assert.InDelta(t, 0.4, res.Margin, 1e-9)
	assert.Equal(t, 50.0, res.PriceDistance)
}

func TestCryptoSizeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   CryptoInput
	}{
		{"entry equals stop", CryptoInput{Mode: StopAtPrice, EntryPrice: 100, StopPrice: 100, RiskAmount: 10}},
		{"missing stop price", CryptoInput{Mode: StopAtPrice, EntryPrice: 100, RiskAmount: 10}},
		{"missing stop units", CryptoInput{Mode: StopInUnits, EntryPrice: 100, RiskAmount: 10}},
		{"zero risk", CryptoInput{Mode: StopAtPrice, EntryPrice: 100, StopPrice: 90}},
		{"negative leverage", CryptoInput{Mode: StopAtPrice, EntryPrice: 100, StopPrice: 90, RiskAmount: 10, Leverage: -2}},
		{"unknown mode", CryptoInput{Mode: StopMode(7), EntryPrice: 100, StopPrice: 90, RiskAmount: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := CryptoSize(tt.in)
			assert.False(t, ok)
		})
	}
}

func TestParseCrypto(t *testing.T) {
	in, ok := ParseCrypto(CryptoForm{Mode: StopInUnits, Entry: "2000", StopUnits: "50", Risk: "100"})
	require.True(t, ok)
	assert.Equal(t, 50.0, in.StopUnits)
	assert.Zero(t, in.StopPrice)
	assert.Zero(t, in.Leverage)

	// Only the selected mode's stop field counts.
	_, ok = ParseCrypto(CryptoForm{Mode: StopAtPrice, Entry: "2000", StopUnits: "50", Risk: "100"})
	assert.False(t, ok)

	_, ok = ParseCrypto(CryptoForm{Mode: StopAtPrice, Entry: "2000", Stop: "1900", Risk: "100", Leverage: "x"})
	assert.False(t, ok)
}

func TestStopModeString(t *testing.T) {
	assert.Equal(t, "price", StopAtPrice.String())
	assert.Equal(t, "units", StopInUnits.String())
	assert.Equal(t, "unknown", StopMode(9).String())
}
