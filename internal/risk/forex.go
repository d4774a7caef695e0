package risk

import (
	"math"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/pairs"
)

// ForexLeverage is the fixed leverage used for forex margin figures (50:1).
const ForexLeverage = 50.0

// ForexInput holds validated numeric inputs for forex sizing.
type ForexInput struct {
	Pair       string
	EntryPrice float64
	StopPrice  float64
	RiskAmount float64
	// ConversionRate prices pips of cross and USD-based pairs in USD.
	// Zero means "use the reference rate for the conversion pair".
	ConversionRate float64
}

// ForexResult is the outcome of a forex sizing calculation.
type ForexResult struct {
	PipSize         float64
	PipDistance     float64
	PipValuePerUnit float64
	Units           float64
	PipValue        float64 // PipValuePerUnit * Units, in USD
	Notional        float64
	Margin          float64
	ConversionPair  string  // Empty for USD-quoted pairs
	ConversionRate  float64 // Rate actually applied, 0 when not needed
}

// MicroLots expresses the position in 1,000-unit lots.
func (r ForexResult) MicroLots() float64 { return r.Units / 1_000 }

// StandardLots expresses the position in 100,000-unit lots.
func (r ForexResult) StandardLots() float64 { return r.Units / 100_000 }

// ForexSize computes risk-based position size for a forex pair.
// The boolean is false whenever an input is missing, non-positive or the computation degenerates
// (zero stop distance, zero risk per unit); no partial result is returned in that case.
func ForexSize(in ForexInput) (ForexResult, bool) {
	if !positive(in.EntryPrice) || !positive(in.StopPrice) || !positive(in.RiskAmount) {
		return ForexResult{}, false
	}
	if in.ConversionRate < 0 || math.IsNaN(in.ConversionRate) || math.IsInf(in.ConversionRate, 0) {
		return ForexResult{}, false
	}

	pair, ok := pairs.Lookup(in.Pair)
	if !ok || pair.AssetClass != domain.Forex {
		return ForexResult{}, false
	}

	pipSize := pair.PipSize
	pipDistance := math.Abs(in.EntryPrice-in.StopPrice) / pipSize
	if pipDistance == 0 {
		return ForexResult{}, false
	}

	res := ForexResult{PipSize: pipSize, PipDistance: pipDistance}

	var pipPerUnit float64
	switch {
	case pair.QuoteIsUSD():
		pipPerUnit = pipSize
	case pair.BaseIsUSD():
		pipPerUnit = pipSize / in.EntryPrice
		res.ConversionPair = pair.Symbol
		res.ConversionRate = in.EntryPrice
	default:
		convPair, _ := pairs.ConversionPair(pair)
		rate := in.ConversionRate
		if rate == 0 {
			rate = referenceRate(convPair)
		}
		if pairs.DividesByRate(pair.Quote) {
			pipPerUnit = pipSize / rate
		} else {
			pipPerUnit = pipSize * rate
		}
		res.ConversionPair = convPair
		res.ConversionRate = rate
	}

	riskPerUnit := pipDistance * pipPerUnit
	if !positive(riskPerUnit) {
		return ForexResult{}, false
	}

	res.PipValuePerUnit = pipPerUnit
	res.Units = in.RiskAmount / riskPerUnit
	res.PipValue = pipPerUnit * res.Units
	res.Notional = res.Units * in.EntryPrice
	res.Margin = res.Notional / ForexLeverage

	if !finite(res.Units, res.PipValue, res.Notional, res.Margin) {
		return ForexResult{}, false
	}
	return res, true
}

// referenceRate falls back to 1.0 for conversion pairs without a reference value.
func referenceRate(conversionPair string) float64 {
	if r, ok := pairs.DefaultRate(conversionPair); ok {
		return r
	}
	return 1.0
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}
