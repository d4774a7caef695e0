package risk

import "math"

// StopMode selects how the crypto stop is expressed.
type StopMode int

const (
	// StopAtPrice means the stop is a price level.
	StopAtPrice StopMode = iota
	// StopInUnits means the stop is a distance in instrument units.
	StopInUnits
)

// String returns the flag/display form of the mode.
func (m StopMode) String() string {
	switch m {
	case StopAtPrice:
		return "price"
	case StopInUnits:
		return "units"
	default:
		return "unknown"
	}
}

// CryptoInput holds validated numeric inputs for crypto sizing.
type CryptoInput struct {
	Mode       StopMode
	EntryPrice float64
	StopPrice  float64 // Used with StopAtPrice
	StopUnits  float64 // Used with StopInUnits
	RiskAmount float64
	Leverage   float64 // Zero defaults to 1
}

// CryptoResult is the outcome of a crypto sizing calculation.
// With StopInUnits, PriceDistance carries the stop distance as entered.
type CryptoResult struct {
	PriceDistance float64
	Units         float64
	Notional      float64
	Margin        float64
	Leverage      float64
}

// CryptoSize computes risk-based position size for a crypto pair.
// Leverage only reduces the margin requirement; the unit count is driven by risk and stop alone.
func CryptoSize(in CryptoInput) (CryptoResult, bool) {
	if !positive(in.EntryPrice) || !positive(in.RiskAmount) {
		return CryptoResult{}, false
	}

	leverage := in.Leverage
	if leverage == 0 {
		leverage = 1
	}
	if !positive(leverage) {
		return CryptoResult{}, false
	}

	var res CryptoResult
	switch in.Mode {
	case StopAtPrice:
		if !positive(in.StopPrice) {
			return CryptoResult{}, false
		}
		dist := math.Abs(in.EntryPrice - in.StopPrice)
		if dist == 0 {
			return CryptoResult{}, false
		}
		res.PriceDistance = dist
		res.Units = in.RiskAmount / dist
	case StopInUnits:
		if !positive(in.StopUnits) {
			return CryptoResult{}, false
		}
		res.PriceDistance = in.StopUnits
		dollarRiskPerUnit := in.RiskAmount / in.StopUnits
		res.Units = dollarRiskPerUnit / in.EntryPrice
	default:
		return CryptoResult{}, false
	}

	res.Leverage = leverage
	res.Notional = res.Units * in.EntryPrice
	res.Margin = res.Notional / leverage

	if !finite(res.Units, res.Notional, res.Margin) {
		return CryptoResult{}, false
	}
	return res, true
}
