package risk

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ForexForm carries raw text fields from a forex calculator form.
type ForexForm struct {
	Pair           string
	Entry          string
	Stop           string
	Risk           string
	ConversionRate string // Optional; blank uses the reference rate
}

// CryptoForm carries raw text fields from a crypto calculator form.
type CryptoForm struct {
	Pair      string
	Mode      StopMode
	Entry     string
	Stop      string // Stop price, used with StopAtPrice
	StopUnits string // Stop distance, used with StopInUnits
	Risk      string
	Leverage  string // Optional; blank means 1
}

// ParseForex validates a forex form. It returns false when any required field is blank,
// non-numeric or non-positive, or when a present conversion rate is not positive.
func ParseForex(f ForexForm) (ForexInput, bool) {
	entry, ok := parsePositive(f.Entry)
	if !ok {
		return ForexInput{}, false
	}
	stop, ok := parsePositive(f.Stop)
	if !ok {
		return ForexInput{}, false
	}
	riskAmt, ok := parsePositive(f.Risk)
	if !ok {
		return ForexInput{}, false
	}
	rate, ok := parseOptionalPositive(f.ConversionRate)
	if !ok {
		return ForexInput{}, false
	}
	return ForexInput{
		Pair:           strings.TrimSpace(f.Pair),
		EntryPrice:     entry,
		StopPrice:      stop,
		RiskAmount:     riskAmt,
		ConversionRate: rate,
	}, true
}

// ParseCrypto validates a crypto form for its stop mode. Only the stop field of the selected
// mode is required.
func ParseCrypto(f CryptoForm) (CryptoInput, bool) {
	entry, ok := parsePositive(f.Entry)
	if !ok {
		return CryptoInput{}, false
	}
	riskAmt, ok := parsePositive(f.Risk)
	if !ok {
		return CryptoInput{}, false
	}
	leverage, ok := parseOptionalPositive(f.Leverage)
	if !ok {
		return CryptoInput{}, false
	}

	in := CryptoInput{Mode: f.Mode, EntryPrice: entry, RiskAmount: riskAmt, Leverage: leverage}
	switch f.Mode {
	case StopAtPrice:
		in.StopPrice, ok = parsePositive(f.Stop)
	case StopInUnits:
		in.StopUnits, ok = parsePositive(f.StopUnits)
	default:
		ok = false
	}
	if !ok {
		return CryptoInput{}, false
	}
	return in, true
}

// ParseDecimal parses a trimmed numeric field.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParsePositiveDecimal parses a field that must be strictly greater than zero.
func ParsePositiveDecimal(s string) (decimal.Decimal, bool) {
	d, ok := ParseDecimal(s)
	if !ok || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

func parsePositive(s string) (float64, bool) {
	d, ok := ParsePositiveDecimal(s)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// parseOptionalPositive returns 0 for a blank field.
func parseOptionalPositive(s string) (float64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, true
	}
	return parsePositive(s)
}
