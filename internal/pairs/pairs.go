// Package pairs holds the static registry of tradable forex and crypto pairs together with the
// reference conversion rates used to pre-fill cross-pair sizing.
package pairs

import (
	"sort"
	"strings"

	"tradeJournal/internal/domain"
)

const (
	USD = "USD"
	JPY = "JPY"

	// StandardPipSize applies to every forex pair not quoted in JPY.
	StandardPipSize = 0.0001
	// JPYPipSize applies to JPY-quoted forex pairs.
	JPYPipSize = 0.01
)

// Pair is one registry entry. Crypto pairs carry a zero PipSize.
type Pair struct {
	Symbol     string
	Base       string
	Quote      string
	AssetClass domain.AssetClass
	PipSize    float64
}

// QuoteIsUSD reports whether P/L on this pair is already denominated in USD.
func (p Pair) QuoteIsUSD() bool { return p.Quote == USD }

// BaseIsUSD reports a USD-based pair with a non-USD quote.
func (p Pair) BaseIsUSD() bool { return p.Base == USD && p.Quote != USD }

// IsCross reports a forex pair where neither leg is USD.
func (p Pair) IsCross() bool { return p.Base != USD && p.Quote != USD }

var forexGroups = map[string][]string{
	"AUD": {"AUD/CAD", "AUD/CHF", "AUD/JPY", "AUD/NZD", "AUD/USD"},
	"CAD": {"CAD/CHF", "CAD/JPY"},
	"CHF": {"CHF/JPY"},
	"EUR": {"EUR/AUD", "EUR/CAD", "EUR/CHF", "EUR/GBP", "EUR/JPY", "EUR/NZD", "EUR/USD"},
	"GBP": {"GBP/AUD", "GBP/CAD", "GBP/CHF", "GBP/JPY", "GBP/NZD", "GBP/USD"},
	"JPY": {"JPY/CHF"},
	"NZD": {"NZD/CAD", "NZD/CHF", "NZD/JPY", "NZD/USD"},
	"USD": {"USD/CAD", "USD/CHF", "USD/JPY"},
}

var cryptoBases = []string{"BTC", "ETH", "BNB", "SOL", "XRP", "ADA", "AVAX", "DOT", "LINK", "LTC", "MATIC", "DOGE"}

// conversionPairs maps a cross pair's quote currency to the USD pair used to price its pips.
var conversionPairs = map[string]string{
	"JPY": "USD/JPY",
	"CHF": "USD/CHF",
	"CAD": "USD/CAD",
	"GBP": "GBP/USD",
	"AUD": "AUD/USD",
	"NZD": "NZD/USD",
	"EUR": "EUR/USD",
}

// defaultRates are pre-fill values only. They are never authoritative market data.
var defaultRates = map[string]float64{
	"USD/JPY": 150.00,
	"EUR/USD": 1.0850,
	"GBP/USD": 1.2700,
	"AUD/USD": 0.6600,
	"NZD/USD": 0.6100,
	"USD/CAD": 1.3600,
	"USD/CHF": 0.8800,
}

var (
	registry     map[string]Pair
	forexBases   []string
	forexByBase  map[string][]string
	cryptoSorted []string
)

func init() {
	registry = make(map[string]Pair)
	forexByBase = make(map[string][]string, len(forexGroups))

	for base, symbols := range forexGroups {
		sorted := append([]string(nil), symbols...)
		sort.Strings(sorted)
		forexByBase[base] = sorted
		forexBases = append(forexBases, base)
		for _, s := range sorted {
			b, q := split(s)
			pip := StandardPipSize
			if q == JPY {
				pip = JPYPipSize
			}
			registry[s] = Pair{Symbol: s, Base: b, Quote: q, AssetClass: domain.Forex, PipSize: pip}
		}
	}
	sort.Strings(forexBases)

	for _, base := range cryptoBases {
		s := base + "/" + USD
		registry[s] = Pair{Symbol: s, Base: base, Quote: USD, AssetClass: domain.Crypto}
		cryptoSorted = append(cryptoSorted, s)
	}
	sort.Strings(cryptoSorted)
}

func split(symbol string) (string, string) {
	base, quote, _ := strings.Cut(symbol, "/")
	return base, quote
}

// ForexBases returns the sorted base currencies that have at least one pair.
func ForexBases() []string {
	return append([]string(nil), forexBases...)
}

// ForexByBase returns the sorted pair symbols for a base currency. Unknown bases yield an empty slice.
func ForexByBase(base string) []string {
	return append([]string{}, forexByBase[strings.ToUpper(base)]...)
}

// CryptoSymbols returns the sorted list of supported crypto pairs.
func CryptoSymbols() []string {
	return append([]string(nil), cryptoSorted...)
}

// Symbols returns the pairs for an asset class.
func Symbols(asset domain.AssetClass) []string {
	switch asset {
	case domain.Forex:
		var all []string
		for _, b := range forexBases {
			all = append(all, forexByBase[b]...)
		}
		return all
	case domain.Crypto:
		return CryptoSymbols()
	default:
		return []string{}
	}
}

// Lookup finds a pair by symbol.
func Lookup(symbol string) (Pair, bool) {
	p, ok := registry[strings.ToUpper(strings.TrimSpace(symbol))]
	return p, ok
}

// IsKnown reports whether symbol belongs to the registry of the given asset class.
func IsKnown(asset domain.AssetClass, symbol string) bool {
	p, ok := Lookup(symbol)
	return ok && p.AssetClass == asset
}

// ConversionPair returns the USD pair needed to express pip value in USD.
// Quote-USD pairs need none; base-USD pairs convert through themselves.
func ConversionPair(p Pair) (string, bool) {
	switch {
	case p.AssetClass != domain.Forex, p.QuoteIsUSD():
		return "", false
	case p.BaseIsUSD():
		return p.Symbol, true
	default:
		cp, ok := conversionPairs[p.Quote]
		return cp, ok
	}
}

// DividesByRate reports whether the conversion pair is quoted as USD/<quote>, so pip value is
// pipSize divided by the rate. Otherwise it is multiplied.
func DividesByRate(quote string) bool {
	return quote == "JPY" || quote == "CHF" || quote == "CAD"
}

// DefaultRate returns the reference rate for a conversion pair.
func DefaultRate(conversionPair string) (float64, bool) {
	r, ok := defaultRates[conversionPair]
	return r, ok
}
