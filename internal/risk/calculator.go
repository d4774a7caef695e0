package risk

import (
	"fmt"
	"strconv"
	"strings"

	"tradeJournal/internal/domain"
)

// Settings holds the calculator defaults a trader configures once.
type Settings struct {
	DefaultRisk       float64           `yaml:"defaultRisk"`
	DefaultLeverage   float64           `yaml:"defaultLeverage"`
	DefaultAssetClass domain.AssetClass `yaml:"defaultAssetClass"`
}

// DefaultSettings returns the out-of-the-box calculator defaults.
func DefaultSettings() Settings {
	return Settings{
		DefaultRisk:       100,
		DefaultLeverage:   50,
		DefaultAssetClass: domain.Forex,
	}
}

// Validate checks every setting and reports all problems at once.
func (s Settings) Validate() error {
	var errs []string
	if !positive(s.DefaultRisk) {
		errs = append(errs, "default risk must be positive")
	}
	if !positive(s.DefaultLeverage) {
		errs = append(errs, "default leverage must be positive")
	}
	if !s.DefaultAssetClass.Valid() {
		errs = append(errs, fmt.Sprintf("unknown default asset class %q", s.DefaultAssetClass))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid calculator settings: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Calculator applies Settings to calculator forms before sizing. It is immutable and safe for
// concurrent use.
type Calculator struct {
	settings Settings
}

// NewCalculator creates a calculator bound to the given settings.
func NewCalculator(settings Settings) (*Calculator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{settings: settings}, nil
}

// Settings returns the defaults the calculator was built with.
func (c *Calculator) Settings() Settings {
	return c.settings
}

// Forex sizes a forex form. A blank risk field is pre-filled with the default risk.
func (c *Calculator) Forex(f ForexForm) (ForexResult, bool) {
	if strings.TrimSpace(f.Risk) == "" {
		f.Risk = formatFloat(c.settings.DefaultRisk)
	}
	in, ok := ParseForex(f)
	if !ok {
		return ForexResult{}, false
	}
	return ForexSize(in)
}

// Crypto sizes a crypto form. Blank risk and leverage fields are pre-filled from settings.
func (c *Calculator) Crypto(f CryptoForm) (CryptoResult, bool) {
	if strings.TrimSpace(f.Risk) == "" {
		f.Risk = formatFloat(c.settings.DefaultRisk)
	}
	if strings.TrimSpace(f.Leverage) == "" {
		f.Leverage = formatFloat(c.settings.DefaultLeverage)
	}
	in, ok := ParseCrypto(f)
	if !ok {
		return CryptoResult{}, false
	}
	return CryptoSize(in)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
