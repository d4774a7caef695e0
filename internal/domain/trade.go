package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActiveTrade represents an open position recorded in the journal.
type ActiveTrade struct {
	ID             uuid.UUID        `json:"id"`                       // Assigned at creation, never reassigned
	AssetClass     AssetClass       `json:"assetClass"`               // Forex or Crypto
	PairSymbol     string           `json:"pairSymbol"`               // e.g. "EUR/USD", "BTC/USD"
	Risk           decimal.Decimal  `json:"risk"`                     // Dollar amount the trader accepts to lose, always > 0
	OpenDate       time.Time        `json:"openDate"`                 // Date the position was opened
	TakeProfitPips *decimal.Decimal `json:"takeProfitPips,omitempty"` // Optional informational target distance
}

// ClosedTrade represents a finished position with its realized result.
type ClosedTrade struct {
	ID         uuid.UUID       `json:"id"`
	AssetClass AssetClass      `json:"assetClass"`
	PairSymbol string          `json:"pairSymbol"`
	Risk       decimal.Decimal `json:"risk"`
	OpenDate   time.Time       `json:"openDate"`
	CloseDate  time.Time       `json:"closeDate"`
	Result     decimal.Decimal `json:"result"` // Positive profit, negative loss, zero breakeven
}

// NewActiveTrade builds an active trade with a fresh ID. A zero openDate defaults to now.
func NewActiveTrade(asset AssetClass, pair string, risk decimal.Decimal, openDate time.Time, takeProfitPips *decimal.Decimal) ActiveTrade {
	if openDate.IsZero() {
		openDate = time.Now()
	}
	return ActiveTrade{
		ID:             uuid.New(),
		AssetClass:     asset,
		PairSymbol:     pair,
		Risk:           risk,
		OpenDate:       openDate,
		TakeProfitPips: takeProfitPips,
	}
}

// Clone returns a deep copy so callers never share the optional take-profit pointer.
func (t ActiveTrade) Clone() ActiveTrade {
	if t.TakeProfitPips != nil {
		tp := *t.TakeProfitPips
		t.TakeProfitPips = &tp
	}
	return t
}

// Close derives the closed record for this trade. ID and economic fields are carried over.
func (t ActiveTrade) Close(closeDate time.Time, result decimal.Decimal) ClosedTrade {
	return ClosedTrade{
		ID:         t.ID,
		AssetClass: t.AssetClass,
		PairSymbol: t.PairSymbol,
		Risk:       t.Risk,
		OpenDate:   t.OpenDate,
		CloseDate:  closeDate,
		Result:     result,
	}
}

// IsWin reports a strictly positive result.
func (c ClosedTrade) IsWin() bool {
	return c.Result.IsPositive()
}

// IsLoss reports a strictly negative result.
func (c ClosedTrade) IsLoss() bool {
	return c.Result.IsNegative()
}

// HoldingPeriod is the time between open and close. Negative when dates were entered out of order.
func (c ClosedTrade) HoldingPeriod() time.Duration {
	return c.CloseDate.Sub(c.OpenDate)
}

// Snapshot is a consistent copy of both journal collections taken at one instant.
type Snapshot struct {
	Active []ActiveTrade `json:"active"`
	Closed []ClosedTrade `json:"closed"`
}

// CloneActive deep-copies a slice of active trades. A nil input yields an empty slice.
func CloneActive(in []ActiveTrade) []ActiveTrade {
	out := make([]ActiveTrade, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

// CloneClosed copies a slice of closed trades. A nil input yields an empty slice.
func CloneClosed(in []ClosedTrade) []ClosedTrade {
	out := make([]ClosedTrade, len(in))
	copy(out, in)
	return out
}
