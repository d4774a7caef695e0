package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/pairs"
	"tradeJournal/internal/ports"
	"tradeJournal/internal/risk"
)

// CalculatorService connects the sizing calculator to the price lookup and the journal.
type CalculatorService struct {
	calc   *risk.Calculator
	prices ports.PriceSource // Optional
	store  *TradeStore
	logger ports.Logger
}

// NewCalculatorService creates the service. prices may be nil.
func NewCalculatorService(calc *risk.Calculator, prices ports.PriceSource, store *TradeStore, logger ports.Logger) (*CalculatorService, error) {
	if calc == nil || store == nil || logger == nil {
		return nil, fmt.Errorf("missing required dependencies for CalculatorService")
	}
	return &CalculatorService{calc: calc, prices: prices, store: store, logger: logger}, nil
}

// Settings returns the calculator defaults.
func (s *CalculatorService) Settings() risk.Settings {
	return s.calc.Settings()
}

// Prices returns the configured price source, nil when none.
func (s *CalculatorService) Prices() ports.PriceSource {
	return s.prices
}

// SizeForex sizes a forex form using the configured defaults.
func (s *CalculatorService) SizeForex(ctx context.Context, form risk.ForexForm) (risk.ForexResult, bool) {
	res, ok := s.calc.Forex(form)
	if !ok {
		s.logger.Debug(ctx, "Forex size not computable", map[string]interface{}{"pair": form.Pair})
	}
	return res, ok
}

// SizeCrypto sizes a crypto form. A blank entry is pre-filled from the price source when one is
// configured; lookup failures just leave the form incomplete.
func (s *CalculatorService) SizeCrypto(ctx context.Context, form risk.CryptoForm) (risk.CryptoResult, bool) {
	if strings.TrimSpace(form.Entry) == "" {
		if price, err := s.LatestPrice(ctx, form.Pair); err == nil {
			form.Entry = strconv.FormatFloat(price, 'f', -1, 64)
		}
	}
	res, ok := s.calc.Crypto(form)
	if !ok {
		s.logger.Debug(ctx, "Crypto size not computable", map[string]interface{}{"pair": form.Pair})
	}
	return res, ok
}

// LatestPrice returns the current market price of a crypto pair.
func (s *CalculatorService) LatestPrice(ctx context.Context, pair string) (float64, error) {
	if s.prices == nil {
		return 0, fmt.Errorf("no price source configured: %w", ports.ErrPriceUnavailable)
	}
	if !pairs.IsKnown(domain.Crypto, pair) {
		return 0, fmt.Errorf("price lookup %q: %w", pair, ports.ErrUnknownPair)
	}
	price, err := s.prices.GetLatestPrice(ctx, pair)
	if err != nil {
		s.logger.Warn(ctx, "Price lookup failed", map[string]interface{}{
			"pair":  pair,
			"error": err.Error(),
		})
		return 0, err
	}
	return price, nil
}

// TransferRequest carries the journal fields entered next to a calculator result.
type TransferRequest struct {
	AssetClass     domain.AssetClass
	Pair           string
	Risk           string // Blank uses the default risk
	TakeProfitPips string // Optional
	OpenDate       time.Time
}

// Transfer records a calculator setup as a new active trade.
func (s *CalculatorService) Transfer(ctx context.Context, req TransferRequest) (domain.ActiveTrade, error) {
	trade, err := s.buildTrade(req)
	if err != nil {
		return domain.ActiveTrade{}, fmt.Errorf("transfer to journal: %w", err)
	}
	return s.store.AddActive(ctx, trade)
}

func (s *CalculatorService) buildTrade(req TransferRequest) (domain.ActiveTrade, error) {
	if !req.AssetClass.Valid() {
		return domain.ActiveTrade{}, fmt.Errorf("%w: unknown asset class %q", ports.ErrInvalidRequest, req.AssetClass)
	}
	p, ok := pairs.Lookup(req.Pair)
	if !ok || p.AssetClass != req.AssetClass {
		return domain.ActiveTrade{}, fmt.Errorf("%q: %w", req.Pair, ports.ErrUnknownPair)
	}

	riskAmount := decimal.NewFromFloat(s.calc.Settings().DefaultRisk)
	if strings.TrimSpace(req.Risk) != "" {
		riskAmount, ok = risk.ParsePositiveDecimal(req.Risk)
		if !ok {
			return domain.ActiveTrade{}, fmt.Errorf("risk %q: %w", req.Risk, ports.ErrInvalidRisk)
		}
	}

	var tp *decimal.Decimal
	if strings.TrimSpace(req.TakeProfitPips) != "" {
		v, ok := risk.ParseDecimal(req.TakeProfitPips)
		if !ok {
			return domain.ActiveTrade{}, fmt.Errorf("take profit %q: %w", req.TakeProfitPips, ports.ErrInvalidRequest)
		}
		tp = &v
	}

	return domain.NewActiveTrade(req.AssetClass, p.Symbol, riskAmount, req.OpenDate, tp), nil
}
