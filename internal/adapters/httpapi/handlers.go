package httpapi

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"tradeJournal/internal/analytics"
	"tradeJournal/internal/app"
	"tradeJournal/internal/domain"
	"tradeJournal/internal/pairs"
	"tradeJournal/internal/ports"
)

// JournalReader is the read side of the trade store.
type JournalReader interface {
	Active() []domain.ActiveTrade
	Closed() []domain.ClosedTrade
	FindActive(id uuid.UUID) (domain.ActiveTrade, bool)
	FindClosed(id uuid.UUID) (domain.ClosedTrade, bool)
	Performance() *analytics.PerformanceMetrics
	SyncStatus() app.SyncStatus
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	journal JournalReader
	logger  ports.Logger
}

// NewHandler creates a new Handler
func NewHandler(journal JournalReader, logger ports.Logger) *Handler {
	return &Handler{journal: journal, logger: logger}
}

type healthResponse struct {
	Status     string     `json:"status"`
	Sync       string     `json:"sync"`
	LastSyncAt *time.Time `json:"lastSyncAt,omitempty"`
	LastError  string     `json:"lastError,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	st := h.journal.SyncStatus()
	resp := healthResponse{Status: "ok", Sync: string(st.State), LastError: st.LastError}
	if !st.LastSyncAt.IsZero() {
		t := st.LastSyncAt
		resp.LastSyncAt = &t
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetActiveTrades handles GET /trades/active
func (h *Handler) GetActiveTrades(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.journal.Active())
}

// GetClosedTrades handles GET /trades/closed
func (h *Handler) GetClosedTrades(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.journal.Closed())
}

type tradeResponse struct {
	Status string              `json:"status"`
	Active *domain.ActiveTrade `json:"active,omitempty"`
	Closed *domain.ClosedTrade `json:"closed,omitempty"`
}

// GetTrade handles GET /trades/{id}
func (h *Handler) GetTrade(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Debug(r.Context(), "Rejected trade lookup", map[string]interface{}{"id": raw})
		http.Error(w, "invalid trade id", http.StatusBadRequest)
		return
	}
	if t, ok := h.journal.FindActive(id); ok {
		respondJSON(w, http.StatusOK, tradeResponse{Status: "active", Active: &t})
		return
	}
	if t, ok := h.journal.FindClosed(id); ok {
		respondJSON(w, http.StatusOK, tradeResponse{Status: "closed", Closed: &t})
		return
	}
	h.logger.Debug(r.Context(), "Trade not found", map[string]interface{}{"id": id.String()})
	http.Error(w, "trade not found", http.StatusNotFound)
}

type monthlyResponse struct {
	Month  string `json:"month"`
	Result string `json:"result"`
}

type metricsResponse struct {
	TotalClosed          int               `json:"totalClosed"`
	WinTrades            int               `json:"winTrades"`
	LossTrades           int               `json:"lossTrades"`
	WinRate              float64           `json:"winRate"`
	AvgWin               string            `json:"avgWin"`
	AvgLoss              string            `json:"avgLoss"`
	LargestWin           string            `json:"largestWin"`
	LargestLoss          string            `json:"largestLoss"`
	GrossProfit          string            `json:"grossProfit"`
	GrossLoss            string            `json:"grossLoss"`
	ProfitFactor         *float64          `json:"profitFactor"` // null when infinite
	ProfitFactorInfinite bool              `json:"profitFactorInfinite"`
	TotalResult          string            `json:"totalResult"`
	Expectancy           string            `json:"expectancy"`
	MaxConsecutiveWins   int               `json:"maxConsecutiveWins"`
	MaxConsecutiveLosses int               `json:"maxConsecutiveLosses"`
	AvgHoldingHours      float64           `json:"avgHoldingHours"`
	Monthly              []monthlyResponse `json:"monthly"`
}

// GetMetrics handles GET /metrics/summary
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	m := h.journal.Performance()
	resp := metricsResponse{
		TotalClosed:          m.TotalClosed,
		WinTrades:            m.WinTrades,
		LossTrades:           m.LossTrades,
		WinRate:              m.WinRate,
		AvgWin:               m.AvgWin.StringFixed(2),
		AvgLoss:              m.AvgLoss.StringFixed(2),
		LargestWin:           m.LargestWin.StringFixed(2),
		LargestLoss:          m.LargestLoss.StringFixed(2),
		GrossProfit:          m.GrossProfit.StringFixed(2),
		GrossLoss:            m.GrossLoss.StringFixed(2),
		ProfitFactorInfinite: math.IsInf(m.ProfitFactor, 1),
		TotalResult:          m.TotalResult.StringFixed(2),
		Expectancy:           m.Expectancy.StringFixed(2),
		MaxConsecutiveWins:   m.MaxConsecutiveWins,
		MaxConsecutiveLosses: m.MaxConsecutiveLosses,
		AvgHoldingHours:      m.AverageHoldingPeriod.Hours(),
		Monthly:              []monthlyResponse{},
	}
	if !resp.ProfitFactorInfinite {
		pf := m.ProfitFactor
		resp.ProfitFactor = &pf
	}
	for _, mr := range m.GetMonthlyResults() {
		resp.Monthly = append(resp.Monthly, monthlyResponse{
			Month:  mr.Month.Format("2006-01"),
			Result: mr.Result.StringFixed(2),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

type pairResponse struct {
	Symbol     string  `json:"symbol"`
	Base       string  `json:"base"`
	Quote      string  `json:"quote"`
	AssetClass string  `json:"assetClass"`
	PipSize    float64 `json:"pipSize,omitempty"`
}

// GetPairs handles GET /pairs?asset=forex|crypto
func (h *Handler) GetPairs(w http.ResponseWriter, r *http.Request) {
	classes := []domain.AssetClass{domain.Forex, domain.Crypto}
	if q := r.URL.Query().Get("asset"); q != "" {
		ac, err := domain.ParseAssetClass(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		classes = []domain.AssetClass{ac}
	}

	resp := []pairResponse{}
	for _, ac := range classes {
		for _, sym := range pairs.Symbols(ac) {
			p, _ := pairs.Lookup(sym)
			resp = append(resp, pairResponse{
				Symbol:     p.Symbol,
				Base:       p.Base,
				Quote:      p.Quote,
				AssetClass: string(p.AssetClass),
				PipSize:    p.PipSize,
			})
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
