package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/app"
	"tradeJournal/internal/domain"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func newTestRouter(t *testing.T, metrics http.Handler) (http.Handler, *app.TradeStore) {
	t.Helper()
	store, err := app.NewTradeStore(app.StoreConfig{Logger: &mockLogger{}})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return SetupRoutes(NewHandler(store, &mockLogger{}), metrics), store
}

func addTrade(t *testing.T, store *app.TradeStore, pair string, risk int64) domain.ActiveTrade {
	t.Helper()
	trade, err := store.AddActive(context.Background(), domain.ActiveTrade{
		AssetClass: domain.Forex,
		PairSymbol: pair,
		Risk:       decimal.NewFromInt(risk),
		OpenDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return trade
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, string(domain.SyncIdle), body["sync"])
	assert.NotContains(t, body, "lastSyncAt")
}

func TestTradeEndpoints(t *testing.T) {
	h, store := newTestRouter(t, nil)
	ctx := context.Background()

	open := addTrade(t, store, "EUR/USD", 100)
	toClose := addTrade(t, store, "GBP/JPY", 50)
	_, err := store.CloseTrade(ctx, toClose.ID, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(-20))
	require.NoError(t, err)

	rec := get(t, h, "/api/v1/trades/active")
	require.Equal(t, http.StatusOK, rec.Code)
	var active []domain.ActiveTrade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	require.Len(t, active, 1)
	assert.Equal(t, open.ID, active[0].ID)

	rec = get(t, h, "/api/v1/trades/closed")
	var closed []domain.ClosedTrade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &closed))
	require.Len(t, closed, 1)
	assert.Equal(t, "-20", closed[0].Result.String())

	rec = get(t, h, "/api/v1/trades/"+toClose.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	var one tradeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, "closed", one.Status)
	require.NotNil(t, one.Closed)
	assert.Nil(t, one.Active)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/trades/"+uuid.NewString()).Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/trades/not-a-uuid").Code)
}

func TestMetricsSummaryEncodesInfiniteProfitFactor(t *testing.T) {
	h, store := newTestRouter(t, nil)
	ctx := context.Background()

	trade := addTrade(t, store, "EUR/USD", 100)
	_, err := store.CloseTrade(ctx, trade.ID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(150))
	require.NoError(t, err)

	rec := get(t, h, "/api/v1/metrics/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var body metricsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.TotalClosed)
	assert.True(t, body.ProfitFactorInfinite)
	assert.Nil(t, body.ProfitFactor)
	assert.Equal(t, "150.00", body.GrossProfit)
	require.Len(t, body.Monthly, 1)
	assert.Equal(t, "2024-02", body.Monthly[0].Month)
}

func TestMetricsSummaryEmptyJournal(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	var body metricsResponse
	require.NoError(t, json.Unmarshal(get(t, h, "/api/v1/metrics/summary").Body.Bytes(), &body))
	assert.Zero(t, body.TotalClosed)
	require.NotNil(t, body.ProfitFactor)
	assert.Zero(t, *body.ProfitFactor)
	assert.Empty(t, body.Monthly)
}

func TestGetPairs(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	var crypto []pairResponse
	require.NoError(t, json.Unmarshal(get(t, h, "/api/v1/pairs?asset=crypto").Body.Bytes(), &crypto))
	assert.Len(t, crypto, 12)
	for _, p := range crypto {
		assert.Equal(t, "Crypto", p.AssetClass)
	}

	var all []pairResponse
	require.NoError(t, json.Unmarshal(get(t, h, "/api/v1/pairs").Body.Bytes(), &all))
	assert.Len(t, all, 29+12)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/pairs?asset=stocks").Code)
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("journal_active_trades 0\n"))
	})
	h, _ := newTestRouter(t, metrics)

	rec := get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "journal_active_trades")

	h, _ = newTestRouter(t, nil)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/metrics").Code)
}
