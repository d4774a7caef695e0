package redissync

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func sampleJournal() ([]domain.ActiveTrade, []domain.ClosedTrade) {
	open := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	tp := decimal.RequireFromString("30")
	active := []domain.ActiveTrade{{
		ID:             uuid.New(),
		AssetClass:     domain.Forex,
		PairSymbol:     "GBP/JPY",
		Risk:           decimal.RequireFromString("75.5"),
		OpenDate:       open,
		TakeProfitPips: &tp,
	}}
	closed := []domain.ClosedTrade{{
		ID:         uuid.New(),
		AssetClass: domain.Crypto,
		PairSymbol: "SOL/USD",
		Risk:       decimal.NewFromInt(40),
		OpenDate:   open.AddDate(0, 0, -2),
		CloseDate:  open,
		Result:     decimal.RequireFromString("-12.34"),
	}}
	return active, closed
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Addr: "localhost:6379"})
	assert.Error(t, err)

	_, err = New(Config{Logger: &mockLogger{}})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)

	r, err := New(Config{Addr: "localhost:6379", Logger: &mockLogger{}})
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "journal:active", r.activeKey())
	assert.Equal(t, "journal:closed", r.closedKey())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	active, closed := sampleJournal()

	a, c, err := encode(active, closed)
	require.NoError(t, err)
	assert.Contains(t, a, `"risk":"75.5"`)
	assert.Contains(t, a, `"takeProfitPips":"30"`)
	assert.Contains(t, c, `"result":"-12.34"`)

	gotActive, gotClosed, err := decode([]interface{}{a, c})
	require.NoError(t, err)
	require.Len(t, gotActive, 1)
	require.Len(t, gotClosed, 1)
	assert.Equal(t, active[0].ID, gotActive[0].ID)
	assert.True(t, active[0].Risk.Equal(gotActive[0].Risk))
	assert.True(t, active[0].OpenDate.Equal(gotActive[0].OpenDate))
	require.NotNil(t, gotActive[0].TakeProfitPips)
	assert.Equal(t, "30", gotActive[0].TakeProfitPips.String())
	assert.Equal(t, "-12.34", gotClosed[0].Result.String())
	assert.Equal(t, domain.Crypto, gotClosed[0].AssetClass)
}

func TestEncodeOmitsAbsentTakeProfit(t *testing.T) {
	active, _ := sampleJournal()
	active[0].TakeProfitPips = nil

	a, c, err := encode(active, nil)
	require.NoError(t, err)
	assert.NotContains(t, a, "takeProfitPips")
	assert.Equal(t, "[]", c)
}

func TestDecodeMissingKeys(t *testing.T) {
	active, closed, err := decode([]interface{}{nil, nil})
	require.NoError(t, err)
	assert.NotNil(t, active)
	assert.NotNil(t, closed)
	assert.Empty(t, active)
	assert.Empty(t, closed)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := decode([]interface{}{"{not json", nil})
	assert.ErrorIs(t, err, ports.ErrSyncFailed)

	_, _, err = decode([]interface{}{int64(3), nil})
	assert.ErrorIs(t, err, ports.ErrSyncFailed)

	_, _, err = decode([]interface{}{nil})
	assert.ErrorIs(t, err, ports.ErrSyncFailed)
}

func TestPushFailsWhenServerUnreachable(t *testing.T) {
	r, err := New(Config{Addr: "127.0.0.1:1", Logger: &mockLogger{}})
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	active, closed := sampleJournal()
	assert.ErrorIs(t, r.PushAll(ctx, active, closed), ports.ErrSyncFailed)
	_, _, err = r.PullAll(ctx)
	assert.ErrorIs(t, err, ports.ErrSyncFailed)
	assert.ErrorIs(t, r.Ping(ctx), ports.ErrConnectionFailed)
}

// TestReplicaAgainstRedis runs only when REDIS_TEST_ADDR points at a disposable server.
func TestReplicaAgainstRedis(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	prefix := "journal-test:" + uuid.NewString() + ":"
	r, err := New(Config{Addr: addr, KeyPrefix: prefix, Logger: &mockLogger{}})
	require.NoError(t, err)
	defer r.Close()
	ctx := context.Background()
	defer r.client.Del(ctx, r.activeKey(), r.closedKey(), r.updatedKey())

	active, closed, err := r.PullAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Empty(t, closed)

	ts, err := r.LastPushed(ctx)
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	wantActive, wantClosed := sampleJournal()
	require.NoError(t, r.PushAll(ctx, wantActive, wantClosed))

	active, closed, err = r.PullAll(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Len(t, closed, 1)
	assert.Equal(t, wantActive[0].ID, active[0].ID)

	ts, err = r.LastPushed(ctx)
	require.NoError(t, err)
	assert.False(t, ts.IsZero())
}
