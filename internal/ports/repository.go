package ports

import (
	"context"

	"tradeJournal/internal/domain"
)

// TradeRepository is the durable home of the two journal collections.
type TradeRepository interface {
	// LoadAll returns both collections as last persisted. An empty store yields empty slices.
	LoadAll(ctx context.Context) ([]domain.ActiveTrade, []domain.ClosedTrade, error)
	// SaveAll replaces the persisted collections with the given ones in a single transaction.
	SaveAll(ctx context.Context, active []domain.ActiveTrade, closed []domain.ClosedTrade) error
}

// RemoteSync replicates the journal to a remote copy. It is push/pull, not transactional:
// whichever write lands last wins.
type RemoteSync interface {
	PushAll(ctx context.Context, active []domain.ActiveTrade, closed []domain.ClosedTrade) error
	PullAll(ctx context.Context) ([]domain.ActiveTrade, []domain.ClosedTrade, error)
}

// PriceSource fetches the latest market price for a pair symbol such as "BTC/USD".
// It only pre-fills calculator input and is never required by the sizing engine.
type PriceSource interface {
	GetLatestPrice(ctx context.Context, pair string) (float64, error)
}
