// Package redissync keeps a remote copy of the journal in Redis so another device can pull it.
package redissync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

const defaultPrefix = "journal:"

// Config holds configuration for the Redis replica.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string // Defaults to "journal:"
	Logger    ports.Logger
}

// Replica implements ports.RemoteSync. Each collection is one JSON document; a push replaces
// both documents in a single MULTI/EXEC so readers never see a half-written journal.
type Replica struct {
	client *redis.Client
	prefix string
	logger ports.Logger
}

// New creates a Replica. It does not contact the server.
func New(cfg Config) (*Replica, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Redis replica")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required: %w", ports.ErrConfigurationError)
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Replica{client: client, prefix: prefix, logger: cfg.Logger}, nil
}

func (r *Replica) activeKey() string  { return r.prefix + "active" }
func (r *Replica) closedKey() string  { return r.prefix + "closed" }
func (r *Replica) updatedKey() string { return r.prefix + "updated_at" }

// Ping checks connectivity.
func (r *Replica) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w: %w", ports.ErrConnectionFailed, err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Replica) Close() error {
	return r.client.Close()
}

// PushAll overwrites the remote journal.
func (r *Replica) PushAll(ctx context.Context, active []domain.ActiveTrade, closed []domain.ClosedTrade) error {
	activeDoc, closedDoc, err := encode(active, closed)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.activeKey(), activeDoc, 0)
		pipe.Set(ctx, r.closedKey(), closedDoc, 0)
		pipe.Set(ctx, r.updatedKey(), time.Now().UTC().Format(time.RFC3339Nano), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push journal to redis: %w: %w", ports.ErrSyncFailed, err)
	}

	r.logger.Debug(ctx, "Journal pushed to Redis", map[string]interface{}{
		"active": len(active),
		"closed": len(closed),
		"prefix": r.prefix,
	})
	return nil
}

// PullAll reads the remote journal. Missing documents read as empty collections.
func (r *Replica) PullAll(ctx context.Context) ([]domain.ActiveTrade, []domain.ClosedTrade, error) {
	vals, err := r.client.MGet(ctx, r.activeKey(), r.closedKey()).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("pull journal from redis: %w: %w", ports.ErrSyncFailed, err)
	}
	active, closed, err := decode(vals)
	if err != nil {
		return nil, nil, err
	}

	r.logger.Debug(ctx, "Journal pulled from Redis", map[string]interface{}{
		"active": len(active),
		"closed": len(closed),
	})
	return active, closed, nil
}

// LastPushed returns the time of the latest successful push, or the zero time if none.
func (r *Replica) LastPushed(ctx context.Context) (time.Time, error) {
	s, err := r.client.Get(ctx, r.updatedKey()).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read redis sync time: %w: %w", ports.ErrSyncFailed, err)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid redis sync time %q: %w", s, err)
	}
	return t, nil
}

func encode(active []domain.ActiveTrade, closed []domain.ClosedTrade) (string, string, error) {
	if active == nil {
		active = []domain.ActiveTrade{}
	}
	if closed == nil {
		closed = []domain.ClosedTrade{}
	}
	a, err := json.Marshal(active)
	if err != nil {
		return "", "", fmt.Errorf("encode active trades: %w", err)
	}
	c, err := json.Marshal(closed)
	if err != nil {
		return "", "", fmt.Errorf("encode closed trades: %w", err)
	}
	return string(a), string(c), nil
}

// decode expects the MGET reply for [active, closed]; nil entries are missing keys.
func decode(vals []interface{}) ([]domain.ActiveTrade, []domain.ClosedTrade, error) {
	active := []domain.ActiveTrade{}
	closed := []domain.ClosedTrade{}
	if len(vals) != 2 {
		return nil, nil, fmt.Errorf("unexpected redis reply length %d: %w", len(vals), ports.ErrSyncFailed)
	}
	if err := decodeDoc(vals[0], &active); err != nil {
		return nil, nil, fmt.Errorf("decode active trades: %w", err)
	}
	if err := decodeDoc(vals[1], &closed); err != nil {
		return nil, nil, fmt.Errorf("decode closed trades: %w", err)
	}
	return active, closed, nil
}

func decodeDoc(v interface{}, dst interface{}) error {
	switch doc := v.(type) {
	case nil:
		return nil
	case string:
		if err := json.Unmarshal([]byte(doc), dst); err != nil {
			return fmt.Errorf("%w: %w", ports.ErrSyncFailed, err)
		}
		return nil
	default:
		return fmt.Errorf("unexpected redis value type %T: %w", v, ports.ErrSyncFailed)
	}
}
