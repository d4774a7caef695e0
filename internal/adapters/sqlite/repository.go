package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.TradeRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/journal.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// A single connection serializes writers and keeps WAL readers consistent.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := newWithDB(db, cfg.Logger)
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Database schema initialized/verified")

	return repo, nil
}

func newWithDB(db *sql.DB, logger ports.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// initializeSchema creates tables if they don't exist. Decimals and timestamps are stored as
// TEXT so they round-trip exactly.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS active_trades (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		asset_class TEXT NOT NULL,
		pair_symbol TEXT NOT NULL,
		risk TEXT NOT NULL,
		open_date TEXT NOT NULL,
		take_profit_pips TEXT NULL
	);

	CREATE TABLE IF NOT EXISTS closed_trades (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		asset_class TEXT NOT NULL,
		pair_symbol TEXT NOT NULL,
		risk TEXT NOT NULL,
		open_date TEXT NOT NULL,
		close_date TEXT NOT NULL,
		result TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_closed_trades_close_date ON closed_trades (close_date);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// LoadAll reads both collections in their saved order.
func (r *Repository) LoadAll(ctx context.Context) ([]domain.ActiveTrade, []domain.ClosedTrade, error) {
	active, err := r.loadActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	closed, err := r.loadClosed(ctx)
	if err != nil {
		return nil, nil, err
	}
	r.logger.Debug(ctx, "Journal loaded from SQLite", map[string]interface{}{
		"active": len(active),
		"closed": len(closed),
	})
	return active, closed, nil
}

func (r *Repository) loadActive(ctx context.Context) ([]domain.ActiveTrade, error) {
	const query = `
	SELECT id, asset_class, pair_symbol, risk, open_date, take_profit_pips
	FROM active_trades
	ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active trades: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	trades := make([]domain.ActiveTrade, 0)
	for rows.Next() {
		t, err := scanActive(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan active trade: %w: %w", ports.ErrQueryFailed, err)
		}
		trades = append(trades, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active trade rows: %w: %w", ports.ErrQueryFailed, err)
	}
	return trades, nil
}

func (r *Repository) loadClosed(ctx context.Context) ([]domain.ClosedTrade, error) {
	const query = `
	SELECT id, asset_class, pair_symbol, risk, open_date, close_date, result
	FROM closed_trades
	ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query closed trades: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	trades := make([]domain.ClosedTrade, 0)
	for rows.Next() {
		t, err := scanClosed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan closed trade: %w: %w", ports.ErrQueryFailed, err)
		}
		trades = append(trades, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating closed trade rows: %w: %w", ports.ErrQueryFailed, err)
	}
	return trades, nil
}

// SaveAll replaces both tables with the given collections inside one transaction.
func (r *Repository) SaveAll(ctx context.Context, active []domain.ActiveTrade, closed []domain.ClosedTrade) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w: %w", ports.ErrUpdateFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM active_trades`); err != nil {
		return fmt.Errorf("failed to delete existing active trades: %w: %w", ports.ErrUpdateFailed, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM closed_trades`); err != nil {
		return fmt.Errorf("failed to delete existing closed trades: %w: %w", ports.ErrUpdateFailed, err)
	}

	const insertActive = `
	INSERT INTO active_trades (id, position, asset_class, pair_symbol, risk, open_date, take_profit_pips)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	for i, t := range active {
		var tp decimal.NullDecimal
		if t.TakeProfitPips != nil {
			tp = decimal.NullDecimal{Decimal: *t.TakeProfitPips, Valid: true}
		}
		_, err := tx.ExecContext(ctx, insertActive,
			t.ID.String(), i, string(t.AssetClass), t.PairSymbol, t.Risk.String(), formatTime(t.OpenDate), tp)
		if err != nil {
			return fmt.Errorf("failed to insert active trade %s: %w: %w", t.ID, ports.ErrUpdateFailed, err)
		}
	}

	const insertClosed = `
	INSERT INTO closed_trades (id, position, asset_class, pair_symbol, risk, open_date, close_date, result)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for i, t := range closed {
		_, err := tx.ExecContext(ctx, insertClosed,
			t.ID.String(), i, string(t.AssetClass), t.PairSymbol, t.Risk.String(),
			formatTime(t.OpenDate), formatTime(t.CloseDate), t.Result.String())
		if err != nil {
			return fmt.Errorf("failed to insert closed trade %s: %w: %w", t.ID, ports.ErrUpdateFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w: %w", ports.ErrUpdateFailed, err)
	}
	r.logger.Debug(ctx, "Journal saved to SQLite", map[string]interface{}{
		"active": len(active),
		"closed": len(closed),
	})
	return nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanActive(s scanner) (domain.ActiveTrade, error) {
	var t domain.ActiveTrade
	var id, asset, openDate string
	var tp decimal.NullDecimal
	if err := s.Scan(&id, &asset, &t.PairSymbol, &t.Risk, &openDate, &tp); err != nil {
		return domain.ActiveTrade{}, err
	}

	var err error
	if t.ID, err = uuid.Parse(id); err != nil {
		return domain.ActiveTrade{}, fmt.Errorf("invalid trade id %q: %w", id, err)
	}
	if t.OpenDate, err = parseTime(openDate); err != nil {
		return domain.ActiveTrade{}, err
	}
	t.AssetClass = domain.AssetClass(asset)
	if tp.Valid {
		v := tp.Decimal
		t.TakeProfitPips = &v
	}
	return t, nil
}

func scanClosed(s scanner) (domain.ClosedTrade, error) {
	var t domain.ClosedTrade
	var id, asset, openDate, closeDate string
	if err := s.Scan(&id, &asset, &t.PairSymbol, &t.Risk, &openDate, &closeDate, &t.Result); err != nil {
		return domain.ClosedTrade{}, err
	}

	var err error
	if t.ID, err = uuid.Parse(id); err != nil {
		return domain.ClosedTrade{}, fmt.Errorf("invalid trade id %q: %w", id, err)
	}
	if t.OpenDate, err = parseTime(openDate); err != nil {
		return domain.ClosedTrade{}, err
	}
	if t.CloseDate, err = parseTime(closeDate); err != nil {
		return domain.ClosedTrade{}, err
	}
	t.AssetClass = domain.AssetClass(asset)
	return t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
