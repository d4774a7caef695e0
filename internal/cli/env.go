package cli

import (
	"context"
	"errors"
	"fmt"

	"tradeJournal/config"
	"tradeJournal/internal/adapters/binanceclient"
	"tradeJournal/internal/adapters/kafka"
	"tradeJournal/internal/adapters/metrics"
	"tradeJournal/internal/adapters/redissync"
	"tradeJournal/internal/adapters/sqlite"
	"tradeJournal/internal/app"
	"tradeJournal/internal/ports"
	"tradeJournal/internal/risk"
)

// Env holds the wired application shared by all commands.
type Env struct {
	Config     *config.Config
	Logger     ports.Logger
	Store      *app.TradeStore
	Calculator *app.CalculatorService
	Metrics    *metrics.Collector

	closers []func() error
}

// Bootstrap wires the journal from configuration: SQLite persistence, the optional Redis replica
// and Kafka publisher, Binance price lookups and the Prometheus collector. The journal is loaded
// from disk and, when a replica is configured, refreshed from it.
func Bootstrap(ctx context.Context, cfg *config.Config, logger ports.Logger) (*Env, error) {
	env := &Env{Config: cfg, Logger: logger}

	settings, err := config.LoadSettings(cfg.SettingsFile, cfg.Calculator)
	if err != nil {
		logger.Warn(ctx, "Ignoring settings file", map[string]interface{}{"path": cfg.SettingsFile, "error": err.Error()})
	}

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: logger})
	if err != nil {
		return nil, err
	}
	env.closers = append(env.closers, repo.Close)

	storeCfg := app.StoreConfig{
		Logger:      logger,
		Repository:  repo,
		SyncTimeout: cfg.SyncTimeout,
	}

	var replica *redissync.Replica
	if cfg.RedisEnabled() {
		replica, err = redissync.New(redissync.Config{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
			Logger:    logger,
		})
		if err != nil {
			env.Close()
			return nil, err
		}
		env.closers = append(env.closers, replica.Close)
		storeCfg.Remote = replica
	}

	env.Metrics = metrics.NewCollector()
	storeCfg.Observers = append(storeCfg.Observers, env.Metrics)

	if cfg.KafkaEnabled() {
		publisher, err := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			Logger:  logger,
		})
		if err != nil {
			env.Close()
			return nil, err
		}
		env.closers = append(env.closers, publisher.Close)
		storeCfg.Observers = append(storeCfg.Observers, publisher)
	}

	store, err := app.NewTradeStore(storeCfg)
	if err != nil {
		env.Close()
		return nil, err
	}
	// Registered last so it runs first: pending writes drain before adapters close.
	env.closers = append(env.closers, store.Close)
	env.Store = store

	if err := store.Load(ctx); err != nil {
		env.Close()
		return nil, err
	}
	if replica != nil {
		pullOnStart(ctx, store, replica, logger)
	}

	prices, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     logger,
	})
	if err != nil {
		env.Close()
		return nil, err
	}

	if err := env.setCalculator(settings, prices); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

// pullOnStart refreshes the local journal from the replica. A replica that was never pushed
// is left alone so it cannot wipe the local journal.
func pullOnStart(ctx context.Context, store *app.TradeStore, replica *redissync.Replica, logger ports.Logger) {
	last, err := replica.LastPushed(ctx)
	if err != nil {
		logger.Warn(ctx, "Remote replica unavailable, continuing with local journal", map[string]interface{}{"error": err.Error()})
		return
	}
	if last.IsZero() {
		logger.Info(ctx, "Remote replica is empty, keeping local journal")
		return
	}
	if err := store.Pull(ctx); err != nil {
		logger.Warn(ctx, "Remote pull on start failed, continuing with local journal", map[string]interface{}{"error": err.Error()})
	}
}

// NewEnv wires an in-memory journal without persistence or replication.
func NewEnv(cfg *config.Config, logger ports.Logger, prices ports.PriceSource) (*Env, error) {
	env := &Env{Config: cfg, Logger: logger, Metrics: metrics.NewCollector()}
	store, err := app.NewTradeStore(app.StoreConfig{
		Logger:    logger,
		Observers: []app.Observer{env.Metrics},
	})
	if err != nil {
		return nil, err
	}
	env.Store = store
	env.closers = append(env.closers, store.Close)

	if err := env.setCalculator(cfg.Calculator, prices); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

func (e *Env) setCalculator(settings risk.Settings, prices ports.PriceSource) error {
	calc, err := risk.NewCalculator(settings)
	if err != nil {
		return fmt.Errorf("calculator settings: %w: %w", ports.ErrConfigurationError, err)
	}
	svc, err := app.NewCalculatorService(calc, prices, e.Store, e.Logger)
	if err != nil {
		return err
	}
	e.Calculator = svc
	return nil
}

// Close releases resources in reverse order of acquisition.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
