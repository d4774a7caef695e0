package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"os/signal"
	"syscall"

	"tradeJournal/config"
	"tradeJournal/internal/adapters/logger"
	"tradeJournal/internal/cli"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger (stderr, stdout is reserved for command output)
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Debug(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire storage, replication, events and price lookups
	env, err := cli.Bootstrap(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize journal")
		log.Fatalf("FATAL: Failed to initialize journal: %v", err)
	}

	// 4. Run the command
	runErr := cli.NewRootCommand(env).ExecuteContext(ctx)

	// 5. Drain pending writes before exiting
	if err := env.Close(); err != nil {
		appLogger.Error(context.Background(), err, "Error closing journal")
	}
	if runErr != nil {
		os.Exit(1)
	}
}
