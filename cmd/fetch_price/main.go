package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"tradeJournal/config"
	"tradeJournal/internal/adapters/binanceclient"
	"tradeJournal/internal/adapters/logger"
	"tradeJournal/internal/pairs"
)

func main() {
	pairList := flag.String("pairs", strings.Join(pairs.CryptoSymbols(), ","), "Comma separated crypto pairs")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)

	// 3. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := binanceClient.Ping(ctx); err != nil {
		log.Fatalf("Exchange unreachable: %v", err)
	}

	failed := 0
	for _, p := range strings.Split(*pairList, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		price, err := binanceClient.GetLatestPrice(ctx, p)
		if err != nil {
			fmt.Printf("%-10s error: %v\n", p, err)
			failed++
			continue
		}
		fmt.Printf("%-10s %s\n", p, formatPrice(price))
	}
	if failed > 0 {
		log.Fatalf("%d price lookups failed", failed)
	}
}

func formatPrice(p float64) string {
	if p < 1 {
		return fmt.Sprintf("%.6f", p)
	}
	return fmt.Sprintf("%.2f", p)
}
