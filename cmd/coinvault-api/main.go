package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinvault/internal/api"
	"coinvault/internal/config"
	"coinvault/internal/db"
	"coinvault/internal/economy"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Error("schema init failed", "err", err)
		os.Exit(1)
	}

	pricing := economy.NewPricingEngine(pool, logger)
	econ := economy.NewService(pool, pricing, logger)

	if cfg.StartupSeedData {
		if err := econ.SeedDefaults(ctx); err != nil {
			logger.Error("seed defaults failed", "err", err)
			os.Exit(1)
		}
	}

	econCfg, err := economy.LoadEconomicConfig(ctx, pool)
	if err != nil {
		logger.Error("economy config load failed", "err", err)
		os.Exit(1)
	}
	logger.Info("economy configuration loaded",
		"vat_rate", econCfg.MarketVATRate.String(),
		"transfer_fee_rate", econCfg.TransferFeeRate.String(),
		"wallet_to_bank_fee_rate", econCfg.WalletToBankFeeRate.String(),
		"wallet_to_bank_threshold", econCfg.WalletToBankThreshold,
		"market_transaction_fee", econCfg.MarketTransactionFee.String(),
	)

	server := api.New(cfg, logger, econ)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("coinvault api listening", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
