package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"coinvault/internal/config"
	"coinvault/internal/db"
	"coinvault/internal/economy"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.LoadWorkerFromEnv()
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

	engine := economy.NewPricingEngine(pool, logger)

	if cfg.RunOnce {
		n, err := engine.DecayAll(ctx)
		if err != nil {
			logger.Error("decay failed", "err", err)
			os.Exit(1)
		}
		logger.Info("worker run-once completed", "items", n)
		return
	}

	runner := economy.NewDecayRunner(engine, cfg.DecayEvery, logger)
	runner.Run(ctx)
}
