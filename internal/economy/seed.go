package economy

import (
	"context"
	"fmt"
)

// SeedDefaults populates the config table with the default rates and, when
// the catalog is empty, inserts a starter commodity set. Safe to run on
// every boot.
func (s *Service) SeedDefaults(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `
		INSERT INTO economy_config (config_key, config_value) VALUES
			('market_vat_rate', 0.34),
			('transfer_fee_rate', 0.10),
			('wallet_to_bank_fee_rate', 0.05),
			('wallet_to_bank_threshold', 10000),
			('market_transaction_fee', 0.02)
		ON CONFLICT (config_key) DO NOTHING
	`); err != nil {
		return fmt.Errorf("seed config: %w", err)
	}

	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(1) FROM market_items`).Scan(&count); err != nil {
		return fmt.Errorf("count market items: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := []struct {
		Key       string
		Name      string
		BasePrice int64
	}{
		{"wheat", "Wheat", 12},
		{"coal", "Coal", 24},
		{"iron_ingot", "Iron Ingot", 100},
		{"copper_ingot", "Copper Ingot", 60},
		{"gold_ingot", "Gold Ingot", 280},
		{"redstone", "Redstone Dust", 40},
		{"lapis_lazuli", "Lapis Lazuli", 55},
		{"emerald", "Emerald", 420},
		{"diamond", "Diamond", 900},
		{"netherite_scrap", "Netherite Scrap", 2400},
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, row := range seed {
		sellPrice, buyPrice := derivedPrices(row.BasePrice, 1.0)
		_, err := tx.Exec(ctx, `
			INSERT INTO market_items (item_key, item_name, base_price, current_sell_price, current_buy_price, price_multiplier)
			VALUES ($1, $2, $3, $4, $5, 1.0)
		`, row.Key, row.Name, row.BasePrice, sellPrice, buyPrice)
		if err != nil {
			return fmt.Errorf("seed item %s: %w", row.Key, err)
		}
	}
	return tx.Commit(ctx)
}
