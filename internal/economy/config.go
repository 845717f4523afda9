package economy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Configuration keys consumed from the economy_config table.
const (
	keyMarketVATRate         = "market_vat_rate"
	keyTransferFeeRate       = "transfer_fee_rate"
	keyWalletToBankFeeRate   = "wallet_to_bank_fee_rate"
	keyWalletToBankThreshold = "wallet_to_bank_threshold"
	keyMarketTransactionFee  = "market_transaction_fee"
)

// EconomicConfig is an immutable snapshot of the tunable economy rates.
// A fresh snapshot is loaded per operation so administrative changes to the
// economy_config table take effect without a restart.
type EconomicConfig struct {
	MarketVATRate         decimal.Decimal // market_vat_rate, default 0.34
	TransferFeeRate       decimal.Decimal // transfer_fee_rate, default 0.10
	WalletToBankFeeRate   decimal.Decimal // wallet_to_bank_fee_rate, default 0.05
	WalletToBankThreshold int64           // wallet_to_bank_threshold, default 10000
	MarketTransactionFee  decimal.Decimal // market_transaction_fee, default 0.02
}

func DefaultEconomicConfig() EconomicConfig {
	return EconomicConfig{
		MarketVATRate:         decimal.RequireFromString("0.34"),
		TransferFeeRate:       decimal.RequireFromString("0.10"),
		WalletToBankFeeRate:   decimal.RequireFromString("0.05"),
		WalletToBankThreshold: 10000,
		MarketTransactionFee:  decimal.RequireFromString("0.02"),
	}
}

// LoadEconomicConfig reads the economy_config table and overlays it on the
// defaults. Absent keys keep their default; malformed values are rejected.
func LoadEconomicConfig(ctx context.Context, db *pgxpool.Pool) (EconomicConfig, error) {
	cfg := DefaultEconomicConfig()

	rows, err := db.Query(ctx, `SELECT config_key, config_value::text FROM economy_config`)
	if err != nil {
		return cfg, fmt.Errorf("load economy config: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return cfg, fmt.Errorf("scan economy config: %w", err)
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return cfg, fmt.Errorf("economy config %s: %w", key, err)
		}
		switch key {
		case keyMarketVATRate:
			cfg.MarketVATRate = value
		case keyTransferFeeRate:
			cfg.TransferFeeRate = value
		case keyWalletToBankFeeRate:
			cfg.WalletToBankFeeRate = value
		case keyWalletToBankThreshold:
			cfg.WalletToBankThreshold = value.IntPart()
		case keyMarketTransactionFee:
			cfg.MarketTransactionFee = value
		}
	}
	if err := rows.Err(); err != nil {
		return cfg, fmt.Errorf("load economy config: %w", err)
	}
	return cfg, nil
}
