package economy

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultEconomicConfig(t *testing.T) {
	cfg := DefaultEconomicConfig()

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"vat rate", cfg.MarketVATRate, "0.34"},
		{"transfer fee rate", cfg.TransferFeeRate, "0.10"},
		{"wallet to bank fee rate", cfg.WalletToBankFeeRate, "0.05"},
		{"market transaction fee", cfg.MarketTransactionFee, "0.02"},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Fatalf("%s = %s, want %s", c.name, c.got.String(), c.want)
		}
	}
	if cfg.WalletToBankThreshold != 10000 {
		t.Fatalf("threshold = %d, want 10000", cfg.WalletToBankThreshold)
	}
}
