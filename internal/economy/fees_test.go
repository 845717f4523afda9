package economy

import "testing"

func TestTransferFeeRateSelection(t *testing.T) {
	cfg := DefaultEconomicConfig()

	tests := []struct {
		name   string
		from   Store
		to     Store
		amount int64
		want   int64
	}{
		{"wallet to bank at threshold uses discounted rate", StoreWallet, StoreBank, 10000, 500},
		{"wallet to bank one below threshold uses standard rate", StoreWallet, StoreBank, 9999, 999},
		{"wallet to bank above threshold", StoreWallet, StoreBank, 20000, 1000},
		{"bank to wallet always standard rate", StoreBank, StoreWallet, 20000, 2000},
		{"small bank to wallet truncates", StoreBank, StoreWallet, 9, 0},
		{"invalid direction is free", StoreWallet, StoreWallet, 5000, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := cfg.TransferFee(tc.from, tc.to, tc.amount)
			if got != tc.want {
				t.Fatalf("TransferFee(%s, %s, %d) = %d, want %d", tc.from, tc.to, tc.amount, got, tc.want)
			}
		})
	}
}

func TestTransferFeeTruncatesTowardZero(t *testing.T) {
	cfg := DefaultEconomicConfig()

	// 10% of 9999 is 999.9; the fee must be 999, never 1000.
	if got := cfg.TransferFee(StoreBank, StoreWallet, 9999); got != 999 {
		t.Fatalf("expected truncated fee 999, got %d", got)
	}
	// 5% of 10001 is 500.05.
	if got := cfg.TransferFee(StoreWallet, StoreBank, 10001); got != 500 {
		t.Fatalf("expected truncated fee 500, got %d", got)
	}
}

func TestMarketSaleFeesBreakdown(t *testing.T) {
	cfg := DefaultEconomicConfig()

	fees := cfg.MarketSaleFees(10000)
	if fees.TransactionFee != 200 {
		t.Fatalf("transaction fee = %d, want 200", fees.TransactionFee)
	}
	// VAT applies to gross minus the transaction fee: 34% of 9800.
	if fees.VAT != 3332 {
		t.Fatalf("vat = %d, want 3332", fees.VAT)
	}
	if fees.Net != 6468 {
		t.Fatalf("net = %d, want 6468", fees.Net)
	}
}

func TestMarketSaleFeesSumToGross(t *testing.T) {
	cfg := DefaultEconomicConfig()

	for _, gross := range []int64{0, 1, 7, 99, 100, 101, 12345, 999999} {
		fees := cfg.MarketSaleFees(gross)
		if sum := fees.TransactionFee + fees.VAT + fees.Net; sum != gross {
			t.Fatalf("gross=%d: fee %d + vat %d + net %d = %d", gross, fees.TransactionFee, fees.VAT, fees.Net, sum)
		}
		if fees.TransactionFee < 0 || fees.VAT < 0 || fees.Net < 0 {
			t.Fatalf("gross=%d: negative component in %+v", gross, fees)
		}
	}
}
