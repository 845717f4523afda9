package economy

import "github.com/shopspring/decimal"

// MarketFees is the breakdown of a market sale's gross proceeds.
type MarketFees struct {
	Gross          int64
	TransactionFee int64
	VAT            int64
	Net            int64
}

// TransferFee computes the fee for moving amount between the two stores.
// Wallet-to-bank transfers at or above the configured threshold get the
// discounted large-transfer rate; everything else on a valid pair pays the
// general rate. Invalid pairs cost nothing (the caller rejects them).
//
// Fees truncate toward zero. Existing balances were produced under this
// rule, so it must not be replaced with rounding.
func (c EconomicConfig) TransferFee(from, to Store, amount int64) int64 {
	switch {
	case from == StoreWallet && to == StoreBank && amount >= c.WalletToBankThreshold:
		return truncAtRate(amount, c.WalletToBankFeeRate)
	case from == StoreWallet && to == StoreBank,
		from == StoreBank && to == StoreWallet:
		return truncAtRate(amount, c.TransferFeeRate)
	default:
		return 0
	}
}

// MarketSaleFees splits a sale's gross into transaction fee, VAT and net.
// The transaction fee comes off first; VAT applies to the remainder; the
// net is whatever is left, so the three parts always sum to gross.
func (c EconomicConfig) MarketSaleFees(gross int64) MarketFees {
	transactionFee := truncAtRate(gross, c.MarketTransactionFee)
	vat := truncAtRate(gross-transactionFee, c.MarketVATRate)
	return MarketFees{
		Gross:          gross,
		TransactionFee: transactionFee,
		VAT:            vat,
		Net:            gross - transactionFee - vat,
	}
}

func truncAtRate(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).IntPart()
}
