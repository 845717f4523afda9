package economy

import (
	"errors"
	"time"
)

// Store names one of the two cash stores a player owns.
type Store string

const (
	StoreWallet Store = "wallet"
	StoreBank   Store = "bank"
)

// Direction of a market trade as recorded in trade_records.
type Direction string

const (
	DirectionSell Direction = "SELL"
	DirectionBuy  Direction = "BUY"
)

const (
	// Price multiplier bounds. Trades may push the multiplier anywhere in
	// [MinMultiplier, MaxMultiplier]; the periodic decay caps at
	// DecayCeiling instead, which is stricter on the high end.
	MinMultiplier = 0.1
	MaxMultiplier = 4.0
	DecayCeiling  = 3.0

	// BuySpread is the markup of the buy price over the sell price basis.
	BuySpread = 1.6

	// ReferenceLotSize normalizes trade quantity in the pricing formula.
	ReferenceLotSize = 64.0

	// TradeImpact scales how hard a single reference lot moves the multiplier.
	TradeImpact = 0.02

	// BaselinePull is the per-trade drift of the multiplier toward 1.0.
	BaselinePull = 0.001

	// DecayRate is the fraction of the distance to 1.0 recovered per decay tick.
	DecayRate = 0.1

	// VolumeWindow is the trailing horizon for the supply/demand volume sums.
	VolumeWindow = time.Hour
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already registered")
	ErrItemNotFound    = errors.New("market item not found")
	ErrPriceContention = errors.New("price update lost to concurrent trades")
)

type Account struct {
	ID         int64  `json:"id"`
	PlayerUUID string `json:"player_uuid"`
	PlayerName string `json:"player_name"`
	Wallet     int64  `json:"wallet"`
	Bank       int64  `json:"bank"`
	IsBankOpen bool   `json:"is_bank_open"`
}

type MarketItem struct {
	ID               int64   `json:"id"`
	ItemKey          string  `json:"item_key"`
	ItemName         string  `json:"item_name"`
	BasePrice        int64   `json:"base_price"`
	CurrentSellPrice int64   `json:"current_sell_price"`
	CurrentBuyPrice  int64   `json:"current_buy_price"`
	TotalSold        int64   `json:"total_sold"`
	TotalBought      int64   `json:"total_bought"`
	PriceMultiplier  float64 `json:"price_multiplier"`
}

type MarketItemLight struct {
	ItemKey          string  `json:"item_key"`
	CurrentSellPrice int64   `json:"current_sell_price"`
	PriceMultiplier  float64 `json:"price_multiplier"`
}

// TransferResult reports the outcome of a wallet/bank transfer. Success=false
// carries a business decline (bad direction, insufficient funds, bank
// closed), never an infrastructure failure.
type TransferResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	NewWallet         int64  `json:"new_wallet"`
	NewBank           int64  `json:"new_bank"`
	FeeCharged        int64  `json:"fee_charged"`
	AmountTransferred int64  `json:"amount_transferred"`
}

type SellResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	GrossEarned    int64  `json:"gross_earned"`
	TransactionFee int64  `json:"transaction_fee"`
	VAT            int64  `json:"vat"`
	NetEarned      int64  `json:"net_earned"`
	PricePerUnit   int64  `json:"price_per_unit"`
	NewWallet      int64  `json:"new_wallet"`
	NewBank        int64  `json:"new_bank"`
	NewItemPrice   int64  `json:"new_item_price"`
}

type BuyResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	TotalCost    int64  `json:"total_cost"`
	PricePerUnit int64  `json:"price_per_unit"`
	Quantity     int64  `json:"quantity"`
	NewWallet    int64  `json:"new_wallet"`
	NewBank      int64  `json:"new_bank"`
	NewItemPrice int64  `json:"new_item_price"`
}

type RegisterResult struct {
	Success bool   `json:"success"`
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
}

// ValidTransferDirection reports whether (from, to) is one of the two
// supported transfer pairs.
func ValidTransferDirection(from, to Store) bool {
	return (from == StoreWallet && to == StoreBank) || (from == StoreBank && to == StoreWallet)
}
