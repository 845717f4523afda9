package economy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service coordinates balance and market mutations. Sufficient-funds and
// bank-open preconditions live in the conditional UPDATE itself, so two
// concurrent requests can never both pass a stale balance check.
type Service struct {
	db      *pgxpool.Pool
	log     *slog.Logger
	pricing *PricingEngine
}

func NewService(db *pgxpool.Pool, pricing *PricingEngine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, log: logger, pricing: pricing}
}

func (s *Service) CreateAccount(ctx context.Context, playerUUID, playerName string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO accounts (player_uuid, player_name)
		VALUES ($1, $2)
		RETURNING id
	`, playerUUID, playerName).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrAccountExists
		}
		return 0, fmt.Errorf("insert account: %w", err)
	}
	return id, nil
}

func (s *Service) AccountByUUID(ctx context.Context, playerUUID string) (Account, error) {
	var a Account
	err := s.db.QueryRow(ctx, `
		SELECT id, player_uuid, player_name, wallet, bank, is_bank_open
		FROM accounts
		WHERE player_uuid = $1
	`, playerUUID).Scan(&a.ID, &a.PlayerUUID, &a.PlayerName, &a.Wallet, &a.Bank, &a.IsBankOpen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return a, ErrAccountNotFound
		}
		return a, fmt.Errorf("read account: %w", err)
	}
	return a, nil
}

func (s *Service) Wallet(ctx context.Context, playerUUID string) (int64, error) {
	return s.balanceColumn(ctx, playerUUID, StoreWallet)
}

func (s *Service) Bank(ctx context.Context, playerUUID string) (int64, error) {
	return s.balanceColumn(ctx, playerUUID, StoreBank)
}

func (s *Service) balanceColumn(ctx context.Context, playerUUID string, store Store) (int64, error) {
	query := `SELECT wallet FROM accounts WHERE player_uuid = $1`
	if store == StoreBank {
		query = `SELECT bank FROM accounts WHERE player_uuid = $1`
	}
	var balance int64
	if err := s.db.QueryRow(ctx, query, playerUUID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrAccountNotFound
		}
		return 0, fmt.Errorf("read %s balance: %w", store, err)
	}
	return balance, nil
}

// Transfer moves amount between a player's wallet and bank, charging the
// configured fee on top of the moved amount. The deduction, credit and both
// preconditions apply in one conditional UPDATE; on zero rows affected the
// account is re-read purely to tell the caller why it was declined.
func (s *Service) Transfer(ctx context.Context, playerUUID string, from, to Store, amount int64) (TransferResult, error) {
	if !ValidTransferDirection(from, to) {
		return TransferResult{
			Message:           "invalid transfer direction, use wallet or bank",
			AmountTransferred: amount,
		}, nil
	}
	if amount <= 0 {
		return TransferResult{
			Message:           "transfer amount must be positive",
			AmountTransferred: amount,
		}, nil
	}

	cfg, err := LoadEconomicConfig(ctx, s.db)
	if err != nil {
		return TransferResult{}, err
	}
	fee := cfg.TransferFee(from, to, amount)
	totalDeducted := amount + fee

	var tag pgconn.CommandTag
	if from == StoreWallet {
		tag, err = s.db.Exec(ctx, `
			UPDATE accounts
			SET wallet = wallet - $1, bank = bank + $2
			WHERE player_uuid = $3 AND wallet >= $1 AND is_bank_open
		`, totalDeducted, amount, playerUUID)
	} else {
		tag, err = s.db.Exec(ctx, `
			UPDATE accounts
			SET bank = bank - $1, wallet = wallet + $2
			WHERE player_uuid = $3 AND bank >= $1 AND is_bank_open
		`, totalDeducted, amount, playerUUID)
	}
	if err != nil {
		return TransferResult{}, fmt.Errorf("apply transfer: %w", err)
	}

	if tag.RowsAffected() == 0 {
		account, err := s.AccountByUUID(ctx, playerUUID)
		if err != nil {
			return TransferResult{}, err
		}
		if !account.IsBankOpen {
			return TransferResult{
				Message:           "bank is not open, visit a bank to access your account",
				FeeCharged:        fee,
				AmountTransferred: amount,
			}, nil
		}
		available := account.Wallet
		if from == StoreBank {
			available = account.Bank
		}
		return TransferResult{
			Message:           fmt.Sprintf("insufficient funds in %s (have %d, need %d)", from, available, totalDeducted),
			FeeCharged:        fee,
			AmountTransferred: amount,
		}, nil
	}

	account, err := s.AccountByUUID(ctx, playerUUID)
	if err != nil {
		return TransferResult{}, err
	}
	s.log.Info("transfer applied",
		"player_uuid", playerUUID,
		"from", string(from),
		"to", string(to),
		"amount", amount,
		"fee", fee,
	)
	return TransferResult{
		Success:           true,
		Message:           fmt.Sprintf("transferred %d from %s to %s (fee %d)", amount, from, to, fee),
		NewWallet:         account.Wallet,
		NewBank:           account.Bank,
		FeeCharged:        fee,
		AmountTransferred: amount,
	}, nil
}

// Sell converts quantity of an item into wallet funds at the current sell
// price. The wallet credit, the trade record and the lifetime sold counter
// commit as one transaction; the price recompute runs after the commit and
// a failure there leaves the trade intact with a stale price.
func (s *Service) Sell(ctx context.Context, playerUUID, itemKey string, quantity int64) (SellResult, error) {
	if quantity <= 0 {
		return SellResult{Message: "quantity must be positive"}, nil
	}

	cfg, err := LoadEconomicConfig(ctx, s.db)
	if err != nil {
		return SellResult{}, err
	}
	item, err := s.MarketItem(ctx, itemKey)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return SellResult{Message: "item not available in market"}, nil
		}
		return SellResult{}, err
	}

	if quantity > math.MaxInt64/max(item.CurrentSellPrice, 1) {
		return SellResult{Message: "quantity too large"}, nil
	}
	gross := item.CurrentSellPrice * quantity
	fees := cfg.MarketSaleFees(gross)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return SellResult{}, fmt.Errorf("begin sell tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE accounts SET wallet = wallet + $1 WHERE player_uuid = $2
	`, fees.Net, playerUUID)
	if err != nil {
		return SellResult{}, fmt.Errorf("credit wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return SellResult{}, ErrAccountNotFound
	}

	var tradeID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO trade_records (player_uuid, item_key, direction, quantity, price_per_unit, total_amount, price_multiplier)
		VALUES ($1, $2, 'SELL', $3, $4, $5, $6)
		RETURNING id
	`, playerUUID, itemKey, quantity, item.CurrentSellPrice, gross, item.PriceMultiplier).Scan(&tradeID)
	if err != nil {
		return SellResult{}, fmt.Errorf("record trade: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE market_items SET total_sold = total_sold + $1 WHERE item_key = $2
	`, quantity, itemKey); err != nil {
		return SellResult{}, fmt.Errorf("bump total_sold: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return SellResult{}, fmt.Errorf("commit sell tx: %w", err)
	}

	newPrice, err := s.pricing.ApplyTrade(ctx, itemKey, DirectionSell, quantity, tradeID)
	if err != nil {
		s.log.Warn("price update failed after sale, returning stale price",
			"item_key", itemKey, "trade_id", tradeID, "err", err)
		newPrice = item.CurrentSellPrice
	}

	account, err := s.AccountByUUID(ctx, playerUUID)
	if err != nil {
		return SellResult{}, err
	}
	return SellResult{
		Success:        true,
		Message:        fmt.Sprintf("sold %s x%d", itemKey, quantity),
		GrossEarned:    fees.Gross,
		TransactionFee: fees.TransactionFee,
		VAT:            fees.VAT,
		NetEarned:      fees.Net,
		PricePerUnit:   item.CurrentSellPrice,
		NewWallet:      account.Wallet,
		NewBank:        account.Bank,
		NewItemPrice:   newPrice,
	}, nil
}

// Buy purchases quantity of an item at the current buy price, paid from the
// wallet. The debit is guarded by the wallet balance in the same UPDATE, so
// a buy can never overdraw.
func (s *Service) Buy(ctx context.Context, playerUUID, itemKey string, quantity int64) (BuyResult, error) {
	if quantity <= 0 {
		return BuyResult{Message: "quantity must be positive"}, nil
	}

	item, err := s.MarketItem(ctx, itemKey)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return BuyResult{Message: "item not available in market"}, nil
		}
		return BuyResult{}, err
	}

	if quantity > math.MaxInt64/max(item.CurrentBuyPrice, 1) {
		return BuyResult{Message: "quantity too large"}, nil
	}
	cost := item.CurrentBuyPrice * quantity

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return BuyResult{}, fmt.Errorf("begin buy tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE accounts SET wallet = wallet - $1 WHERE player_uuid = $2 AND wallet >= $1
	`, cost, playerUUID)
	if err != nil {
		return BuyResult{}, fmt.Errorf("debit wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		account, err := s.AccountByUUID(ctx, playerUUID)
		if err != nil {
			return BuyResult{}, err
		}
		return BuyResult{
			Message:      fmt.Sprintf("insufficient funds in wallet (have %d, need %d)", account.Wallet, cost),
			TotalCost:    cost,
			PricePerUnit: item.CurrentBuyPrice,
			Quantity:     quantity,
		}, nil
	}

	var tradeID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO trade_records (player_uuid, item_key, direction, quantity, price_per_unit, total_amount, price_multiplier)
		VALUES ($1, $2, 'BUY', $3, $4, $5, $6)
		RETURNING id
	`, playerUUID, itemKey, quantity, item.CurrentBuyPrice, cost, item.PriceMultiplier).Scan(&tradeID)
	if err != nil {
		return BuyResult{}, fmt.Errorf("record trade: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE market_items SET total_bought = total_bought + $1 WHERE item_key = $2
	`, quantity, itemKey); err != nil {
		return BuyResult{}, fmt.Errorf("bump total_bought: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return BuyResult{}, fmt.Errorf("commit buy tx: %w", err)
	}

	newPrice, err := s.pricing.ApplyTrade(ctx, itemKey, DirectionBuy, quantity, tradeID)
	if err != nil {
		s.log.Warn("price update failed after purchase, returning stale price",
			"item_key", itemKey, "trade_id", tradeID, "err", err)
		newPrice = item.CurrentSellPrice
	}

	account, err := s.AccountByUUID(ctx, playerUUID)
	if err != nil {
		return BuyResult{}, err
	}
	return BuyResult{
		Success:      true,
		Message:      fmt.Sprintf("bought %s x%d", itemKey, quantity),
		TotalCost:    cost,
		PricePerUnit: item.CurrentBuyPrice,
		Quantity:     quantity,
		NewWallet:    account.Wallet,
		NewBank:      account.Bank,
		NewItemPrice: newPrice,
	}, nil
}

func (s *Service) MarketItem(ctx context.Context, itemKey string) (MarketItem, error) {
	var m MarketItem
	err := s.db.QueryRow(ctx, `
		SELECT id, item_key, item_name, base_price, current_sell_price, current_buy_price, total_sold, total_bought, price_multiplier
		FROM market_items
		WHERE item_key = $1
	`, itemKey).Scan(&m.ID, &m.ItemKey, &m.ItemName, &m.BasePrice, &m.CurrentSellPrice, &m.CurrentBuyPrice, &m.TotalSold, &m.TotalBought, &m.PriceMultiplier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m, ErrItemNotFound
		}
		return m, fmt.Errorf("read market item: %w", err)
	}
	return m, nil
}

func (s *Service) MarketItems(ctx context.Context) ([]MarketItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, item_key, item_name, base_price, current_sell_price, current_buy_price, total_sold, total_bought, price_multiplier
		FROM market_items
		ORDER BY item_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list market items: %w", err)
	}
	defer rows.Close()

	var out []MarketItem
	for rows.Next() {
		var m MarketItem
		if err := rows.Scan(&m.ID, &m.ItemKey, &m.ItemName, &m.BasePrice, &m.CurrentSellPrice, &m.CurrentBuyPrice, &m.TotalSold, &m.TotalBought, &m.PriceMultiplier); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Service) MarketItemsLight(ctx context.Context) ([]MarketItemLight, error) {
	rows, err := s.db.Query(ctx, `
		SELECT item_key, current_sell_price, price_multiplier
		FROM market_items
		ORDER BY item_key
	`)
	if err != nil {
		return nil, fmt.Errorf("list market prices: %w", err)
	}
	defer rows.Close()

	var out []MarketItemLight
	for rows.Next() {
		var m MarketItemLight
		if err := rows.Scan(&m.ItemKey, &m.CurrentSellPrice, &m.PriceMultiplier); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
