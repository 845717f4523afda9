package economy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PricingEngine owns the price_multiplier of every market item. Two
// independent paths mutate it: ApplyTrade after each completed trade, and
// DecayAll on the worker's fixed schedule.
type PricingEngine struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewPricingEngine(db *pgxpool.Pool, logger *slog.Logger) *PricingEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &PricingEngine{db: db, log: logger}
}

const maxPriceAttempts = 5

// ApplyTrade recomputes an item's multiplier from the trailing trade volume
// and persists the derived prices. beforeTradeID is the id of the trade
// record that triggered this update; the volume window excludes it, so the
// formula sees the market as it stood when the trade executed.
//
// The write is a compare-and-swap on the stored multiplier. If a concurrent
// trade got its write in first, the state is re-read and the update retried,
// so no trade's price impact is silently lost.
//
// Returns the new sell price.
func (e *PricingEngine) ApplyTrade(ctx context.Context, itemKey string, direction Direction, quantity int64, beforeTradeID int64) (int64, error) {
	for attempt := 0; attempt < maxPriceAttempts; attempt++ {
		var basePrice int64
		var multiplier float64
		err := e.db.QueryRow(ctx, `
			SELECT base_price, price_multiplier
			FROM market_items
			WHERE item_key = $1
		`, itemKey).Scan(&basePrice, &multiplier)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, ErrItemNotFound
			}
			return 0, fmt.Errorf("read item state: %w", err)
		}

		salesVolume, err := e.windowVolume(ctx, itemKey, DirectionSell, beforeTradeID)
		if err != nil {
			return 0, err
		}
		buyVolume, err := e.windowVolume(ctx, itemKey, DirectionBuy, beforeTradeID)
		if err != nil {
			return 0, err
		}

		ratio := supplyDemandRatio(salesVolume, buyVolume)
		next := nextMultiplier(multiplier, direction, quantity, ratio)
		sellPrice, buyPrice := derivedPrices(basePrice, next)

		tag, err := e.db.Exec(ctx, `
			UPDATE market_items
			SET price_multiplier = $1, current_sell_price = $2, current_buy_price = $3
			WHERE item_key = $4 AND price_multiplier = $5
		`, next, sellPrice, buyPrice, itemKey, multiplier)
		if err != nil {
			return 0, fmt.Errorf("persist item price: %w", err)
		}
		if tag.RowsAffected() == 1 {
			e.log.Info("item price updated",
				"item_key", itemKey,
				"direction", string(direction),
				"multiplier", next,
				"sell_price", sellPrice,
				"buy_price", buyPrice,
			)
			return sellPrice, nil
		}
		// Another trade swapped the multiplier underneath us.
	}
	return 0, ErrPriceContention
}

// DecayAll pulls every item's multiplier a tenth of the way back toward 1.0,
// capped at the decay ceiling, and recomputes derived prices in the same
// statement. Returns the number of items touched.
func (e *PricingEngine) DecayAll(ctx context.Context) (int64, error) {
	tag, err := e.db.Exec(ctx, `
		UPDATE market_items SET
			price_multiplier = LEAST(3.0, price_multiplier + (1.0 - price_multiplier) * 0.1),
			current_sell_price = ROUND(base_price * LEAST(3.0, price_multiplier + (1.0 - price_multiplier) * 0.1)),
			current_buy_price = ROUND(base_price * LEAST(3.0, price_multiplier + (1.0 - price_multiplier) * 0.1) * 1.6)
	`)
	if err != nil {
		return 0, fmt.Errorf("decay prices: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (e *PricingEngine) windowVolume(ctx context.Context, itemKey string, direction Direction, beforeTradeID int64) (float64, error) {
	var total int64
	err := e.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM trade_records
		WHERE item_key = $1
		  AND direction = $2
		  AND created_at >= now() - make_interval(secs => $3)
		  AND id < $4
	`, itemKey, string(direction), VolumeWindow.Seconds(), beforeTradeID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum %s volume: %w", direction, err)
	}
	return float64(total), nil
}

// supplyDemandRatio biases price movement by recent sold vs bought volume.
// With no buys the market counts as glutted (2.0) if anything sold, neutral
// (1.0) otherwise.
func supplyDemandRatio(salesVolume, buyVolume float64) float64 {
	switch {
	case buyVolume > 0:
		return salesVolume / buyVolume
	case salesVolume > 0:
		return 2.0
	default:
		return 1.0
	}
}

// tradeDelta is the multiplier change a trade of the given size causes.
// Selling pushes the price down, harder under a glut; buying pushes it up,
// harder under scarcity.
func tradeDelta(direction Direction, quantity int64, ratio float64) float64 {
	volumeFactor := float64(quantity) / ReferenceLotSize
	switch direction {
	case DirectionSell:
		return -TradeImpact * volumeFactor * (1.0 + ratio*0.5)
	case DirectionBuy:
		return TradeImpact * volumeFactor * (1.0 + (1.0/math.Max(ratio, 0.1))*0.5)
	default:
		return 0
	}
}

func nextMultiplier(current float64, direction Direction, quantity int64, ratio float64) float64 {
	m := current + tradeDelta(direction, quantity, ratio)
	m += (1.0 - m) * BaselinePull
	return clampMultiplier(m)
}

// decayMultiplier is the per-tick decay recurrence. DecayAll applies the
// same formula in SQL across all items in one statement; keep the two in
// sync.
func decayMultiplier(m float64) float64 {
	return math.Min(DecayCeiling, m+(1.0-m)*DecayRate)
}

func clampMultiplier(m float64) float64 {
	return math.Max(MinMultiplier, math.Min(MaxMultiplier, m))
}

// derivedPrices computes live prices from the base price and multiplier.
func derivedPrices(basePrice int64, multiplier float64) (sellPrice, buyPrice int64) {
	sellPrice = int64(math.Round(float64(basePrice) * multiplier))
	buyPrice = int64(math.Round(float64(basePrice) * multiplier * BuySpread))
	return sellPrice, buyPrice
}
