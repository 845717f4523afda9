package economy

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSupplyDemandRatio(t *testing.T) {
	tests := []struct {
		name  string
		sales float64
		buys  float64
		want  float64
	}{
		{"balanced volume", 100, 100, 1.0},
		{"glut", 300, 100, 3.0},
		{"scarcity", 50, 200, 0.25},
		{"sales only counts as glut", 64, 0, 2.0},
		{"dead market is neutral", 0, 0, 1.0},
		{"buys only", 0, 64, 0.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := supplyDemandRatio(tc.sales, tc.buys); !almostEqual(got, tc.want) {
				t.Fatalf("supplyDemandRatio(%v, %v) = %v, want %v", tc.sales, tc.buys, got, tc.want)
			}
		})
	}
}

func TestTradeDelta(t *testing.T) {
	// One reference lot sold under a balanced market.
	if got := tradeDelta(DirectionSell, 64, 1.0); !almostEqual(got, -0.03) {
		t.Fatalf("sell delta = %v, want -0.03", got)
	}
	// One reference lot bought under a balanced market.
	if got := tradeDelta(DirectionBuy, 64, 1.0); !almostEqual(got, 0.03) {
		t.Fatalf("buy delta = %v, want 0.03", got)
	}
	// A glut makes selling hurt more.
	if got := tradeDelta(DirectionSell, 64, 2.0); !almostEqual(got, -0.04) {
		t.Fatalf("sell delta under glut = %v, want -0.04", got)
	}
	// Scarcity makes buying push harder; the ratio floor caps the boost.
	if got := tradeDelta(DirectionBuy, 64, 0.05); !almostEqual(got, 0.02*(1.0+5.0)) {
		t.Fatalf("buy delta under scarcity = %v, want 0.12", got)
	}
	// Half a lot moves half as much.
	if got := tradeDelta(DirectionSell, 32, 1.0); !almostEqual(got, -0.015) {
		t.Fatalf("half-lot sell delta = %v, want -0.015", got)
	}
}

// First-ever sale of one reference lot: the volume window predates the trade
// being priced, so both volumes are zero and the ratio is neutral.
func TestFirstSaleWorkedExample(t *testing.T) {
	ratio := supplyDemandRatio(0, 0)
	if !almostEqual(ratio, 1.0) {
		t.Fatalf("ratio = %v, want 1.0", ratio)
	}
	next := nextMultiplier(1.0, DirectionSell, 64, ratio)
	// 1.0 - 0.03, then pulled toward 1.0 by 0.001 of the distance.
	if !almostEqual(next, 0.97003) {
		t.Fatalf("next multiplier = %v, want 0.97003", next)
	}
	sell, buy := derivedPrices(100, next)
	if sell != 97 {
		t.Fatalf("sell price = %d, want 97", sell)
	}
	if buy != 155 {
		t.Fatalf("buy price = %d, want 155", buy)
	}
}

func TestNextMultiplierClamps(t *testing.T) {
	// Ten lots dumped under a glut smash through the floor.
	if got := nextMultiplier(0.12, DirectionSell, 640, 2.0); got != MinMultiplier {
		t.Fatalf("floor clamp: got %v, want %v", got, MinMultiplier)
	}
	// Ten lots bought under scarcity pin the ceiling.
	if got := nextMultiplier(3.95, DirectionBuy, 640, 0.1); got != MaxMultiplier {
		t.Fatalf("ceiling clamp: got %v, want %v", got, MaxMultiplier)
	}
}

func TestDecayMultiplier(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"neutral stays put", 1.0, 1.0},
		{"depressed recovers a tenth", 0.5, 0.55},
		{"inflated comes down", 2.0, 1.9},
		{"near ceiling decays normally", 3.2, 2.98},
		{"above ceiling is capped", 3.5, 3.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := decayMultiplier(tc.in); !almostEqual(got, tc.want) {
				t.Fatalf("decayMultiplier(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestDerivedPricesConsistent(t *testing.T) {
	for _, base := range []int64{1, 12, 100, 420, 900, 2400} {
		for _, mult := range []float64{MinMultiplier, 0.5, 1.0, 1.73, MaxMultiplier} {
			sell, buy := derivedPrices(base, mult)
			wantSell := int64(math.Round(float64(base) * mult))
			wantBuy := int64(math.Round(float64(base) * mult * BuySpread))
			if sell != wantSell || buy != wantBuy {
				t.Fatalf("derivedPrices(%d, %v) = (%d, %d), want (%d, %d)", base, mult, sell, buy, wantSell, wantBuy)
			}
			if sell < 0 || buy < sell {
				t.Fatalf("derivedPrices(%d, %v): buy %d below sell %d", base, mult, buy, sell)
			}
		}
	}
}
