package usecase

import (
	"math"
	"testing"
)

func TestNetProfit(t *testing.T) {
	tests := []struct {
		name                string
		buy, sell, qty      float64
		maker, taker        float64
		want                float64
	}{
		{"flat price loses the fees", 100, 100, 1, 0.001, 0.001, -0.2},
		{"gain net of fees", 100, 110, 1, 0.001, 0.001, 9.79},
		{"no fees", 100, 110, 1, 0, 0, 10},
		{"quantity scales linearly", 100, 110, 2, 0.001, 0.001, 19.58},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NetProfit(tt.buy, tt.sell, tt.qty, tt.maker, tt.taker)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NetProfit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsProfitable(t *testing.T) {
	// A 0.2% round trip on a flat price is always a loss.
	if IsProfitable(100, 100, 1, 0.001, 0.001) {
		t.Error("flat price with fees should not be profitable")
	}
	if !IsProfitable(100, 110, 1, 0.001, 0.001) {
		t.Error("10%% gain with 0.2%% fees should be profitable")
	}
	// Break-even is not profit.
	if IsProfitable(100, 100, 1, 0, 0) {
		t.Error("zero net should not count as profitable")
	}
}
