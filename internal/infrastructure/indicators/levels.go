package indicators

import "tradebot/internal/domain"

// fibRetracements is the fixed retracement set used for entry levels.
var fibRetracements = []float64{0.236, 0.382, 0.5, 0.618, 0.764}

// SupportResistance returns the minimum and maximum of the price series.
// On an empty series it returns zeros and ErrInsufficientData so a thin
// history never produces a false signal.
func SupportResistance(prices []float64) (support, resistance float64, err error) {
	if len(prices) == 0 {
		return 0, 0, domain.ErrInsufficientData
	}

	support, resistance = prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < support {
			support = p
		}
		if p > resistance {
			resistance = p
		}
	}
	return support, resistance, nil
}

// FibonacciLevels computes the retracement levels below the current price,
// one per fraction f in the fixed set, as price * (1 - f), preserving order.
func FibonacciLevels(currentPrice float64) []float64 {
	levels := make([]float64, len(fibRetracements))
	for i, f := range fibRetracements {
		levels[i] = currentPrice * (1 - f)
	}
	return levels
}
