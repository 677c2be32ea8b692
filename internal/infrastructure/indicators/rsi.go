package indicators

import "tradebot/internal/domain"

// RSI computes the relative strength index of the series.
//
// Per-step gains and losses are summed over the entire series and each sum is
// divided by the period; this is deliberately not a rolling window, matching
// the behavior this strategy has always been tuned against. Returns 100 when
// the series has no losses, and (0, ErrInsufficientData) when the series is
// shorter than the period.
func RSI(prices []float64, period int) (float64, error) {
	if period <= 0 || len(prices) < period {
		return 0, domain.ErrInsufficientData
	}

	var gains, losses float64
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs)), nil
}
