package indicators

const (
	shortWindow = 50
	longWindow  = 200
)

// SMA computes the trailing simple moving average. Entries before the window
// has filled are zero.
func SMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// Crossover computes the SMA50/SMA200 crossover series.
//
// signal[i] is 1 when SMA50 is above SMA200, defined only from index 200
// onward (earlier indices stay 0). position is the first difference of
// signal: +1 marks a bullish cross, -1 a bearish cross, 0 everywhere else.
func Crossover(closes []float64) (signal, position []int) {
	signal = make([]int, len(closes))
	position = make([]int, len(closes))
	if len(closes) <= longWindow {
		return signal, position
	}

	sma50 := SMA(closes, shortWindow)
	sma200 := SMA(closes, longWindow)

	for i := longWindow; i < len(closes); i++ {
		if sma50[i] > sma200[i] {
			signal[i] = 1
		}
	}
	for i := 1; i < len(closes); i++ {
		position[i] = signal[i] - signal[i-1]
	}
	return signal, position
}
