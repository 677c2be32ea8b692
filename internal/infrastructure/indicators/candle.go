package indicators

// IsHammer reports whether a candle forms a hammer pattern: a close above the
// open with an upper wick shorter than a fifth of the lower body range.
func IsHammer(open, close, low, high float64) bool {
	return close > open && (high-close) < (close-low)*0.2
}
