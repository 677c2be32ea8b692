package indicators

import "testing"

func TestIsHammer(t *testing.T) {
	tests := []struct {
		name                   string
		open, close, low, high float64
		want                   bool
	}{
		{"long lower wick short upper", 100, 102, 90, 102.5, true},
		{"bearish candle", 102, 100, 90, 103, false},
		{"upper wick too long", 100, 102, 90, 110, false},
		{"doji", 100, 100, 95, 105, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHammer(tt.open, tt.close, tt.low, tt.high); got != tt.want {
				t.Errorf("IsHammer(%v, %v, %v, %v) = %v, want %v",
					tt.open, tt.close, tt.low, tt.high, got, tt.want)
			}
		})
	}
}
