package indicators

import (
	"errors"
	"math"
	"testing"

	"tradebot/internal/domain"
)

func TestSupportResistance(t *testing.T) {
	prices := []float64{105, 98, 110, 101, 97.5, 108}

	support, resistance, err := SupportResistance(prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if support != 97.5 {
		t.Errorf("support = %v, want 97.5", support)
	}
	if resistance != 110 {
		t.Errorf("resistance = %v, want 110", resistance)
	}
}

func TestSupportResistanceEmpty(t *testing.T) {
	support, resistance, err := SupportResistance(nil)
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("err = %v, want ErrInsufficientData", err)
	}
	if support != 0 || resistance != 0 {
		t.Errorf("got (%v, %v), want zeros", support, resistance)
	}
}

func TestFibonacciLevels(t *testing.T) {
	price := 1000.0
	levels := FibonacciLevels(price)

	want := []float64{764, 618, 500, 382, 236}
	if len(levels) != len(want) {
		t.Fatalf("got %d levels, want %d", len(levels), len(want))
	}
	for i, w := range want {
		if math.Abs(levels[i]-w) > 1e-9 {
			t.Errorf("level[%d] = %v, want %v", i, levels[i], w)
		}
	}

	// Deeper retracements give lower levels.
	for i := 1; i < len(levels); i++ {
		if levels[i] >= levels[i-1] {
			t.Errorf("levels not strictly decreasing at %d: %v >= %v", i, levels[i], levels[i-1])
		}
	}
}
