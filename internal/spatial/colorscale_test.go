package spatial

import (
	"errors"
	"testing"
)

func TestColorRange(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		// Descending on purpose: ColorRange must not rely on input order.
		values[i] = float64(100 - i)
	}
	values[0] = 1e6

	lo, hi, err := ColorRange(values, DefaultColorLow, DefaultColorHigh)
	if err != nil {
		t.Fatalf("ColorRange() error = %v", err)
	}
	if lo != 2 {
		t.Errorf("lo = %v, want 2", lo)
	}
	if hi != 98 {
		t.Errorf("hi = %v, want 98", hi)
	}
	if values[0] != 1e6 {
		t.Error("input was modified")
	}
}

func TestColorRange_Errors(t *testing.T) {
	if _, _, err := ColorRange(nil, 0.02, 0.98); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if _, _, err := ColorRange([]float64{1}, 0.9, 0.1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}
