package core

import (
	"math"
	"testing"
)

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		name               string
		val, min, max, exp float64
	}{
		{"within", 5.5, 0, 9, 5.5},
		{"below", -5.5, 0, 9, 0},
		{"above", 15.5, 0, 9, 9},
		{"positive infinity", math.Inf(1), 0, 9, 9},
		{"negative infinity", math.Inf(-1), 0, 9, 0},
		{"nan", math.NaN(), 0, 9, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampF(tc.val, tc.min, tc.max); got != tc.exp {
				t.Errorf("ClampF(%v, %v, %v) = %v, expected %v", tc.val, tc.min, tc.max, got, tc.exp)
			}
		})
	}
}

func TestMax(t *testing.T) {
	if Max(5, 10) != 10 {
		t.Error("Max(5, 10) should be 10")
	}
	if Max(10, 5) != 10 {
		t.Error("Max(10, 5) should be 10")
	}
}
