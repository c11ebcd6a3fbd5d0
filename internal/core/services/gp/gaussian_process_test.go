package gp

import (
	"math"
	"testing"
)

func TestPredictWithNoDataReturnsNeutral(t *testing.T) {
	p := New(0.5, 0.1)
	mean, variance := p.Predict([]float64{0.5})
	if mean != 0 || variance != 1 {
		t.Fatalf("expected neutral (0,1), got (%v,%v)", mean, variance)
	}
}

func TestFitPredictRecoversTrainingPoints(t *testing.T) {
	p := New(0.3, 0.01)
	x := [][]float64{{0.0}, {0.5}, {1.0}}
	y := []float64{0.0, 1.0, 0.0}
	p.Fit(x, y)

	mean, _ := p.Predict([]float64{0.5})
	if math.Abs(mean-1.0) > 0.2 {
		t.Fatalf("expected prediction near training value 1.0 at trained point, got %v", mean)
	}
}

func TestPredictVarianceNonNegative(t *testing.T) {
	p := New(0.5, 0.1)
	p.Fit([][]float64{{0.1}, {0.9}}, []float64{0.2, 0.8})
	for _, xv := range []float64{0.0, 0.3, 0.5, 0.7, 1.0} {
		_, variance := p.Predict([]float64{xv})
		if variance < 0 {
			t.Fatalf("variance must never be negative, got %v at x=%v", variance, xv)
		}
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	p := New(0.4, 0.05)
	p.Fit([][]float64{{0.2, 0.3}, {0.6, 0.1}}, []float64{0.3, 0.7})

	m1, v1 := p.Predict([]float64{0.4, 0.2})
	m2, v2 := p.Predict([]float64{0.4, 0.2})
	if m1 != m2 || v1 != v2 {
		t.Fatalf("expected deterministic predict, got (%v,%v) vs (%v,%v)", m1, v1, m2, v2)
	}
}
