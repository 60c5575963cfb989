package stats

import (
	"math"
	"testing"
)

func TestMeanMinMax(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5}

	if got := Mean(values); math.Abs(got-2.8) > 1e-9 {
		t.Errorf("Mean: expected 2.8, got %f", got)
	}
	if got := Min(values); got != 1 {
		t.Errorf("Min: expected 1, got %f", got)
	}
	if got := Max(values); got != 5 {
		t.Errorf("Max: expected 5, got %f", got)
	}

	if Mean(nil) != 0 || Min(nil) != 0 || Max(nil) != 0 {
		t.Errorf("Empty input should yield 0")
	}
}

func TestQuantile(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}

	if got := Quantile(values, 0.5); got != 30 {
		t.Errorf("Median: expected 30, got %f", got)
	}
	if got := Quantile(values, 0); got != 10 {
		t.Errorf("Q0: expected 10, got %f", got)
	}
	if got := Quantile(values, 1); got != 50 {
		t.Errorf("Q1: expected 50, got %f", got)
	}

	// Interpolated between ranks
	if got := Quantile(values, 0.25); got != 20 {
		t.Errorf("Q0.25: expected 20, got %f", got)
	}
	if got := Quantile(values, 0.1); math.Abs(got-14) > 1e-9 {
		t.Errorf("Q0.1: expected 14, got %f", got)
	}
}

func TestPercentiles(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	got := Percentiles(values, []float64{5, 95})
	if len(got) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(got))
	}
	if got[0] >= got[1] {
		t.Errorf("p5 should be below p95: %v", got)
	}
	if got[0] < 1 || got[1] > 10 {
		t.Errorf("Percentiles escaped the value range: %v", got)
	}

	if single := Percentile(values, 50); math.Abs(single-5.5) > 1e-9 {
		t.Errorf("Median of 1..10 should be 5.5, got %f", single)
	}
}
