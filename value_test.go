// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"math"
	"testing"

	"github.com/vdobler/dynahist/estimate"
)

func TestGetValueBoundaryRanksAreExact(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 10, 20, 30})
	h := NewDynamicHistogram(l)
	values := []float64{-7, 3, 13, 13, 23, 99}
	for _, v := range values {
		if err := h.AddValue(v); err != nil {
			t.Fatal(err)
		}
	}
	for _, est := range []estimate.ValueEstimator{estimate.LowerBound, estimate.UpperBound, estimate.MidPoint} {
		first, err := GetValue(h, 0, est)
		if err != nil {
			t.Fatalf("GetValue(0): %v", err)
		}
		if first != -7 {
			t.Errorf("GetValue(0, %v) = %v, want exact min -7", est, first)
		}
		last, err := GetValue(h, int64(len(values)-1), est)
		if err != nil {
			t.Fatalf("GetValue(n-1): %v", err)
		}
		if last != 99 {
			t.Errorf("GetValue(n-1, %v) = %v, want exact max 99", est, last)
		}
	}
}

func TestGetValueRejectsOutOfRangeRank(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 10})
	h := NewDynamicHistogram(l)
	if err := h.AddValue(5); err != nil {
		t.Fatal(err)
	}
	if _, err := GetValue(h, -1, estimate.LowerBound); err == nil {
		t.Error("GetValue(-1): want error")
	}
	if _, err := GetValue(h, 1, estimate.LowerBound); err == nil {
		t.Error("GetValue(1) on a 1-value histogram: want error")
	}
}

func TestGetValueOnEmptyHistogram(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 10})
	h := NewDynamicHistogram(l)
	if _, err := GetValue(h, 0, estimate.LowerBound); err == nil {
		t.Error("GetValue on empty histogram: want error")
	}
}

func TestGetQuantileOnEmptyHistogramReturnsNaN(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 10})
	h := NewDynamicHistogram(l)
	q, err := GetQuantile(h, 0.5)
	if err != nil {
		t.Fatalf("GetQuantile on empty histogram: %v", err)
	}
	if !math.IsNaN(q) {
		t.Errorf("GetQuantile on empty histogram = %v, want NaN", q)
	}
}

func TestGetQuantileMonotoneInP(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100})
	h := NewDynamicHistogram(l)
	for i := 0; i < 100; i++ {
		if err := h.AddValue(float64(i)); err != nil {
			t.Fatal(err)
		}
	}
	var prev float64 = math.Inf(-1)
	for _, p := range []float64{0, 0.1, 0.25, 0.4, 0.5, 0.6, 0.75, 0.9, 1.0} {
		q, err := GetQuantile(h, p)
		if err != nil {
			t.Fatalf("GetQuantile(%v): %v", p, err)
		}
		if q < prev {
			t.Errorf("GetQuantile not monotone: p=%v got %v, previous was %v", p, q, prev)
		}
		prev = q
	}
}

func TestGetQuantileStaysWithinMinMax(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 10, 20})
	h := NewDynamicHistogram(l)
	values := []float64{-5, 5, 15, 25}
	for _, v := range values {
		if err := h.AddValue(v); err != nil {
			t.Fatal(err)
		}
	}
	min, _ := h.Min()
	max, _ := h.Max()
	for _, p := range []float64{0, 0.01, 0.5, 0.99, 1} {
		q, err := GetQuantile(h, p)
		if err != nil {
			t.Fatalf("GetQuantile(%v): %v", p, err)
		}
		if q < min || q > max {
			t.Errorf("GetQuantile(%v) = %v, want within [%v, %v]", p, q, min, max)
		}
	}
}

// TestQuantileRankSingleValue pins QuantileRank's n<=1 special case: the
// single value's rank is returned regardless of p.
func TestQuantileRankSingleValue(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 10})
	h := NewDynamicHistogram(l)
	if err := h.AddValue(42); err != nil {
		t.Fatal(err)
	}
	for _, p := range []float64{0, 0.3, 1} {
		q, err := GetQuantile(h, p)
		if err != nil {
			t.Fatal(err)
		}
		if q != 42 {
			t.Errorf("GetQuantile(%v) on single-value histogram = %v, want 42", p, q)
		}
	}
}
