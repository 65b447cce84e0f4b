// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"testing"

	"github.com/vdobler/dynahist/layout"
)

func mustCustomLayout(t *testing.T, cutPoints []float64) layout.Layout {
	t.Helper()
	l, err := layout.NewCustomLayout(cutPoints)
	if err != nil {
		t.Fatalf("NewCustomLayout: %v", err)
	}
	return l
}

func TestDynamicHistogramBasic(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 10, 20, 30})
	h := NewDynamicHistogram(l)
	for _, v := range []float64{-5, 1, 1, 15, 25, 100} {
		if err := h.AddValue(v); err != nil {
			t.Fatalf("AddValue(%v): %v", v, err)
		}
	}
	if got := h.TotalCount(); got != 6 {
		t.Fatalf("TotalCount = %d, want 6", got)
	}
	min, _ := h.Min()
	max, _ := h.Max()
	if min != -5 || max != 100 {
		t.Errorf("min,max = %v,%v want -5,100", min, max)
	}
	if got := h.Count(1); got != 2 {
		t.Errorf("Count(1) = %d, want 2 (both 1s land in bin 1)", got)
	}
}

func TestDynamicHistogramModeWidening(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 100})
	h := NewDynamicHistogram(l)
	// Push one bin's count well past the 1-bit counter width (mode 0)
	// to force repeated widening.
	for i := 0; i < 1000; i++ {
		if err := h.AddValue(50); err != nil {
			t.Fatalf("AddValue: %v", err)
		}
	}
	if got := h.Count(1); got != 1000 {
		t.Errorf("Count(1) = %d, want 1000", got)
	}
	if h.Mode() < 4 {
		t.Errorf("Mode() = %d, want at least 4 to hold 1000 in one counter", h.Mode())
	}
}

func TestDynamicHistogramGrowsOutward(t *testing.T) {
	l := mustCustomLayout(t, []float64{-1000, -500, 0, 500, 1000})
	h := NewDynamicHistogram(l)
	values := []float64{-750, -250, 250, 750}
	for _, v := range values {
		if err := h.AddValue(v); err != nil {
			t.Fatalf("AddValue(%v): %v", v, err)
		}
	}
	it, err := h.FirstNonEmptyBin()
	if err != nil {
		t.Fatalf("FirstNonEmptyBin: %v", err)
	}
	var seen []int32
	for {
		seen = append(seen, it.Bin().BinIndex())
		if err := it.Next(); err != nil {
			break
		}
	}
	if len(seen) != 4 {
		t.Fatalf("walked %d bins, want 4: %v", len(seen), seen)
	}
}

func TestDynamicHistogramIterationMatchesCounts(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1, 2, 3, 4, 5})
	h := NewDynamicHistogram(l)
	counts := map[int32]int64{1: 3, 3: 1, 5: 7}
	for bin, c := range counts {
		lower := l.BinLowerBound(bin)
		for i := int64(0); i < c; i++ {
			if err := h.AddValue(lower); err != nil {
				t.Fatalf("AddValue: %v", err)
			}
		}
	}
	it, err := h.FirstNonEmptyBin()
	if err != nil {
		t.Fatalf("FirstNonEmptyBin: %v", err)
	}
	got := map[int32]int64{}
	for {
		b := it.Bin()
		got[b.BinIndex()] = b.Count()
		if err := it.Next(); err != nil {
			break
		}
	}
	for bin, want := range counts {
		if got[bin] != want {
			t.Errorf("bin %d count = %d, want %d", bin, got[bin], want)
		}
	}
}
