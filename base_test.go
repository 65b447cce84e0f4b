// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"errors"
	"math"
	"testing"
)

func TestAddValueRejectsNaN(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1})
	h := NewDynamicHistogram(l)
	err := h.AddValue(math.NaN())
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("AddValue(NaN) error = %v, want ErrInvalidValue", err)
	}
}

func TestAddValuesRejectsNegativeCount(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1})
	h := NewDynamicHistogram(l)
	err := h.AddValues(1, -1)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("AddValues(x, -1) error = %v, want ErrInvalidArgument", err)
	}
}

func TestAddValuesOverflowDetectedBeforeMutation(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1})
	h := NewDynamicHistogram(l)
	if err := h.AddValues(5, math.MaxInt64); err != nil {
		t.Fatalf("AddValues: %v", err)
	}
	err := h.AddValue(5)
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("AddValue after filling to MaxInt64: error = %v, want ErrOverflow", err)
	}
	if h.TotalCount() != math.MaxInt64 {
		t.Errorf("TotalCount mutated despite overflow: %d", h.TotalCount())
	}
}

func TestNegativeZeroPreservedAsMinAndMax(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1})
	h := NewDynamicHistogram(l)
	negZero := math.Copysign(0, -1)
	if err := h.AddValue(negZero); err != nil {
		t.Fatal(err)
	}
	min, _ := h.Min()
	max, _ := h.Max()
	if !math.Signbit(min) || !math.Signbit(max) {
		t.Errorf("min=%v max=%v, want both to carry the negative sign bit", min, max)
	}
	// Observing +0.0 afterwards must not disturb min, but must raise max.
	if err := h.AddValue(0); err != nil {
		t.Fatal(err)
	}
	min, _ = h.Min()
	max, _ = h.Max()
	if !math.Signbit(min) {
		t.Errorf("min lost its negative sign after observing +0.0: %v", min)
	}
	if math.Signbit(max) {
		t.Errorf("max did not pick up +0.0's positive sign: %v", max)
	}
}

func TestGetBinByRankOutOfRange(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1})
	h := NewDynamicHistogram(l)
	if err := h.AddValue(0.5); err != nil {
		t.Fatal(err)
	}
	if _, err := h.GetBinByRank(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("GetBinByRank(-1) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := h.GetBinByRank(1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("GetBinByRank(1) error = %v, want ErrInvalidArgument", err)
	}
}

func TestFirstNonEmptyBinOnEmptyHistogram(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1})
	h := NewDynamicHistogram(l)
	if _, err := h.FirstNonEmptyBin(); !errors.Is(err, ErrEmpty) {
		t.Errorf("FirstNonEmptyBin on empty histogram: error = %v, want ErrEmpty", err)
	}
}

func TestAddAscendingSequenceMatchesIndividualAdds(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 10, 20, 30, 40})
	sequence := []float64{1, 1, 1, 15, 22, 22, 39, 39, 39, 39}

	viaSequence := NewDynamicHistogram(l)
	if err := viaSequence.AddAscendingSequence(func(i int64) float64 { return sequence[i] }, int64(len(sequence))); err != nil {
		t.Fatalf("AddAscendingSequence: %v", err)
	}

	viaIndividual := NewDynamicHistogram(l)
	for _, v := range sequence {
		if err := viaIndividual.AddValue(v); err != nil {
			t.Fatal(err)
		}
	}

	if viaSequence.CanonicalHash() != viaIndividual.CanonicalHash() {
		t.Errorf("AddAscendingSequence state diverged from equivalent individual AddValue calls")
	}
}

func TestAddAscendingSequenceRejectsNaN(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1})
	h := NewDynamicHistogram(l)
	err := h.AddAscendingSequence(func(int64) float64 { return math.NaN() }, 1)
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("AddAscendingSequence with NaN: error = %v, want ErrInvalidValue", err)
	}
}

func TestAddHistogramSameLayout(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 10, 20, 30})
	a := NewDynamicHistogram(l)
	for _, v := range []float64{1, 15, 25} {
		if err := a.AddValue(v); err != nil {
			t.Fatal(err)
		}
	}
	b := NewDynamicHistogram(l)
	for _, v := range []float64{2, 16, 100} {
		if err := b.AddValue(v); err != nil {
			t.Fatal(err)
		}
	}
	combined := NewDynamicHistogram(l)
	for _, v := range []float64{1, 15, 25, 2, 16, 100} {
		if err := combined.AddValue(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.AddHistogram(b); err != nil {
		t.Fatalf("AddHistogram: %v", err)
	}
	if a.CanonicalHash() != combined.CanonicalHash() {
		t.Errorf("AddHistogram (same layout) did not reproduce replaying all values into one histogram")
	}
}

func TestAddHistogramDifferentLayout(t *testing.T) {
	la := mustCustomLayout(t, []float64{0, 10, 20, 30})
	lb := mustCustomLayout(t, []float64{0, 5, 15, 25, 35})
	a := NewDynamicHistogram(la)
	for _, v := range []float64{1, 15, 25} {
		if err := a.AddValue(v); err != nil {
			t.Fatal(err)
		}
	}
	b := NewDynamicHistogram(lb)
	for _, v := range []float64{2, 16, 26} {
		if err := b.AddValue(v); err != nil {
			t.Fatal(err)
		}
	}
	beforeTotal := a.TotalCount()
	if err := a.AddHistogram(b); err != nil {
		t.Fatalf("AddHistogram: %v", err)
	}
	if a.TotalCount() != beforeTotal+b.TotalCount() {
		t.Errorf("TotalCount after cross-layout merge = %d, want %d", a.TotalCount(), beforeTotal+b.TotalCount())
	}
	min, _ := a.Min()
	max, _ := a.Max()
	if min != 1 {
		t.Errorf("min after cross-layout merge = %v, want 1 (exact, from boundary rule)", min)
	}
	if max != 26 {
		t.Errorf("max after cross-layout merge = %v, want 26 (exact, from boundary rule)", max)
	}
}

func TestAddHistogramOverflowRollsBack(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1})
	a := NewDynamicHistogram(l)
	if err := a.AddValues(0.5, math.MaxInt64-1); err != nil {
		t.Fatal(err)
	}
	b := NewDynamicHistogram(l)
	if err := b.AddValues(0.5, 2); err != nil {
		t.Fatal(err)
	}
	before := a.TotalCount()
	err := a.AddHistogram(b)
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("AddHistogram overflow: error = %v, want ErrOverflow", err)
	}
	if a.TotalCount() != before {
		t.Errorf("TotalCount changed despite overflow rollback: %d -> %d", before, a.TotalCount())
	}
}

func TestCountConservation(t *testing.T) {
	l := mustCustomLayout(t, []float64{-50, -10, 0, 10, 50})
	h := NewDynamicHistogram(l)
	values := []float64{-100, -100, -20, -5, 0, 5, 5, 20, 100}
	for _, v := range values {
		if err := h.AddValue(v); err != nil {
			t.Fatal(err)
		}
	}
	sum := h.UnderflowCount() + h.OverflowCount()
	it, err := h.FirstNonEmptyBin()
	if err == nil {
		for {
			b := it.Bin()
			if !b.IsUnderflowBin() && !b.IsOverflowBin() {
				sum += b.Count()
			}
			if err := it.Next(); err != nil {
				break
			}
		}
	}
	if sum != h.TotalCount() {
		t.Errorf("sum of bin counts = %d, want TotalCount %d", sum, h.TotalCount())
	}
}
