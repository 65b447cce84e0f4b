// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import "testing"

func buildSample(t *testing.T) *DynamicHistogram {
	t.Helper()
	l := mustCustomLayout(t, []float64{-100, -10, 0, 10, 100})
	h := NewDynamicHistogram(l)
	for _, v := range []float64{-1000, -50, -50, -5, 0, 5, 5, 50, 1000} {
		if err := h.AddValue(v); err != nil {
			t.Fatalf("AddValue(%v): %v", v, err)
		}
	}
	return h
}

func TestPreprocessMatchesSource(t *testing.T) {
	h := buildSample(t)
	p, err := Preprocess(h)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if p.TotalCount() != h.TotalCount() {
		t.Fatalf("TotalCount = %d, want %d", p.TotalCount(), h.TotalCount())
	}
	if p.CanonicalHash() != h.CanonicalHash() {
		t.Errorf("CanonicalHash mismatch between source and preprocessed snapshot")
	}
	for rank := int64(0); rank < h.TotalCount(); rank++ {
		wantBin, err := h.GetBinByRank(rank)
		if err != nil {
			t.Fatalf("source GetBinByRank(%d): %v", rank, err)
		}
		gotBin, err := p.GetBinByRank(rank)
		if err != nil {
			t.Fatalf("preprocessed GetBinByRank(%d): %v", rank, err)
		}
		if wantBin.BinIndex() != gotBin.BinIndex() || wantBin.Count() != gotBin.Count() {
			t.Errorf("rank %d: got bin (%d,%d), want (%d,%d)",
				rank, gotBin.BinIndex(), gotBin.Count(), wantBin.BinIndex(), wantBin.Count())
		}
	}
}

func TestPreprocessedIsImmutable(t *testing.T) {
	h := buildSample(t)
	p, err := Preprocess(h)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if err := p.AddValue(1); err == nil {
		t.Error("AddValue on PreprocessedHistogram: want ErrUnsupported")
	}
	if err := p.AddValues(1, 1); err == nil {
		t.Error("AddValues on PreprocessedHistogram: want ErrUnsupported")
	}
	if err := p.AddHistogram(h); err == nil {
		t.Error("AddHistogram on PreprocessedHistogram: want ErrUnsupported")
	}
	if err := p.AddAscendingSequence(func(int64) float64 { return 0 }, 1); err == nil {
		t.Error("AddAscendingSequence on PreprocessedHistogram: want ErrUnsupported")
	}
}

func TestPreprocessSurvivesSourceMutation(t *testing.T) {
	h := buildSample(t)
	p, err := Preprocess(h)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	before := p.TotalCount()
	if err := h.AddValue(42); err != nil {
		t.Fatal(err)
	}
	if p.TotalCount() != before {
		t.Errorf("preprocessed snapshot changed after mutating its source: %d -> %d", before, p.TotalCount())
	}
}

func TestPreprocessEmpty(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1})
	h := NewDynamicHistogram(l)
	p, err := Preprocess(h)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if p.TotalCount() != 0 {
		t.Errorf("TotalCount = %d, want 0", p.TotalCount())
	}
	if _, err := p.Min(); err == nil {
		t.Error("Min on empty preprocessed histogram: want ErrEmpty")
	}
}
