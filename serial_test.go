// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"bytes"
	"math"
	"testing"
)

func TestWriteHistogramEmpty(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1})
	h := NewDynamicHistogram(l)
	var buf bytes.Buffer
	if err := WriteHistogram(&buf, h); err != nil {
		t.Fatalf("WriteHistogram: %v", err)
	}
	if got := buf.Bytes(); len(got) != 2 || got[0] != 0x00 || got[1] != 0x00 {
		t.Fatalf("encoded empty histogram = % x, want 00 00", got)
	}
	got, err := ReadHistogram(&buf, l)
	if err != nil {
		t.Fatalf("ReadHistogram: %v", err)
	}
	if got.TotalCount() != 0 {
		t.Errorf("TotalCount = %d, want 0", got.TotalCount())
	}
}

// TestWriteHistogramSingleValue exercises the negative-zero single-value
// special mode: exactly 10 bytes, 00 08 followed by the big-endian bits
// of -0.0.
func TestWriteHistogramSingleValue(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1})
	h := NewDynamicHistogram(l)
	if err := h.AddValue(math.Copysign(0, -1)); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteHistogram(&buf, h); err != nil {
		t.Fatalf("WriteHistogram: %v", err)
	}
	want := []byte{0x00, 0x08, 0x80, 0, 0, 0, 0, 0, 0, 0}
	if got := buf.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("encoded single negative-zero histogram = % x, want % x", got, want)
	}
	got, err := ReadHistogram(&buf, l)
	if err != nil {
		t.Fatalf("ReadHistogram: %v", err)
	}
	min, _ := got.Min()
	max, _ := got.Max()
	if !math.Signbit(min) || !math.Signbit(max) {
		t.Errorf("round trip lost the sign of -0.0: min=%v max=%v", min, max)
	}
}

func TestHistogramRoundTrip(t *testing.T) {
	l := mustCustomLayout(t, []float64{-100, -10, 0, 10, 100})
	h := NewDynamicHistogram(l)
	values := []float64{-1000, -1000, -50, -5, 0, 5, 5, 50, 1000}
	for _, v := range values {
		if err := h.AddValue(v); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := WriteHistogram(&buf, h); err != nil {
		t.Fatalf("WriteHistogram: %v", err)
	}
	got, err := ReadHistogram(&buf, l)
	if err != nil {
		t.Fatalf("ReadHistogram: %v", err)
	}
	if got.CanonicalHash() != h.CanonicalHash() {
		t.Errorf("round trip changed CanonicalHash")
	}
	if got.TotalCount() != h.TotalCount() {
		t.Errorf("TotalCount = %d, want %d", got.TotalCount(), h.TotalCount())
	}
	if got.UnderflowCount() != h.UnderflowCount() || got.OverflowCount() != h.OverflowCount() {
		t.Errorf("under/overflow mismatch: got (%d,%d) want (%d,%d)",
			got.UnderflowCount(), got.OverflowCount(), h.UnderflowCount(), h.OverflowCount())
	}
	gotMin, _ := got.Min()
	wantMin, _ := h.Min()
	gotMax, _ := got.Max()
	wantMax, _ := h.Max()
	if gotMin != wantMin || gotMax != wantMax {
		t.Errorf("min,max = %v,%v want %v,%v", gotMin, gotMax, wantMin, wantMax)
	}
}

func TestHistogramRoundTripManyDistinctBins(t *testing.T) {
	l := mustCustomLayout(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	h := NewDynamicHistogram(l)
	for i := 0; i < 9; i++ {
		for c := 0; c < i+1; c++ {
			if err := h.AddValue(float64(i) + 0.5); err != nil {
				t.Fatal(err)
			}
		}
	}
	var buf bytes.Buffer
	if err := WriteHistogram(&buf, h); err != nil {
		t.Fatalf("WriteHistogram: %v", err)
	}
	got, err := ReadHistogram(&buf, l)
	if err != nil {
		t.Fatalf("ReadHistogram: %v", err)
	}
	if got.CanonicalHash() != h.CanonicalHash() {
		t.Errorf("round trip changed CanonicalHash for many-bin histogram")
	}
}

func TestWriteWithLayoutRoundTrip(t *testing.T) {
	l := mustCustomLayout(t, []float64{-5, 0, 5})
	h := NewDynamicHistogram(l)
	for _, v := range []float64{-10, -1, 1, 10} {
		if err := h.AddValue(v); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := WriteWithLayout(&buf, l, h); err != nil {
		t.Fatalf("WriteWithLayout: %v", err)
	}
	gotLayout, gotHist, err := ReadWithLayout(&buf)
	if err != nil {
		t.Fatalf("ReadWithLayout: %v", err)
	}
	if gotLayout.UnderflowBinIndex() != l.UnderflowBinIndex() || gotLayout.OverflowBinIndex() != l.OverflowBinIndex() {
		t.Errorf("layout round trip mismatch")
	}
	if gotHist.CanonicalHash() != h.CanonicalHash() {
		t.Errorf("histogram round trip mismatch")
	}
}

func TestWriteCompressedRoundTrip(t *testing.T) {
	l := mustCustomLayout(t, []float64{-5, 0, 5})
	h := NewDynamicHistogram(l)
	for i := 0; i < 200; i++ {
		if err := h.AddValue(float64(i%10) - 5); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := WriteCompressed(&buf, l, h); err != nil {
		t.Fatalf("WriteCompressed: %v", err)
	}
	gotLayout, gotHist, err := ReadCompressed(&buf)
	if err != nil {
		t.Fatalf("ReadCompressed: %v", err)
	}
	if gotLayout.UnderflowBinIndex() != l.UnderflowBinIndex() {
		t.Errorf("compressed layout round trip mismatch")
	}
	if gotHist.CanonicalHash() != h.CanonicalHash() {
		t.Errorf("compressed histogram round trip mismatch")
	}
}

func TestReadHistogramRejectsBadVersion(t *testing.T) {
	buf := bytes.NewReader([]byte{0x01, 0x00})
	if _, err := ReadHistogram(buf, mustCustomLayout(t, []float64{0, 1})); err == nil {
		t.Error("ReadHistogram with bad version byte: want error")
	}
}
