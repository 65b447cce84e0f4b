// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout defines the bijection between real values and the integer
// bin indices a histogram counts against, and the concrete layouts built on
// top of it: three logarithmic-bucketing variants trading construction cost
// for a tighter guaranteed bin count, an OpenTelemetry-compatible
// exponential layout, and a layout over an explicit, caller-supplied set of
// cut points.
//
// Every layout is immutable once constructed and safe to share across
// goroutines and histograms.
package layout

import (
	"io"
	"math"

	"github.com/vdobler/dynahist/internal/algo"
)

// Layout maps real values to integer bin indices such that the resulting
// bin widths are bounded by an absolute or relative error, whichever is
// larger for a given value, and decodes bin indices back to the bounds of
// the value range that maps to them.
type Layout interface {
	// MapToBinIndex returns the bin index value maps into. A NaN maps to
	// an index at or below UnderflowBinIndex or at or above
	// OverflowBinIndex; histograms reject NaN before calling it.
	MapToBinIndex(value float64) int32

	// UnderflowBinIndex returns the index of the layout's catch-all bin
	// for values below the normal range.
	UnderflowBinIndex() int32

	// OverflowBinIndex returns the index of the layout's catch-all bin
	// for values above the normal range.
	OverflowBinIndex() int32

	// BinLowerBound returns the smallest value that maps to binIndex.
	// Returns -Inf if binIndex is at or below UnderflowBinIndex.
	BinLowerBound(binIndex int32) float64

	// BinUpperBound returns the largest value that maps to binIndex.
	// Returns +Inf if binIndex is at or above OverflowBinIndex.
	BinUpperBound(binIndex int32) float64

	// NormalRangeLowerBound returns the lower bound of the range of
	// values not classified as underflow or overflow.
	NormalRangeLowerBound() float64

	// NormalRangeUpperBound returns the upper bound of the range of
	// values not classified as underflow or overflow.
	NormalRangeUpperBound() float64

	// SerialID identifies the concrete layout type in the binary wire
	// format; see package layout's registry.
	SerialID() uint64

	// WritePayload writes the layout-specific fields (everything after
	// the serial id) of the binary wire format to w.
	WritePayload(w ByteWriter) error
}

// ByteWriter is the subset of io.Writer and io.ByteWriter the varint codec
// and fixed-width field writers need.
type ByteWriter interface {
	io.Writer
	io.ByteWriter
}

// ByteReader is the subset of io.Reader and io.ByteReader the varint codec
// and fixed-width field readers need.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// base implements the shared bound-search machinery every concrete layout
// in this package composes with: given nothing but MapToBinIndex and the
// under/overflow indices, BinLowerBound and BinUpperBound are derived by
// binary search over the ordinal domain.
type base struct {
	mapToBinIndex func(float64) int32
	underflow     int32
	overflow      int32
}

func (b *base) UnderflowBinIndex() int32 { return b.underflow }
func (b *base) OverflowBinIndex() int32  { return b.overflow }

// BinLowerBound finds the least ordinal whose mapped bin index is at least
// the effective bin index, i.e. the smallest value that still maps into
// binIndex (or a higher one, which cannot happen once found since the
// search terminates at the boundary).
func (b *base) BinLowerBound(binIndex int32) float64 {
	if binIndex <= b.underflow {
		return math.Inf(-1)
	}
	effective := binIndex
	if b.overflow < effective {
		effective = b.overflow
	}
	pred := func(ord int64) bool {
		return b.mapToBinIndex(algo.OrdToFloat(ord)) >= effective
	}
	ord, ok := algo.FindFirst(pred, algo.NegInfOrd, algo.PosInfOrd)
	if !ok {
		return math.Inf(-1)
	}
	return algo.OrdToFloat(ord)
}

// BinUpperBound finds the least ordinal whose mapped bin index exceeds the
// effective bin index, then steps one ordinal back: that is the largest
// value that still maps into binIndex.
func (b *base) BinUpperBound(binIndex int32) float64 {
	if binIndex >= b.overflow {
		return math.Inf(1)
	}
	effective := binIndex
	if b.underflow > effective {
		effective = b.underflow
	}
	pred := func(ord int64) bool {
		return b.mapToBinIndex(algo.OrdToFloat(ord)) > effective
	}
	ord, ok := algo.FindFirst(pred, algo.NegInfOrd, algo.PosInfOrd)
	if !ok {
		return math.Inf(1)
	}
	return algo.OrdToFloat(ord - 1)
}

func (b *base) NormalRangeLowerBound() float64 {
	return b.BinLowerBound(b.underflow + 1)
}

func (b *base) NormalRangeUpperBound() float64 {
	return b.BinUpperBound(b.overflow - 1)
}
