// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

// Bin is a read-only view of one bin (or the underflow/overflow
// pseudo-bin) within a histogram at the moment it was obtained. It does
// not observe later mutations to the histogram it came from.
type Bin struct {
	binIndex     int32
	binCount     int64
	lessCount    int64
	greaterCount int64
	lowerBound   float64
	upperBound   float64
	isUnderflow  bool
	isOverflow   bool
}

// BinIndex returns the bin's index, meaningful only when the bin is
// neither the underflow nor the overflow pseudo-bin.
func (b Bin) BinIndex() int32 { return b.binIndex }

// Count returns the number of values recorded in this bin.
func (b Bin) Count() int64 { return b.binCount }

// LessCount returns the number of values recorded in bins strictly below
// this one (including the underflow bin, when this bin is not itself the
// underflow bin).
func (b Bin) LessCount() int64 { return b.lessCount }

// GreaterCount returns the number of values recorded in bins strictly
// above this one (including the overflow bin, when this bin is not itself
// the overflow bin).
func (b Bin) GreaterCount() int64 { return b.greaterCount }

// LowerBound returns the smallest value that maps into this bin.
func (b Bin) LowerBound() float64 { return b.lowerBound }

// UpperBound returns the largest value that maps into this bin.
func (b Bin) UpperBound() float64 { return b.upperBound }

// IsUnderflowBin reports whether this view is the underflow pseudo-bin.
func (b Bin) IsUnderflowBin() bool { return b.isUnderflow }

// IsOverflowBin reports whether this view is the overflow pseudo-bin.
func (b Bin) IsOverflowBin() bool { return b.isOverflow }
