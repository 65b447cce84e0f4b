// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"hash/maphash"
	"math"

	"github.com/vdobler/dynahist/layout"
)

// Histogram records numeric samples into the bins defined by a Layout and
// answers exact count queries and approximate order-statistic queries
// against them.
type Histogram interface {
	// AddValue records one occurrence of x. Fails with ErrInvalidValue
	// if x is NaN.
	AddValue(x float64) error

	// AddValues records c occurrences of x. Fails with
	// ErrInvalidArgument if c < 0, ErrOverflow if TotalCount would
	// exceed math.MaxInt64.
	AddValues(x float64, c int64) error

	// AddHistogram merges other's recorded values into this histogram.
	AddHistogram(other Histogram) error

	// AddAscendingSequence records the n values f(0), ..., f(n-1), which
	// must be non-decreasing.
	AddAscendingSequence(f func(int64) float64, n int64) error

	// Min returns the smallest value ever recorded. Fails with
	// ErrEmpty if TotalCount is 0.
	Min() (float64, error)

	// Max returns the largest value ever recorded. Fails with
	// ErrEmpty if TotalCount is 0.
	Max() (float64, error)

	// TotalCount returns the number of values ever recorded.
	TotalCount() int64

	// UnderflowCount returns the number of recorded values below the
	// layout's normal range.
	UnderflowCount() int64

	// OverflowCount returns the number of recorded values above the
	// layout's normal range.
	OverflowCount() int64

	// Count returns the number of recorded values in the given regular
	// bin index.
	Count(binIndex int32) int64

	// Layout returns the layout this histogram was built with.
	Layout() layout.Layout

	// FirstNonEmptyBin returns an iterator positioned at the first
	// non-empty bin. Fails with ErrEmpty if TotalCount is 0.
	FirstNonEmptyBin() (*BinIterator, error)

	// LastNonEmptyBin returns an iterator positioned at the last
	// non-empty bin. Fails with ErrEmpty if TotalCount is 0.
	LastNonEmptyBin() (*BinIterator, error)

	// GetBinByRank returns the bin containing the rank-th recorded
	// value (0-indexed, 0 <= rank < TotalCount).
	GetBinByRank(rank int64) (Bin, error)

	// CanonicalHash returns a hash over the histogram's full observable
	// state (layout bounds, min, max, underflow/overflow counts and
	// every non-zero regular bin count), suitable for equality checks
	// across independently constructed but value-identical histograms.
	CanonicalHash() uint64
}

// hashable is the minimal read surface CanonicalHash needs; it is
// implemented by *base (and so by DynamicHistogram and StaticHistogram)
// and by PreprocessedHistogram.
type hashable interface {
	binSource
	Min() (float64, error)
	Max() (float64, error)
}

var hashSeed = maphash.MakeSeed()

// canonicalHash hashes h's layout bounds, min, max, underflow count,
// overflow count, total count and every (binIndex, count) pair with a
// non-zero count, in ascending bin-index order, so that two histograms
// with identical observable state hash identically regardless of how
// they arrived there (dynamic vs static storage, merge vs replay, ...).
func canonicalHash(h hashable) uint64 {
	var mh maphash.Hash
	mh.SetSeed(hashSeed)

	var buf [8]byte
	putInt64 := func(v int64) {
		for i := 0; i < 8; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		mh.Write(buf[:])
	}

	l := h.layoutOf()
	putInt64(int64(l.UnderflowBinIndex()))
	putInt64(int64(l.OverflowBinIndex()))
	putInt64(h.underflowCount())
	putInt64(h.overflowCount())
	putInt64(h.totalCount())

	if h.totalCount() > 0 {
		min, _ := h.Min()
		max, _ := h.Max()
		putInt64(int64(math.Float64bits(min)))
		putInt64(int64(math.Float64bits(max)))
	}

	if idx, ok := h.firstNonEmpty(); ok {
		for {
			putInt64(int64(idx))
			putInt64(h.countAt(idx))
			next, ok := h.nextNonEmpty(idx)
			if !ok {
				break
			}
			idx = next
		}
	}

	return mh.Sum64()
}
