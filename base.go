// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"bytes"
	"math"

	"github.com/vdobler/dynahist/estimate"
	"github.com/vdobler/dynahist/layout"
)

// storage is the write-side counterpart to binSource: whatever backs a
// mutable histogram's per-bin counts (a bit-packed dynamic array or a
// fully preallocated static array) implements it. All bookkeeping that is
// independent of the storage strategy -- overflow detection, min/max
// tracking, the merge and ascending-sequence algorithms -- lives once in
// base and calls back into storage only for the actual counter update.
// Composition stands in here for what would be default interface methods
// in a language that has them.
type storage interface {
	// countAt returns the count stored at binIndex, 0 if untouched.
	countAt(binIndex int32) int64
	// nextNonEmpty returns the smallest stored bin index greater than
	// after with a non-zero count, if any.
	nextNonEmpty(after int32) (int32, bool)
	// prevNonEmpty returns the largest stored bin index less than
	// before with a non-zero count, if any.
	prevNonEmpty(before int32) (int32, bool)
	firstNonEmpty() (int32, bool)
	lastNonEmpty() (int32, bool)
	// addToBin increments the count at binIndex by c, growing or
	// widening the backing storage as needed. c is always >= 0 here;
	// overflow of the per-bin counter itself is not possible since bin
	// counts are bounded by total_count <= math.MaxInt64, checked by
	// base before this is called.
	addToBin(binIndex int32, c int64)
}

// base holds the state and algorithms shared by DynamicHistogram and
// StaticHistogram: layout, observed extrema, total/underflow/overflow
// counts, and the add_value/add_values/add_histogram/
// add_ascending_sequence family built once on top of a storage.
type base struct {
	l                layout.Layout
	store            storage
	min, max         float64
	haveMinMax       bool
	total            int64
	underflow        int64
	overflow         int64
}

func newBase(l layout.Layout, store storage) *base {
	return &base{l: l, store: store, min: math.Inf(1), max: math.Inf(-1)}
}

func (b *base) layoutOf() layout.Layout        { return b.l }
func (b *base) countAt(i int32) int64          { return b.store.countAt(i) }
func (b *base) underflowCount() int64          { return b.underflow }
func (b *base) overflowCount() int64           { return b.overflow }
func (b *base) totalCount() int64              { return b.total }
func (b *base) nextNonEmpty(a int32) (int32, bool)  { return b.store.nextNonEmpty(a) }
func (b *base) prevNonEmpty(v int32) (int32, bool)  { return b.store.prevNonEmpty(v) }
func (b *base) firstNonEmpty() (int32, bool)   { return b.store.firstNonEmpty() }
func (b *base) lastNonEmpty() (int32, bool)    { return b.store.lastNonEmpty() }

func (b *base) Min() (float64, error) {
	if b.total == 0 {
		return 0, emptyf("histogram has no values")
	}
	return b.min, nil
}

func (b *base) Max() (float64, error) {
	if b.total == 0 {
		return 0, emptyf("histogram has no values")
	}
	return b.max, nil
}

func (b *base) TotalCount() int64         { return b.total }
func (b *base) UnderflowCount() int64     { return b.underflow }
func (b *base) OverflowCount() int64      { return b.overflow }
func (b *base) Count(i int32) int64       { return b.store.countAt(i) }
func (b *base) Layout() layout.Layout     { return b.l }
func (b *base) CanonicalHash() uint64     { return canonicalHash(b) }

// FirstNonEmptyBin returns an iterator positioned at the first non-empty
// bin.
func (b *base) FirstNonEmptyBin() (*BinIterator, error) { return firstIterator(b) }

// LastNonEmptyBin returns an iterator positioned at the last non-empty
// bin.
func (b *base) LastNonEmptyBin() (*BinIterator, error) { return lastIterator(b) }

// GetBinByRank returns the bin containing the rank-th recorded value by
// scanning forward from the first non-empty bin. Mutable histograms have
// no prefix-sum index to binary search, so this costs O(number of
// non-empty bins touched up to rank); PreprocessedHistogram overrides with
// an O(log k) binary search.
func (b *base) GetBinByRank(rank int64) (Bin, error) {
	if rank < 0 || rank >= b.total {
		return Bin{}, invalidArgumentf("rank must be in [0, %d), got %d", b.total, rank)
	}
	it, err := firstIterator(b)
	if err != nil {
		return Bin{}, err
	}
	for {
		bin := it.Bin()
		if rank < bin.LessCount()+bin.Count() {
			return bin, nil
		}
		if err := it.Next(); err != nil {
			return Bin{}, err
		}
	}
}

// updateMinMax folds x into the running min/max, taking care that -0.0 is
// considered strictly less than 0.0 and +0.0 strictly greater than -0.0
// for this purpose even though they compare equal under ==.
func (b *base) updateMinMax(x float64) {
	if !b.haveMinMax {
		b.min, b.max = x, x
		b.haveMinMax = true
		return
	}
	if x < b.min || (x == b.min && math.Signbit(x) && !math.Signbit(b.min)) {
		b.min = x
	}
	if x > b.max || (x == b.max && !math.Signbit(x) && math.Signbit(b.max)) {
		b.max = x
	}
}

// AddValue records one occurrence of x.
func (b *base) AddValue(x float64) error {
	return b.AddValues(x, 1)
}

// AddValues records c occurrences of x.
func (b *base) AddValues(x float64, c int64) error {
	if math.IsNaN(x) {
		return invalidValuef("cannot add NaN")
	}
	if c < 0 {
		return invalidArgumentf("count must be non-negative, got %d", c)
	}
	if c == 0 {
		return nil
	}
	if b.total > math.MaxInt64-c {
		return overflowf("total count would exceed math.MaxInt64")
	}
	idx := b.l.MapToBinIndex(x)
	b.commitOne(idx, x, c)
	return nil
}

func (b *base) commitOne(idx int32, x float64, c int64) {
	switch {
	case idx <= b.l.UnderflowBinIndex():
		b.underflow += c
	case idx >= b.l.OverflowBinIndex():
		b.overflow += c
	default:
		b.store.addToBin(idx, c)
	}
	b.updateMinMax(x)
	b.total += c
}

// AddAscendingSequence records n values produced by f(0), f(1), ...,
// f(n-1), which must be non-decreasing. It exploits that monotonicity:
// for each run of consecutive indices mapping to the same bin, the whole
// run is credited in one addToBin call instead of n individual ones.
func (b *base) AddAscendingSequence(f func(int64) float64, n int64) error {
	if n < 0 {
		return invalidArgumentf("n must be non-negative, got %d", n)
	}
	if n == 0 {
		return nil
	}
	if b.total > math.MaxInt64-n {
		return overflowf("total count would exceed math.MaxInt64")
	}
	var i int64
	for i < n {
		x := f(i)
		if math.IsNaN(x) {
			return invalidValuef("cannot add NaN at sequence index %d", i)
		}
		idx := b.l.MapToBinIndex(x)
		// Find the largest j such that f(i)..f(j-1) all map to idx.
		pred := func(j int64) bool {
			if j >= n {
				return true
			}
			return b.l.MapToBinIndex(f(j)) != idx
		}
		j, ok := findFirstInt64(pred, i, n)
		if !ok {
			j = n
		}
		count := j - i
		b.commitRun(idx, x, f(j-1), count)
		i = j
	}
	b.total += n
	return nil
}

func (b *base) commitRun(idx int32, first, last float64, count int64) {
	switch {
	case idx <= b.l.UnderflowBinIndex():
		b.underflow += count
	case idx >= b.l.OverflowBinIndex():
		b.overflow += count
	default:
		b.store.addToBin(idx, count)
	}
	b.updateMinMax(first)
	if count > 1 {
		b.updateMinMax(last)
	}
}

// findFirstInt64 is a small linear-domain binary search used only by
// AddAscendingSequence, where the search space is a sequence position
// (not a float ordinal) and so doesn't belong in internal/algo.
func findFirstInt64(pred func(int64) bool, lo, hi int64) (int64, bool) {
	if lo > hi || !pred(hi) {
		return 0, false
	}
	low, high := lo, hi
	for low+1 < high {
		mid := low + (high-low)/2
		if pred(mid) {
			high = mid
		} else {
			low = mid
		}
	}
	if pred(lo) {
		return lo, true
	}
	return high, true
}

// AddHistogram merges other into b. When the two layouts are identical by
// pointer or by value-equivalent construction, it streams other's
// non-empty bins directly; otherwise it replays other's values (via its
// preprocessed form) against b through AddAscendingSequence.
func (b *base) AddHistogram(other Histogram) error {
	otherTotal := other.TotalCount()
	if otherTotal == 0 {
		return nil
	}
	if b.total > math.MaxInt64-otherTotal {
		return overflowf("merging would make total count exceed math.MaxInt64")
	}

	if sameLayout(b.l, other.Layout()) {
		return b.mergeSameLayout(other)
	}
	return b.mergeDifferentLayout(other)
}

// sameLayout reports whether a and c bin values identically, by comparing
// their full serialized payload rather than just a few summary fields:
// two layouts can share under/overflow bounds and a serial id while
// differing in width limits, which would otherwise misattribute counts to
// the wrong bins under the fast same-layout merge path.
func sameLayout(a, c layout.Layout) bool {
	if a == c {
		return true
	}
	if a.SerialID() != c.SerialID() {
		return false
	}
	var pa, pc bytes.Buffer
	if err := a.WritePayload(&pa); err != nil {
		return false
	}
	if err := c.WritePayload(&pc); err != nil {
		return false
	}
	return bytes.Equal(pa.Bytes(), pc.Bytes())
}

func (b *base) mergeSameLayout(other Histogram) error {
	savedMin, savedMax, savedHave := b.min, b.max, b.haveMinMax
	savedTotal, savedUnder, savedOver := b.total, b.underflow, b.overflow

	it, err := other.FirstNonEmptyBin()
	if err != nil {
		return nil // other is empty; nothing to merge (unreachable, checked above)
	}
	for {
		cur := it.Bin()
		switch {
		case cur.IsUnderflowBin():
			if b.total > math.MaxInt64-cur.Count() {
				b.restore(savedMin, savedMax, savedHave, savedTotal, savedUnder, savedOver)
				return overflowf("merging would make total count exceed math.MaxInt64")
			}
			b.underflow += cur.Count()
			b.total += cur.Count()
		case cur.IsOverflowBin():
			if b.total > math.MaxInt64-cur.Count() {
				b.restore(savedMin, savedMax, savedHave, savedTotal, savedUnder, savedOver)
				return overflowf("merging would make total count exceed math.MaxInt64")
			}
			b.overflow += cur.Count()
			b.total += cur.Count()
		default:
			if b.total > math.MaxInt64-cur.Count() {
				b.restore(savedMin, savedMax, savedHave, savedTotal, savedUnder, savedOver)
				return overflowf("merging would make total count exceed math.MaxInt64")
			}
			b.store.addToBin(cur.BinIndex(), cur.Count())
			b.total += cur.Count()
		}
		if err := it.Next(); err != nil {
			break
		}
	}
	otherMin, _ := other.Min()
	otherMax, _ := other.Max()
	b.updateMinMax(otherMin)
	b.updateMinMax(otherMax)
	return nil
}

func (b *base) restore(min, max float64, haveMinMax bool, total, under, over int64) {
	b.min, b.max, b.haveMinMax = min, max, haveMinMax
	b.total, b.underflow, b.overflow = total, under, over
}

// mergeDifferentLayout replays other's recorded values against b by
// walking its preprocessed rank order and estimating a representative
// value per rank with the LowerBound estimator. Rank 0 resolves to
// other's exact min (see GetValue's boundary rule); every other rank in
// the same bin as the min otherwise estimates to that bin's lower bound,
// which can fall below the exact min and break AddAscendingSequence's
// non-decreasing precondition, so every estimate is clamped up to min.
// Everything past the min's bin is a bin-lower-bound approximation of the
// original value, the same loss any cross-layout merge takes when the
// original samples are gone.
func (b *base) mergeDifferentLayout(other Histogram) error {
	pre, err := Preprocess(other)
	if err != nil {
		return err
	}
	n := pre.TotalCount()
	min, err := pre.Min()
	if err != nil {
		return err
	}
	savedMin, savedMax, savedHave := b.min, b.max, b.haveMinMax
	savedTotal, savedUnder, savedOver := b.total, b.underflow, b.overflow

	f := func(i int64) float64 {
		v, _ := GetValue(pre, i, estimate.LowerBound)
		if v < min {
			v = min
		}
		return v
	}
	if err := b.AddAscendingSequence(f, n); err != nil {
		b.restore(savedMin, savedMax, savedHave, savedTotal, savedUnder, savedOver)
		return err
	}
	return nil
}
