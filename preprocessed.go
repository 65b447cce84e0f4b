// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"sort"

	"github.com/vdobler/dynahist/layout"
)

// PreprocessedHistogram is an immutable snapshot of another histogram's
// bins, taken in one forward pass. It stores only the non-empty regular
// bins plus the running totals needed to binary search for a rank or a
// bin index, trading the O(number of bins touched) cost of the mutable
// histograms' GetBinByRank for O(log k), where k is the number of
// non-empty bins -- the shape repeated quantile/value queries against the
// same static dataset want. All mutating operations are unsupported: the
// parallel arrays have no slack to insert into.
type PreprocessedHistogram struct {
	l                   layout.Layout
	nonEmptyBinIndices  []int32
	accumulatedCounts   []int64 // accumulatedCounts[j] = count of values in bins[0..=j] plus underflow
	underflow, overflow int64
	total               int64
	min, max            float64
	haveMinMax          bool
}

// Preprocess builds an immutable snapshot of h by walking its non-empty
// bins once. The result is independent of h: later mutation of h (if
// mutable) does not affect it.
func Preprocess(h Histogram) (*PreprocessedHistogram, error) {
	p := &PreprocessedHistogram{
		l:         h.Layout(),
		underflow: h.UnderflowCount(),
		overflow:  h.OverflowCount(),
		total:     h.TotalCount(),
	}
	if p.total > 0 {
		min, err := h.Min()
		if err != nil {
			return nil, err
		}
		max, err := h.Max()
		if err != nil {
			return nil, err
		}
		p.min, p.max, p.haveMinMax = min, max, true
	}
	if p.total == 0 {
		return p, nil
	}

	running := p.underflow
	it, err := h.FirstNonEmptyBin()
	if err != nil {
		return nil, err
	}
	for {
		bin := it.Bin()
		if !bin.IsUnderflowBin() && !bin.IsOverflowBin() {
			running += bin.Count()
			p.nonEmptyBinIndices = append(p.nonEmptyBinIndices, bin.BinIndex())
			p.accumulatedCounts = append(p.accumulatedCounts, running)
		}
		if err := it.Next(); err != nil {
			break
		}
	}
	return p, nil
}

func (p *PreprocessedHistogram) layoutOf() layout.Layout       { return p.l }
func (p *PreprocessedHistogram) underflowCount() int64         { return p.underflow }
func (p *PreprocessedHistogram) overflowCount() int64          { return p.overflow }
func (p *PreprocessedHistogram) totalCount() int64             { return p.total }

func (p *PreprocessedHistogram) countAt(binIndex int32) int64 {
	i := sort.Search(len(p.nonEmptyBinIndices), func(i int) bool {
		return p.nonEmptyBinIndices[i] >= binIndex
	})
	if i < len(p.nonEmptyBinIndices) && p.nonEmptyBinIndices[i] == binIndex {
		return p.accumulatedCounts[i] - p.countBelow(i)
	}
	return 0
}

// countBelow returns the accumulated count strictly before slot i.
func (p *PreprocessedHistogram) countBelow(i int) int64 {
	if i == 0 {
		return p.underflow
	}
	return p.accumulatedCounts[i-1]
}

func (p *PreprocessedHistogram) nextNonEmpty(after int32) (int32, bool) {
	i := sort.Search(len(p.nonEmptyBinIndices), func(i int) bool {
		return p.nonEmptyBinIndices[i] > after
	})
	if i < len(p.nonEmptyBinIndices) {
		return p.nonEmptyBinIndices[i], true
	}
	return 0, false
}

func (p *PreprocessedHistogram) prevNonEmpty(before int32) (int32, bool) {
	i := sort.Search(len(p.nonEmptyBinIndices), func(i int) bool {
		return p.nonEmptyBinIndices[i] >= before
	})
	if i > 0 {
		return p.nonEmptyBinIndices[i-1], true
	}
	return 0, false
}

func (p *PreprocessedHistogram) firstNonEmpty() (int32, bool) {
	if len(p.nonEmptyBinIndices) == 0 {
		return 0, false
	}
	return p.nonEmptyBinIndices[0], true
}

func (p *PreprocessedHistogram) lastNonEmpty() (int32, bool) {
	n := len(p.nonEmptyBinIndices)
	if n == 0 {
		return 0, false
	}
	return p.nonEmptyBinIndices[n-1], true
}

func (p *PreprocessedHistogram) Min() (float64, error) {
	if p.total == 0 {
		return 0, emptyf("histogram has no values")
	}
	return p.min, nil
}

func (p *PreprocessedHistogram) Max() (float64, error) {
	if p.total == 0 {
		return 0, emptyf("histogram has no values")
	}
	return p.max, nil
}

func (p *PreprocessedHistogram) TotalCount() int64     { return p.total }
func (p *PreprocessedHistogram) UnderflowCount() int64 { return p.underflow }
func (p *PreprocessedHistogram) OverflowCount() int64  { return p.overflow }
func (p *PreprocessedHistogram) Count(binIndex int32) int64 { return p.countAt(binIndex) }
func (p *PreprocessedHistogram) Layout() layout.Layout { return p.l }
func (p *PreprocessedHistogram) CanonicalHash() uint64 { return canonicalHash(p) }

func (p *PreprocessedHistogram) FirstNonEmptyBin() (*BinIterator, error) { return firstIterator(p) }
func (p *PreprocessedHistogram) LastNonEmptyBin() (*BinIterator, error)  { return lastIterator(p) }

// GetBinByRank finds the bin holding rank by binary searching for the
// first accumulated count strictly greater than rank, in O(log k) where
// k is the number of non-empty regular bins.
func (p *PreprocessedHistogram) GetBinByRank(rank int64) (Bin, error) {
	if rank < 0 || rank >= p.total {
		return Bin{}, invalidArgumentf("rank must be in [0, %d), got %d", p.total, rank)
	}
	if rank < p.underflow {
		it, err := firstIterator(p)
		if err != nil {
			return Bin{}, err
		}
		return it.Bin(), nil
	}
	i := sort.Search(len(p.accumulatedCounts), func(i int) bool {
		return p.accumulatedCounts[i] > rank
	})
	if i == len(p.accumulatedCounts) {
		it, err := lastIterator(p)
		if err != nil {
			return Bin{}, err
		}
		return it.Bin(), nil
	}
	binIndex := p.nonEmptyBinIndices[i]
	count := p.accumulatedCounts[i] - p.countBelow(i)
	lessCount := p.countBelow(i)
	greaterCount := p.total - lessCount - count
	return Bin{
		binIndex:     binIndex,
		binCount:     count,
		lessCount:    lessCount,
		greaterCount: greaterCount,
		lowerBound:   p.l.BinLowerBound(binIndex),
		upperBound:   p.l.BinUpperBound(binIndex),
	}, nil
}

var errPreprocessedUnsupported = unsupportedf("preprocessed histograms are immutable")

func (p *PreprocessedHistogram) AddValue(x float64) error                              { return errPreprocessedUnsupported }
func (p *PreprocessedHistogram) AddValues(x float64, c int64) error                    { return errPreprocessedUnsupported }
func (p *PreprocessedHistogram) AddHistogram(other Histogram) error                    { return errPreprocessedUnsupported }
func (p *PreprocessedHistogram) AddAscendingSequence(f func(int64) float64, n int64) error { return errPreprocessedUnsupported }
