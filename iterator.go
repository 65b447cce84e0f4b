// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"github.com/vdobler/dynahist/layout"
)

// binSource is the minimal read-only view a histogram storage backend
// must provide for BinIterator to walk it. Dynamic, static and
// preprocessed histograms each implement it differently; the iterator
// itself never looks at their internal representation.
type binSource interface {
	layoutOf() layout.Layout
	countAt(binIndex int32) int64
	underflowCount() int64
	overflowCount() int64
	totalCount() int64
	// nextNonEmpty returns the smallest regular bin index greater than
	// after with a non-zero count, if any.
	nextNonEmpty(after int32) (int32, bool)
	// prevNonEmpty returns the largest regular bin index less than
	// before with a non-zero count, if any.
	prevNonEmpty(before int32) (int32, bool)
	firstNonEmpty() (int32, bool)
	lastNonEmpty() (int32, bool)
}

type iteratorState int

const (
	stateUnderflow iteratorState = iota
	stateRegular
	stateOverflow
	stateInvalid
)

// BinIterator walks the non-empty bins of a histogram, including the
// underflow and overflow pseudo-bins, in index order. It holds a borrow
// of the histogram for its lifetime; subsequent mutation of the
// histogram invalidates it.
type BinIterator struct {
	src          binSource
	state        iteratorState
	binIndex     int32
	lessCount    int64
	greaterCount int64
}

// firstIterator returns an iterator positioned at the histogram's first
// non-empty bin (which may be the underflow bin).
func firstIterator(src binSource) (*BinIterator, error) {
	if src.totalCount() == 0 {
		return nil, emptyf("histogram has no values")
	}
	it := &BinIterator{src: src}
	if src.underflowCount() > 0 {
		it.state = stateUnderflow
		it.greaterCount = src.totalCount() - src.underflowCount()
		return it, nil
	}
	if idx, ok := src.firstNonEmpty(); ok {
		it.state = stateRegular
		it.binIndex = idx
		it.greaterCount = src.totalCount() - src.countAt(idx)
		return it, nil
	}
	it.state = stateOverflow
	return it, nil
}

// lastIterator returns an iterator positioned at the histogram's last
// non-empty bin (which may be the overflow bin).
func lastIterator(src binSource) (*BinIterator, error) {
	if src.totalCount() == 0 {
		return nil, emptyf("histogram has no values")
	}
	it := &BinIterator{src: src}
	if src.overflowCount() > 0 {
		it.state = stateOverflow
		it.lessCount = src.totalCount() - src.overflowCount()
		return it, nil
	}
	if idx, ok := src.lastNonEmpty(); ok {
		it.state = stateRegular
		it.binIndex = idx
		it.lessCount = src.totalCount() - src.countAt(idx)
		return it, nil
	}
	it.state = stateUnderflow
	return it, nil
}

func (it *BinIterator) currentCount() int64 {
	switch it.state {
	case stateUnderflow:
		return it.src.underflowCount()
	case stateOverflow:
		return it.src.overflowCount()
	case stateRegular:
		return it.src.countAt(it.binIndex)
	default:
		return 0
	}
}

// Next advances the iterator to the next non-empty bin. It fails with
// ErrEmpty if the iterator is already at or past the overflow bin.
func (it *BinIterator) Next() error {
	switch it.state {
	case stateInvalid:
		return emptyf("iterator has no next bin")
	case stateOverflow:
		it.state = stateInvalid
		return emptyf("iterator has no next bin")
	case stateUnderflow, stateRegular:
		prevLess := it.lessCount
		prevCount := it.currentCount()
		from := it.binIndex
		if it.state == stateUnderflow {
			from = it.src.layoutOf().UnderflowBinIndex()
		}
		newLess := prevLess + prevCount
		if idx, ok := it.src.nextNonEmpty(from); ok {
			it.state = stateRegular
			it.binIndex = idx
			it.lessCount = newLess
			it.greaterCount = it.src.totalCount() - newLess - it.src.countAt(idx)
			return nil
		}
		if it.src.overflowCount() > 0 {
			it.state = stateOverflow
			it.lessCount = newLess
			it.greaterCount = it.src.totalCount() - newLess - it.src.overflowCount()
			return nil
		}
		it.state = stateInvalid
		return emptyf("iterator has no next bin")
	}
	return emptyf("iterator has no next bin")
}

// Previous moves the iterator to the preceding non-empty bin. It fails
// with ErrEmpty if the iterator is already at or before the underflow
// bin.
func (it *BinIterator) Previous() error {
	switch it.state {
	case stateInvalid:
		return emptyf("iterator has no previous bin")
	case stateUnderflow:
		it.state = stateInvalid
		return emptyf("iterator has no previous bin")
	case stateOverflow, stateRegular:
		prevGreater := it.greaterCount
		prevCount := it.currentCount()
		from := it.binIndex
		if it.state == stateOverflow {
			from = it.src.layoutOf().OverflowBinIndex()
		}
		newGreater := prevGreater + prevCount
		if idx, ok := it.src.prevNonEmpty(from); ok {
			it.state = stateRegular
			it.binIndex = idx
			it.greaterCount = newGreater
			it.lessCount = it.src.totalCount() - newGreater - it.src.countAt(idx)
			return nil
		}
		if it.src.underflowCount() > 0 {
			it.state = stateUnderflow
			it.greaterCount = newGreater
			it.lessCount = it.src.totalCount() - newGreater - it.src.underflowCount()
			return nil
		}
		it.state = stateInvalid
		return emptyf("iterator has no previous bin")
	}
	return emptyf("iterator has no previous bin")
}

// Bin returns a snapshot of the iterator's current position.
func (it *BinIterator) Bin() Bin {
	b := Bin{
		lessCount:    it.lessCount,
		greaterCount: it.greaterCount,
	}
	l := it.src.layoutOf()
	switch it.state {
	case stateUnderflow:
		b.isUnderflow = true
		b.binCount = it.src.underflowCount()
		b.lowerBound = l.BinLowerBound(l.UnderflowBinIndex())
		b.upperBound = l.BinUpperBound(l.UnderflowBinIndex())
		b.binIndex = l.UnderflowBinIndex()
	case stateOverflow:
		b.isOverflow = true
		b.binCount = it.src.overflowCount()
		b.lowerBound = l.BinLowerBound(l.OverflowBinIndex())
		b.upperBound = l.BinUpperBound(l.OverflowBinIndex())
		b.binIndex = l.OverflowBinIndex()
	case stateRegular:
		b.binIndex = it.binIndex
		b.binCount = it.src.countAt(it.binIndex)
		b.lowerBound = l.BinLowerBound(it.binIndex)
		b.upperBound = l.BinUpperBound(it.binIndex)
	}
	return b
}

// IsUnderflow reports whether the iterator is positioned on the
// underflow pseudo-bin.
func (it *BinIterator) IsUnderflow() bool { return it.state == stateUnderflow }

// IsOverflow reports whether the iterator is positioned on the overflow
// pseudo-bin.
func (it *BinIterator) IsOverflow() bool { return it.state == stateOverflow }

// IsValid reports whether the iterator is positioned on a real bin (not
// past either end).
func (it *BinIterator) IsValid() bool { return it.state != stateInvalid }
