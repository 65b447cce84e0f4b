// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"math/bits"

	"github.com/vdobler/dynahist/layout"
)

// growFactor controls how much ensureCountArray over-allocates beyond the
// immediately required range, amortizing the cost of repeated small
// extensions the way a growable slice's doubling does: each reallocation
// adds a quarter of the current span on each side, so up to 1.5x.
const growFactor = 0.25

// DynamicHistogram stores counts in a bit-packed word array sized to what
// has actually been touched: a mode m in {0..6} gives 1<<m bits per
// counter, so one 64-bit word holds 64>>m counters. It grows and widens
// on demand, making it the right default when the layout's bin range is
// far larger than the set of bins any particular workload touches.
type DynamicHistogram struct {
	*base
	words           []uint64
	mode            int   // 0..6, 1<<mode bits per counter
	indexOffset     int32 // absolute bin index of words[0]'s first counter
	numCounts       int32 // number of counter slots currently allocated
	unusedTailCount int32 // padding slots in the last word, tombstoned to all-1s
}

// NewDynamicHistogram builds an empty histogram over l.
func NewDynamicHistogram(l layout.Layout) *DynamicHistogram {
	h := &DynamicHistogram{mode: 0, indexOffset: 0}
	h.base = newBase(l, h)
	return h
}

func (h *DynamicHistogram) counterWidth() int { return 1 << uint(h.mode) }
func (h *DynamicHistogram) countersPerWord() int32 { return int32(64 >> uint(h.mode)) }

// counterMask returns the all-ones mask for the current mode's counter
// width, used both to extract a counter and to build the tombstone
// pattern for unused tail slots.
func (h *DynamicHistogram) counterMask() uint64 {
	if h.mode == 6 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(h.counterWidth())) - 1
}

func (h *DynamicHistogram) slotOf(binIndex int32) (word int32, bitOffset uint, ok bool) {
	if binIndex < h.indexOffset || binIndex >= h.indexOffset+h.numCounts {
		return 0, 0, false
	}
	slot := binIndex - h.indexOffset
	perWord := h.countersPerWord()
	word = slot / perWord
	bitOffset = uint(slot%perWord) * uint(h.counterWidth())
	return word, bitOffset, true
}

func (h *DynamicHistogram) countAt(binIndex int32) int64 {
	word, off, ok := h.slotOf(binIndex)
	if !ok {
		return 0
	}
	return int64((h.words[word] >> off) & h.counterMask())
}

// determineRequiredMode returns the smallest mode m such that v fits in
// 1<<m bits.
func determineRequiredMode(v int64) int {
	if v == 0 {
		return 0
	}
	needed := bits.Len64(uint64(v))
	for m := 0; m <= 6; m++ {
		if (1 << uint(m)) >= needed {
			return m
		}
	}
	return 6
}

func (h *DynamicHistogram) addToBin(binIndex int32, c int64) {
	if word, off, ok := h.slotOf(binIndex); ok {
		cur := int64((h.words[word] >> off) & h.counterMask())
		next := cur + c
		if determineRequiredMode(next) <= h.mode {
			h.words[word] = (h.words[word] &^ (h.counterMask() << off)) | (uint64(next) << off)
			return
		}
	}
	h.ensureCountArray(binIndex, binIndex, h.mode)
	h.addToBinAfterResize(binIndex, c)
}

func (h *DynamicHistogram) addToBinAfterResize(binIndex int32, c int64) {
	for {
		word, off, ok := h.slotOf(binIndex)
		if !ok {
			h.ensureCountArray(binIndex, binIndex, h.mode)
			continue
		}
		cur := int64((h.words[word] >> off) & h.counterMask())
		next := cur + c
		if determineRequiredMode(next) > h.mode {
			h.widenMode(determineRequiredMode(next))
			continue
		}
		h.words[word] = (h.words[word] &^ (h.counterMask() << off)) | (uint64(next) << off)
		return
	}
}

// ensureCountArray grows the allocated range to cover [minIdx, maxIdx] at
// the given minimum mode, expanding by growFactor on each side (clamped
// to stay strictly inside the layout's underflow/overflow bounds) to
// amortize repeated small extensions.
func (h *DynamicHistogram) ensureCountArray(minIdx, maxIdx int32, minMode int) {
	underflow := h.base.l.UnderflowBinIndex()
	overflow := h.base.l.OverflowBinIndex()

	newMode := h.mode
	if minMode > newMode {
		newMode = minMode
	}

	lowBound := minIdx
	highBound := maxIdx
	if h.numCounts > 0 {
		if h.indexOffset < lowBound {
			lowBound = h.indexOffset
		}
		if h.indexOffset+h.numCounts-1 > highBound {
			highBound = h.indexOffset + h.numCounts - 1
		}
	}

	span := int64(highBound) - int64(lowBound) + 1
	grow := int64(float64(span) * growFactor)
	if grow < 1 {
		grow = 1
	}
	newLow := int64(lowBound) - grow
	newHigh := int64(highBound) + grow
	if newLow <= int64(underflow) {
		newLow = int64(underflow) + 1
	}
	if newHigh >= int64(overflow) {
		newHigh = int64(overflow) - 1
	}
	if newLow > int64(lowBound) {
		newLow = int64(lowBound)
	}
	if newHigh < int64(highBound) {
		newHigh = int64(highBound)
	}

	newCount := newHigh - newLow + 1
	perWord := int64(64 >> uint(newMode))
	numWords := (newCount + perWord - 1) / perWord
	tailUnused := int32(numWords*perWord - newCount)

	newWords := make([]uint64, numWords)
	mask := (uint64(1) << uint(1<<uint(newMode))) - 1
	if newMode == 6 {
		mask = ^uint64(0)
	}
	for old := h.indexOffset; old < h.indexOffset+h.numCounts; old++ {
		v := h.countAt(old)
		slot := int64(old) - newLow
		w := slot / perWord
		off := uint(slot%perWord) * uint(1<<uint(newMode))
		newWords[w] |= (uint64(v) & mask) << off
	}
	if tailUnused > 0 {
		lastWord := len(newWords) - 1
		shift := uint(perWord-int64(tailUnused)) * uint(1<<uint(newMode))
		tailMask := ^uint64(0) << shift
		newWords[lastWord] |= tailMask
	}

	h.words = newWords
	h.mode = newMode
	h.indexOffset = int32(newLow)
	h.numCounts = int32(newCount)
	h.unusedTailCount = tailUnused
}

func (h *DynamicHistogram) widenMode(newMode int) {
	h.ensureCountArray(h.indexOffset, h.indexOffset+h.numCounts-1, newMode)
}

func (h *DynamicHistogram) nextNonEmpty(after int32) (int32, bool) {
	start := after + 1
	if start < h.indexOffset {
		start = h.indexOffset
	}
	for i := start; i < h.indexOffset+h.numCounts; i++ {
		if h.countAt(i) > 0 {
			return i, true
		}
	}
	return 0, false
}

func (h *DynamicHistogram) prevNonEmpty(before int32) (int32, bool) {
	end := before - 1
	if end >= h.indexOffset+h.numCounts {
		end = h.indexOffset + h.numCounts - 1
	}
	for i := end; i >= h.indexOffset; i-- {
		if h.countAt(i) > 0 {
			return i, true
		}
	}
	return 0, false
}

func (h *DynamicHistogram) firstNonEmpty() (int32, bool) {
	return h.nextNonEmpty(h.indexOffset - 1)
}

func (h *DynamicHistogram) lastNonEmpty() (int32, bool) {
	return h.prevNonEmpty(h.indexOffset + h.numCounts)
}

// Mode returns the current bits-per-counter mode (0..6) of the backing
// array. WriteHistogram does not use it; it derives the packed width from
// the counts it writes.
func (h *DynamicHistogram) Mode() int { return h.mode }
