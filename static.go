// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"github.com/vdobler/dynahist/layout"
)

// StaticHistogram preallocates one counter per regular bin index up
// front, sized from the layout's underflow/overflow bounds. It never
// grows or widens, trading the extra up-front memory for guaranteed O(1)
// addToBin (the wire encoding is the same as for DynamicHistogram), and
// is the right choice when the
// layout's regular range is already known to be small (the common case
// for log-family layouts with tight bin width limits).
type StaticHistogram struct {
	*base
	counts []int64
}

// NewStaticHistogram builds an empty histogram over l. It fails with
// ErrInvalidArgument if l's regular bin range is too large to
// preallocate as a Go slice.
func NewStaticHistogram(l layout.Layout) (*StaticHistogram, error) {
	n := int64(l.OverflowBinIndex()) - int64(l.UnderflowBinIndex()) - 1
	if n < 0 {
		n = 0
	}
	if n > (1 << 31) {
		return nil, invalidArgumentf("static histogram would need %d counters, too large to preallocate", n)
	}
	h := &StaticHistogram{counts: make([]int64, n)}
	h.base = newBase(l, h)
	return h, nil
}

func (h *StaticHistogram) slot(binIndex int32) int {
	return int(binIndex - h.base.l.UnderflowBinIndex() - 1)
}

func (h *StaticHistogram) countAt(binIndex int32) int64 {
	i := h.slot(binIndex)
	if i < 0 || i >= len(h.counts) {
		return 0
	}
	return h.counts[i]
}

func (h *StaticHistogram) addToBin(binIndex int32, c int64) {
	h.counts[h.slot(binIndex)] += c
}

func (h *StaticHistogram) nextNonEmpty(after int32) (int32, bool) {
	start := h.slot(after) + 1
	if start < 0 {
		start = 0
	}
	for i := start; i < len(h.counts); i++ {
		if h.counts[i] > 0 {
			return int32(i) + h.base.l.UnderflowBinIndex() + 1, true
		}
	}
	return 0, false
}

func (h *StaticHistogram) prevNonEmpty(before int32) (int32, bool) {
	end := h.slot(before) - 1
	if end >= len(h.counts) {
		end = len(h.counts) - 1
	}
	for i := end; i >= 0; i-- {
		if h.counts[i] > 0 {
			return int32(i) + h.base.l.UnderflowBinIndex() + 1, true
		}
	}
	return 0, false
}

func (h *StaticHistogram) firstNonEmpty() (int32, bool) {
	return h.nextNonEmpty(h.base.l.UnderflowBinIndex())
}

func (h *StaticHistogram) lastNonEmpty() (int32, bool) {
	return h.prevNonEmpty(h.base.l.OverflowBinIndex())
}

// Mode returns the mode (0..6, i.e. 1<<mode bits per counter) the
// smallest bit-packed counter array could use to represent this
// histogram's current counts, found by OR-reducing every count and taking
// determineRequiredMode of the result. WriteHistogram does not use it; it
// derives the packed width from the counts it writes.
func (h *StaticHistogram) Mode() int {
	var orAll int64
	for _, c := range h.counts {
		orAll |= c
	}
	return determineRequiredMode(orAll)
}
