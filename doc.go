// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dynahist records numeric samples into fixed-error histograms
// and answers order-statistic queries (min, max, rank, quantile) on them
// with bounded memory and known accuracy.
//
// A Histogram is built from a Layout (package layout), which defines a
// monotone mapping from real values to integer bin indices such that
// every bin's width is bounded by either an absolute or a relative limit,
// whichever is larger. Values are accumulated with AddValue, AddValues,
// AddHistogram and AddAscendingSequence; min, max, total count and
// per-bin counts are exact. A Histogram can be serialized to a compact,
// self-describing binary format and read back losslessly.
//
// Two mutable storage strategies are provided: NewDynamicHistogram grows
// a bit-packed backing array on demand and is appropriate when the set of
// bins actually touched is much smaller than the layout's full range;
// NewStaticHistogram preallocates one counter per bin in the layout's
// range and never reallocates. Preprocess turns either into an immutable
// snapshot with O(log n) rank-to-bin lookups.
//
// An instance of Histogram is used by a single logical writer at a time;
// there is no internal synchronization. Layout instances are immutable
// and safe to share across goroutines and histograms.
package dynahist
