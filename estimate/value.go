// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package estimate provides the value- and quantile-estimation formulas
// histograms use to turn an exact rank into an approximate real value:
// everything here is pure arithmetic over (lower bound, upper bound, bin
// count, rank) tuples, with no dependency on how a histogram represents
// its bins.
package estimate

import "github.com/vdobler/dynahist/internal/algo"

// Context describes the position a ValueEstimator must produce a value
// for: the rank-th (0-indexed) of binCount equally-valid values known to
// lie in [Lower, Upper].
type Context struct {
	Lower, Upper float64
	BinCount     int64
	Rank         int64

	// ContainsGlobalMin/Max are set when this bin holds the histogram's
	// overall minimum/maximum, so the estimator can pin that particular
	// rank exactly to Lower/Upper instead of treating it as just
	// another point in the bin.
	ContainsGlobalMin bool
	ContainsGlobalMax bool
}

// ValueEstimator maps a Context to a representative float64 value, always
// within [ctx.Lower, ctx.Upper].
type ValueEstimator interface {
	Estimate(ctx Context) float64
}

type lowerBoundEstimator struct{}

// Estimate implements ValueEstimator.
func (lowerBoundEstimator) Estimate(ctx Context) float64 { return ctx.Lower }

// LowerBound always returns the bin's lower bound.
var LowerBound ValueEstimator = lowerBoundEstimator{}

type upperBoundEstimator struct{}

// Estimate implements ValueEstimator.
func (upperBoundEstimator) Estimate(ctx Context) float64 { return ctx.Upper }

// UpperBound always returns the bin's upper bound.
var UpperBound ValueEstimator = upperBoundEstimator{}

type midPointEstimator struct{}

// Estimate implements ValueEstimator.
func (midPointEstimator) Estimate(ctx Context) float64 {
	mid := ctx.Lower/2 + ctx.Upper/2
	if mid < ctx.Lower {
		return ctx.Lower
	}
	if mid > ctx.Upper {
		return ctx.Upper
	}
	return mid
}

// MidPoint returns the bin's midpoint, clamped back into the bin to
// guard against asymmetric rounding pushing it just outside.
var MidPoint ValueEstimator = midPointEstimator{}

type uniformEstimator struct{}

// Estimate implements ValueEstimator.
//
// The bin is treated as binCount equally spaced points; the first point
// is offset by half the spacing unless it is the global minimum (then it
// sits exactly on Lower), and symmetrically for the last point and the
// global maximum.
func (uniformEstimator) Estimate(ctx Context) float64 {
	n := ctx.BinCount
	if n <= 1 {
		return MidPoint.Estimate(ctx)
	}
	if ctx.ContainsGlobalMin && ctx.Rank == 0 {
		return ctx.Lower
	}
	if ctx.ContainsGlobalMax && ctx.Rank == n-1 {
		return ctx.Upper
	}
	return algo.Interpolate(float64(ctx.Rank)+0.5, 0, ctx.Lower, float64(n), ctx.Upper)
}

// Uniform spaces binCount points evenly across the bin.
var Uniform ValueEstimator = uniformEstimator{}
