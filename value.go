// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"math"

	"github.com/vdobler/dynahist/estimate"
)

// GetValue returns the estimated value at the given rank (0-indexed, 0 <=
// rank < h.TotalCount()) using est to interpolate within whichever bin
// holds that rank. Rank 0 always yields the exact minimum and rank
// TotalCount()-1 always yields the exact maximum, regardless of est.
func GetValue(h Histogram, rank int64, est estimate.ValueEstimator) (float64, error) {
	n := h.TotalCount()
	if n == 0 {
		return 0, emptyf("histogram has no values")
	}
	if rank < 0 || rank >= n {
		return 0, invalidArgumentf("rank must be in [0, %d), got %d", n, rank)
	}
	min, _ := h.Min()
	max, _ := h.Max()
	if rank == 0 {
		return min, nil
	}
	if rank == n-1 {
		return max, nil
	}
	bin, err := h.GetBinByRank(rank)
	if err != nil {
		return 0, err
	}
	ctx := estimate.Context{
		Lower:             bin.LowerBound(),
		Upper:             bin.UpperBound(),
		BinCount:          bin.Count(),
		Rank:              rank - bin.LessCount(),
		ContainsGlobalMin: bin.LessCount() == 0,
		ContainsGlobalMax: bin.LessCount()+bin.Count() == n,
	}
	return est.Estimate(ctx), nil
}

// GetQuantile returns the estimated value at quantile p (in [0, 1]) using
// SciPy's mquantiles(alphap=0.4, betap=0.4) rank parameterization and the
// LowerBound value estimator. For an empty histogram it returns NaN.
func GetQuantile(h Histogram, p float64) (float64, error) {
	return GetQuantileWith(h, p, estimate.DefaultAlpha, estimate.DefaultBeta, estimate.LowerBound)
}

// GetQuantileWith is GetQuantile with an explicit alpha/beta
// parameterization and value estimator.
func GetQuantileWith(h Histogram, p float64, alpha, beta float64, est estimate.ValueEstimator) (float64, error) {
	n := h.TotalCount()
	if n == 0 {
		return math.NaN(), nil
	}
	r, t := estimate.QuantileRank(p, alpha, beta, n)
	vr, err := GetValue(h, r, est)
	if err != nil {
		return 0, err
	}
	if t == 0 {
		return vr, nil
	}
	vr1, err := GetValue(h, r+1, est)
	if err != nil {
		return 0, err
	}
	return vr + t*(vr1-vr), nil
}
