// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package estimate

import "math"

// DefaultAlpha and DefaultBeta parameterize the default quantile
// estimator after SciPy's mquantiles(alphap=0.4, betap=0.4), which
// approximates the median-unbiased Cunnane plotting position.
const (
	DefaultAlpha = 0.4
	DefaultBeta  = 0.4
)

// QuantileRank maps a quantile p in [0, 1] and a sample size n > 0 to a
// fractional rank h = r + t, returning the integer part r and fractional
// part t. The caller interpolates between the values at rank r and r+1.
//
// For n == 1 the single value's rank (0, 0) is always returned regardless
// of p. Otherwise h = (n - 1 + alpha + beta - 1) * p + alpha, clamped to
// [0, n-1].
func QuantileRank(p, alpha, beta float64, n int64) (r int64, t float64) {
	if n <= 1 {
		return 0, 0
	}
	h := (float64(n-1)+alpha+beta-1)*p + alpha
	if h < 0 {
		h = 0
	}
	if max := float64(n - 1); h > max {
		h = max
	}
	r = int64(math.Floor(h))
	t = h - float64(r)
	if r >= n-1 {
		r = n - 2
		t = 1
	}
	return r, t
}
