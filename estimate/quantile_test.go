// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package estimate

import "testing"

func TestQuantileRankSingleValue(t *testing.T) {
	r, tt := QuantileRank(0.9, DefaultAlpha, DefaultBeta, 1)
	if r != 0 || tt != 0 {
		t.Errorf("QuantileRank(n=1) = (%d,%v), want (0,0)", r, tt)
	}
}

func TestQuantileRankMedianTenSamples(t *testing.T) {
	r, tt := QuantileRank(0.5, DefaultAlpha, DefaultBeta, 10)
	h := float64(r) + tt
	// h = (9 + 0.4 + 0.4 - 1) * 0.5 + 0.4 = 4.8
	if h < 4.7 || h > 4.9 {
		t.Errorf("QuantileRank(0.5, n=10) h = %v, want ~4.8", h)
	}
}

func TestQuantileRankClampedToRange(t *testing.T) {
	r, tt := QuantileRank(0, DefaultAlpha, DefaultBeta, 5)
	if r < 0 || float64(r)+tt < 0 {
		t.Errorf("QuantileRank(p=0) gave negative rank: (%d,%v)", r, tt)
	}
	r, tt = QuantileRank(1, DefaultAlpha, DefaultBeta, 5)
	if r > 4 || float64(r)+tt > 4 {
		t.Errorf("QuantileRank(p=1) exceeded n-1: (%d,%v)", r, tt)
	}
	if r > 3 {
		t.Errorf("QuantileRank(p=1) r = %d, want <= n-2 so r+1 stays in range", r)
	}
}
