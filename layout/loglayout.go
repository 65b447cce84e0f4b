// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"math"

	"github.com/vdobler/dynahist/errlist"
	"github.com/vdobler/dynahist/internal/algo"
)

// minPositiveNormalFloat64 is the smallest positive normal float64
// (2^-1022); the standard library only names math.SmallestNonzeroFloat64,
// the smallest positive *subnormal*, so the normal bound is spelled out.
const minPositiveNormalFloat64 = 2.2250738585072014e-308

// hFunc computes the per-octave interpolation curve a log-family layout
// uses once a value has left the sub-normal (linear, near-zero) branch.
// Its argument is always a positive, finite, normal-or-larger float64.
type hFunc func(absX float64) float64

// validateWidthLimits checks the two width-limit preconditions a
// log-family layout shares, independently of each other, so a caller
// passing bad values for both gets both violations back at once instead
// of just the first one found.
func validateWidthLimits(absoluteBinWidthLimit, relativeBinWidthLimit float64) errlist.List {
	var errs errlist.List
	if math.IsNaN(absoluteBinWidthLimit) || math.IsInf(absoluteBinWidthLimit, 0) || absoluteBinWidthLimit < minPositiveNormalFloat64 {
		errs = errs.Append(errInvalidArgument("absoluteBinWidthLimit must be finite and >= smallest positive normal float64, got %v", absoluteBinWidthLimit))
	}
	if math.IsNaN(relativeBinWidthLimit) || math.IsInf(relativeBinWidthLimit, 0) || relativeBinWidthLimit < 0 {
		errs = errs.Append(errInvalidArgument("relativeBinWidthLimit must be finite and >= 0, got %v", relativeBinWidthLimit))
	}
	return errs
}

// logLayout holds the construction result shared by LogLinear,
// LogQuadratic and LogOptimal: all three differ only in h and the K
// constant that scales it, everything else -- the sub-normal/normal
// switchover point, the offset that stitches the two branches together at
// that point, and the resulting under/overflow indices -- is identical
// algebra.
type logLayout struct {
	base

	absoluteBinWidthLimit float64
	relativeBinWidthLimit float64

	factorSubnormal float64
	factorNormal    float64
	offset          float64
	limit           uint64 // unsigned_value_bits_normal_limit, as raw IEEE magnitude bits
	firstNormalIdx  int64

	h         hFunc
	isOptimal bool // LogOptimal maps +/-Inf to math.MaxInt32 directly
	serialID  uint64
}

// newLogLayoutCore builds everything about a log-family layout that
// depends only on (absoluteBinWidthLimit, relativeBinWidthLimit, k, h):
// the sub-normal/normal switchover point and the offset stitching the two
// branches together. It does not touch under/overflow, since those come
// either from a value range (construction from parameters) or directly
// from persisted indices (deserialization) -- see newLogLayoutFromRange
// and newLogLayoutFromIndices.
func newLogLayoutCore(absoluteBinWidthLimit, relativeBinWidthLimit, k float64, h hFunc, serialID uint64, isOptimal bool) (*logLayout, error) {
	if err := validateWidthLimits(absoluteBinWidthLimit, relativeBinWidthLimit).AsError(); err != nil {
		return nil, err
	}

	l := &logLayout{
		absoluteBinWidthLimit: absoluteBinWidthLimit,
		relativeBinWidthLimit: relativeBinWidthLimit,
		factorSubnormal:       1 / absoluteBinWidthLimit,
		h:                     h,
		isOptimal:             isOptimal,
		serialID:              serialID,
	}

	if relativeBinWidthLimit == 0 {
		l.firstNormalIdx = math.MaxInt64
	} else {
		l.firstNormalIdx = int64(math.Ceil(1 / relativeBinWidthLimit))
	}
	l.factorNormal = k / math.Log1p(relativeBinWidthLimit)

	// unsigned_value_bits_normal_limit: smallest magnitude-ordinal L such
	// that the normal branch would be chosen there, found by seeded
	// search around the point where the sub-normal branch alone would
	// reach first_normal_idx.
	var guess uint64
	if g := float64(l.firstNormalIdx) / l.factorSubnormal; g > 0 && !math.IsInf(g, 0) {
		guess = math.Float64bits(g)
	}
	predLimit := func(ord int64) bool {
		v := math.Float64frombits(uint64(ord))
		return math.Floor(l.factorSubnormal*v) >= float64(l.firstNormalIdx)
	}
	limitOrd, ok := algo.FindFirstGuess(predLimit, 0, math.MaxInt64, clampInt64(int64(guess), 0, math.MaxInt64))
	if !ok {
		limitOrd = math.MaxInt64
	}
	l.limit = uint64(limitOrd)

	// offset stitches the normal branch to the sub-normal branch at the
	// switchover point: factorNormal*h(valueAtLimit) + offset must equal
	// firstNormalIdx exactly there. Since h is smooth on the normal
	// branch this is a direct algebraic solve rather than a second
	// seeded search.
	atLimit := math.Float64frombits(l.limit)
	if atLimit == 0 || math.IsInf(atLimit, 0) {
		atLimit = minPositiveNormalFloat64
	}
	l.offset = float64(l.firstNormalIdx) - l.factorNormal*h(atLimit)

	return l, nil
}

// newLogLayoutFromRange builds a log-family layout from a value range: the
// under/overflow indices are derived by mapping lower and upper.
func newLogLayoutFromRange(absoluteBinWidthLimit, relativeBinWidthLimit, lower, upper, k float64, h hFunc, serialID uint64, isOptimal bool) (*logLayout, error) {
	errs := validateWidthLimits(absoluteBinWidthLimit, relativeBinWidthLimit)
	if math.IsNaN(lower) || math.IsInf(lower, 0) || math.IsNaN(upper) || math.IsInf(upper, 0) || lower > upper {
		errs = errs.Append(errInvalidArgument("value range [%v, %v] must be finite and non-decreasing", lower, upper))
	}
	if err := errs.AsError(); err != nil {
		return nil, err
	}
	l, err := newLogLayoutCore(absoluteBinWidthLimit, relativeBinWidthLimit, k, h, serialID, isOptimal)
	if err != nil {
		return nil, err
	}

	lowerIdx := l.mapUnsigned(math.Abs(lower))
	if lower < 0 {
		lowerIdx = ^lowerIdx
	}
	upperIdx := l.mapUnsigned(math.Abs(upper))
	if upper < 0 {
		upperIdx = ^upperIdx
	}
	if lowerIdx > upperIdx {
		lowerIdx, upperIdx = upperIdx, lowerIdx
	}
	return l.finish(lowerIdx-1, upperIdx+1)
}

// newLogLayoutFromIndices rebuilds a log-family layout from its persisted
// under/overflow bin indices directly, the way the wire format stores
// them, instead of re-deriving them from an original value range that was
// never written to the stream.
func newLogLayoutFromIndices(absoluteBinWidthLimit, relativeBinWidthLimit float64, underflow, overflow int32, k float64, h hFunc, serialID uint64, isOptimal bool) (*logLayout, error) {
	l, err := newLogLayoutCore(absoluteBinWidthLimit, relativeBinWidthLimit, k, h, serialID, isOptimal)
	if err != nil {
		return nil, err
	}
	return l.finish(int64(underflow), int64(overflow))
}

func (l *logLayout) finish(underflow64, overflow64 int64) (*logLayout, error) {
	if underflow64 < math.MinInt32 || overflow64 > math.MaxInt32 || overflow64-underflow64-1 > math.MaxInt32 {
		return nil, errInvalidArgument("layout range too wide to fit in 32-bit bin indices")
	}
	l.base = base{
		mapToBinIndex: l.MapToBinIndex,
		underflow:     int32(underflow64),
		overflow:      int32(overflow64),
	}
	return l, nil
}

// mapUnsigned computes idx_unsigned for a non-negative magnitude absX.
func (l *logLayout) mapUnsigned(absX float64) int64 {
	bits := math.Float64bits(absX)
	if bits < l.limit {
		return int64(math.Floor(l.factorSubnormal * absX))
	}
	return int64(math.Floor(l.factorNormal*l.h(absX) + l.offset))
}

// MapToBinIndex implements Layout.
func (l *logLayout) MapToBinIndex(x float64) int32 {
	if l.isOptimal && math.IsInf(x, 0) {
		return math.MaxInt32
	}
	absX := math.Abs(x)
	idx := l.mapUnsigned(absX)
	if math.Signbit(x) {
		idx = ^idx
	}
	return int32(clampInt64(idx, math.MinInt32, math.MaxInt32))
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hLogLinear interpolates linearly across each octave's mantissa.
func hLogLinear(absX float64) float64 {
	bits := math.Float64bits(absX)
	exponent := float64((bits >> 52) & 0x7ff)
	mantissa := float64(bits&((uint64(1)<<52)-1)) / float64(uint64(1)<<52)
	return mantissa + 1 + exponent
}

// hLogQuadratic interpolates with a concave quadratic across each octave's
// mantissa, giving a tighter approximation of log2 than hLogLinear at the
// cost of one extra multiply.
func hLogQuadratic(absX float64) float64 {
	bits := math.Float64bits(absX)
	exponent := float64((bits >> 52) & 0x7ff)
	m := float64(bits&((uint64(1)<<52)-1)) / float64(uint64(1)<<52)
	return m*(4-m) + 3*exponent
}

// hLogOptimal is the exact natural-log mapping; it gives the minimal bin
// count meeting the relative-width bound but costs a Log call per value
// instead of bit manipulation.
func hLogOptimal(absX float64) float64 {
	return math.Log(absX) - math.Log(minPositiveNormalFloat64)
}
