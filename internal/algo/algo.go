// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package algo provides the small set of numeric primitives that every
// layout and histogram implementation in dynahist is built from: a
// monotone float64<->int64 ordering, branch-free binary search over that
// ordering, safe interpolation and a branch-free midpoint.
//
// None of this is exported from dynahist itself; it is the L1 algorithms
// layer the rest of the module composes.
package algo

import "math"

// NegInfOrd and PosInfOrd are the ordinal images of -Inf and +Inf under
// ToOrd.
const (
	NegInfOrd int64 = -0x7ff0000000000001
	PosInfOrd int64 = 0x7ff0000000000000
)

// ToOrd maps a float64 to an int64 such that for all non-NaN x <= y,
// ToOrd(x) <= ToOrd(y). Negative zero maps to the ordinal immediately
// below that of positive zero. NaN values map to some int64 but the mapping is not meaningful
// for NaN (callers must exclude NaN before relying on order).
//
// The IEEE-754 bit pattern already orders correctly for non-negative
// values; negative values sort backwards as raw bit patterns (larger
// magnitude means more 1 bits, but should sort lower), so every bit
// except the sign bit is flipped for them.
func ToOrd(x float64) int64 {
	bits := int64(math.Float64bits(x))
	if bits < 0 {
		return bits ^ math.MaxInt64
	}
	return bits
}

// OrdToFloat is the inverse of ToOrd, defined for every int64. The
// transform is its own inverse since XOR with a fixed mask is an
// involution.
func OrdToFloat(ord int64) float64 {
	bits := ord
	if bits < 0 {
		bits ^= math.MaxInt64
	}
	return math.Float64frombits(uint64(bits))
}

// Midpoint returns the midpoint of a and b, rounded toward negative
// infinity, without overflowing for any combination of int64 inputs.
func Midpoint(a, b int64) int64 {
	const msb = uint64(1) << 63
	a2 := (uint64(a) ^ msb) >> 1
	b2 := (uint64(b) ^ msb) >> 1
	return int64((a2 + b2 + uint64(a&b&1)) ^ msb)
}

// FindFirst returns the least x in [lo, hi] for which pred(x) is true.
// pred must be monotone (false then true) on [lo, hi] and pred(hi) must
// be true; FindFirst returns ok=false if that precondition is violated
// or if lo > hi.
func FindFirst(pred func(int64) bool, lo, hi int64) (int64, bool) {
	if lo > hi {
		return 0, false
	}
	low, high := lo, hi
	for low+1 < high {
		mid := Midpoint(low, high)
		if pred(mid) {
			high = mid
		} else {
			low = mid
		}
	}
	if !pred(hi) {
		return 0, false
	}
	if low == lo && low != high && pred(lo) {
		return lo, true
	}
	return high, true
}

// FindFirstGuess behaves like FindFirst but accepts an initial guess in
// [lo, hi]: it expands an exponentially widening window around the guess
// until the predicate brackets the answer, then bisects. Best case (the
// guess is already the answer, or one step away) costs O(1) predicate
// evaluations instead of O(log(hi-lo)).
func FindFirstGuess(pred func(int64) bool, lo, hi, guess int64) (int64, bool) {
	if lo > hi || guess < lo || guess > hi {
		return 0, false
	}
	var low, high int64
	increment := int64(1)
	if pred(guess) {
		low = guess
		for {
			high = low
			if high == lo {
				return lo, true
			}
			low = high - increment
			if low >= high || low < lo {
				low = lo
			}
			increment <<= 1
			if !pred(low) {
				break
			}
		}
	} else {
		high = guess
		for {
			low = high
			if low == hi {
				return 0, false
			}
			high = low + increment
			if high <= low || high > hi {
				high = hi
			}
			increment <<= 1
			if pred(high) {
				break
			}
		}
	}
	for low+1 < high {
		mid := Midpoint(low, high)
		if pred(mid) {
			high = mid
		} else {
			low = mid
		}
	}
	return high, true
}

// toBitsNaNCollapse collapses every NaN bit pattern to a single canonical
// one before comparing, matching Java's Double.doubleToLongBits.
func toBitsNaNCollapse(x float64) uint64 {
	if math.IsNaN(x) {
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(x)
}

// Interpolate returns the y-value at x interpolated between (x1,y1) and
// (x2,y2). It is symmetric in the two points (Interpolate(x,x1,y1,x2,y2)
// == Interpolate(x,x2,y2,x1,y1)), monotone in x, always returns a value
// in [min(y1,y2), max(y1,y2)], and propagates NaN/Inf without overflowing
// the way a direct y1 + (y2-y1)*(x-x1)/(x2-x1) would.
func Interpolate(x, x1, y1, x2, y2 float64) float64 {
	if toBitsNaNCollapse(y1) == toBitsNaNCollapse(y2) {
		return y1
	}
	if (x <= x1 && x1 < x2) || (x >= x1 && x1 > x2) {
		return y1
	}
	if (x <= x2 && x2 < x1) || (x >= x2 && x2 > x1) {
		return y2
	}
	var r float64
	if x1 != x2 && !math.IsInf(y1, 0) && !math.IsInf(y2, 0) && !math.IsNaN(y1) && !math.IsNaN(y2) {
		deltaX := x2 - x1
		deltaY := y2 - y1
		r1 := y1 + deltaY*((x-x1)/deltaX)
		r2 := y2 + deltaY*((x-x2)/deltaX)
		r = r1*0.5 + r2*0.5
	} else {
		r = y1*0.5 + y2*0.5
	}
	switch {
	case r >= y1 && r >= y2:
		return math.Max(y1, y2)
	case r <= y1 && r <= y2:
		return math.Min(y1, y2)
	default:
		return r
	}
}

// Clip returns v clamped into [lo, hi]. ok is false if lo > hi.
func Clip(v, lo, hi int32) (int32, bool) {
	if lo > hi {
		return 0, false
	}
	if v < lo {
		return lo, true
	}
	if v > hi {
		return hi, true
	}
	return v, true
}
