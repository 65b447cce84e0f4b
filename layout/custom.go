// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"github.com/vdobler/dynahist/errlist"
	"github.com/vdobler/dynahist/internal/algo"
	"github.com/vdobler/dynahist/internal/varint"
)

// serialIDCustom identifies CustomLayout in the binary wire format.
const serialIDCustom = 104

// CustomLayout maps values against an explicit, strictly increasing array
// of cut points rather than a formula. Bin 0 holds every value below
// cutPoints[0]; bin n (n = len(cutPoints)) holds every value at or above
// cutPoints[n-1]; bin i in between holds [cutPoints[i-1], cutPoints[i]).
type CustomLayout struct {
	base
	cutPoints []float64
}

// NewCustomLayout builds a layout from a strictly increasing array of cut
// points. Strictness is enforced via the ordinal ordering (algo.ToOrd), so
// adjacent cut points that differ only by floating-point rounding noise
// (b[i-1] being the float64 that immediately precedes b[i]) are still
// rejected as not strictly increasing in the required sense.
func NewCustomLayout(cutPoints []float64) (*CustomLayout, error) {
	if len(cutPoints) == 0 {
		return nil, errInvalidArgument("custom layout requires at least one cut point")
	}
	cp := make([]float64, len(cutPoints))
	copy(cp, cutPoints)
	var errs errlist.List
	for i := 1; i < len(cp); i++ {
		if algo.ToOrd(cp[i-1]) >= algo.ToOrd(cp[i])-1 {
			errs = errs.Append(errInvalidArgument("custom layout cut points must be strictly increasing and not adjacent floats, got %v then %v at index %d", cp[i-1], cp[i], i))
		}
	}
	if err := errs.AsError(); err != nil {
		return nil, err
	}
	l := &CustomLayout{cutPoints: cp}
	l.base = base{
		mapToBinIndex: l.MapToBinIndex,
		underflow:     0,
		overflow:      int32(len(cp)),
	}
	return l, nil
}

// MapToBinIndex implements Layout.
func (l *CustomLayout) MapToBinIndex(x float64) int32 {
	n := int64(len(l.cutPoints))
	xOrd := algo.ToOrd(x)
	pred := func(j int64) bool {
		return j == n || algo.ToOrd(l.cutPoints[j]) > xOrd
	}
	j, ok := algo.FindFirst(pred, 0, n)
	if !ok {
		return int32(n)
	}
	return int32(j)
}

// SerialID implements Layout.
func (l *CustomLayout) SerialID() uint64 { return serialIDCustom }

// WritePayload implements Layout.
func (l *CustomLayout) WritePayload(w ByteWriter) error {
	const version byte = 0
	if err := w.WriteByte(version); err != nil {
		return err
	}
	if err := varint.WriteUvarint64(w, uint64(len(l.cutPoints))); err != nil {
		return err
	}
	for _, b := range l.cutPoints {
		if err := writeFloat64(w, b); err != nil {
			return err
		}
	}
	return nil
}

func readCustomLayout(r ByteReader) (Layout, error) {
	version, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, errCorruptData("custom layout payload: unsupported version %d", version)
	}
	n, err := varint.ReadUvarint64(r)
	if err != nil {
		return nil, wrapVarintError(err)
	}
	cutPoints := make([]float64, n)
	for i := range cutPoints {
		v, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		cutPoints[i] = v
	}
	return NewCustomLayout(cutPoints)
}
