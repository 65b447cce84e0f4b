// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import "github.com/vdobler/dynahist/internal/varint"

// serialIDLogLinear identifies LogLinearLayout in the binary wire format.
const serialIDLogLinear = 100

// LogLinearLayout approximates log2(|x|) linearly within each octave. It
// is the cheapest of the log-family layouts to evaluate and produces the
// most bins for a given relative-width bound.
type LogLinearLayout struct {
	*logLayout
}

// NewLogLinearLayout builds a layout whose bin width never exceeds
// max(absoluteBinWidthLimit, relativeBinWidthLimit * |x|) for any value x
// in [lower, upper].
func NewLogLinearLayout(absoluteBinWidthLimit, relativeBinWidthLimit, lower, upper float64) (*LogLinearLayout, error) {
	l, err := newLogLayoutFromRange(absoluteBinWidthLimit, relativeBinWidthLimit, lower, upper, 1, hLogLinear, serialIDLogLinear, false)
	if err != nil {
		return nil, err
	}
	return &LogLinearLayout{logLayout: l}, nil
}

// SerialID implements Layout.
func (l *LogLinearLayout) SerialID() uint64 { return serialIDLogLinear }

// WritePayload implements Layout.
func (l *LogLinearLayout) WritePayload(w ByteWriter) error {
	return writeLogLayoutPayload(w, l.logLayout)
}

func readLogLinearLayout(r ByteReader) (Layout, error) {
	a, rel, underflow, overflow, err := readLogLayoutPayload(r)
	if err != nil {
		return nil, err
	}
	l, err := newLogLayoutFromIndices(a, rel, underflow, overflow, 1, hLogLinear, serialIDLogLinear, false)
	if err != nil {
		return nil, err
	}
	return &LogLinearLayout{logLayout: l}, nil
}

// writeLogLayoutPayload writes the shared log-family wire payload: one
// version byte, the two width limits, and the persisted under/overflow
// bin indices (not the original value range, which the indices already
// determine exactly).
func writeLogLayoutPayload(w ByteWriter, l *logLayout) error {
	const version byte = 0
	if err := w.WriteByte(version); err != nil {
		return err
	}
	if err := writeFloat64(w, l.absoluteBinWidthLimit); err != nil {
		return err
	}
	if err := writeFloat64(w, l.relativeBinWidthLimit); err != nil {
		return err
	}
	if err := varint.WriteVarint32(w, l.UnderflowBinIndex()); err != nil {
		return err
	}
	return varint.WriteVarint32(w, l.OverflowBinIndex())
}

func readLogLayoutPayload(r ByteReader) (a, rel float64, underflow, overflow int32, err error) {
	version, err := r.ReadByte()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if version != 0 {
		return 0, 0, 0, 0, errCorruptData("log layout payload: unsupported version %d", version)
	}
	if a, err = readFloat64(r); err != nil {
		return 0, 0, 0, 0, err
	}
	if rel, err = readFloat64(r); err != nil {
		return 0, 0, 0, 0, err
	}
	if underflow, err = varint.ReadVarint32(r); err != nil {
		return 0, 0, 0, 0, wrapVarintError(err)
	}
	if overflow, err = varint.ReadVarint32(r); err != nil {
		return 0, 0, 0, 0, wrapVarintError(err)
	}
	return a, rel, underflow, overflow, nil
}
