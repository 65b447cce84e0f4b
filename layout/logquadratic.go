// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

// serialIDLogQuadratic identifies LogQuadraticLayout in the binary wire
// format.
const serialIDLogQuadratic = 101

// LogQuadraticLayout approximates log2(|x|) with a concave quadratic
// curve across each octave's mantissa. It needs about three quarters as
// many bins as LogLinearLayout for the same relative-width bound, at the cost
// of one extra multiply per value mapped.
type LogQuadraticLayout struct {
	*logLayout
}

// NewLogQuadraticLayout builds a layout whose bin width never exceeds
// max(absoluteBinWidthLimit, relativeBinWidthLimit * |x|) for any value x
// in [lower, upper].
func NewLogQuadraticLayout(absoluteBinWidthLimit, relativeBinWidthLimit, lower, upper float64) (*LogQuadraticLayout, error) {
	l, err := newLogLayoutFromRange(absoluteBinWidthLimit, relativeBinWidthLimit, lower, upper, 0.25, hLogQuadratic, serialIDLogQuadratic, false)
	if err != nil {
		return nil, err
	}
	return &LogQuadraticLayout{logLayout: l}, nil
}

// SerialID implements Layout.
func (l *LogQuadraticLayout) SerialID() uint64 { return serialIDLogQuadratic }

// WritePayload implements Layout.
func (l *LogQuadraticLayout) WritePayload(w ByteWriter) error {
	return writeLogLayoutPayload(w, l.logLayout)
}

func readLogQuadraticLayout(r ByteReader) (Layout, error) {
	a, rel, underflow, overflow, err := readLogLayoutPayload(r)
	if err != nil {
		return nil, err
	}
	l, err := newLogLayoutFromIndices(a, rel, underflow, overflow, 0.25, hLogQuadratic, serialIDLogQuadratic, false)
	if err != nil {
		return nil, err
	}
	return &LogQuadraticLayout{logLayout: l}, nil
}
