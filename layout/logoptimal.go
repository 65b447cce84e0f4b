// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

// serialIDLogOptimal identifies LogOptimalLayout in the binary wire
// format.
const serialIDLogOptimal = 102

// LogOptimalLayout maps |x| through its exact natural logarithm, the
// fewest bins any layout can use to meet a given relative-width bound. It
// is the most expensive of the three to evaluate, since it calls
// math.Log per value rather than reading the IEEE exponent/mantissa
// bits directly.
type LogOptimalLayout struct {
	*logLayout
}

// NewLogOptimalLayout builds a layout whose bin width never exceeds
// max(absoluteBinWidthLimit, relativeBinWidthLimit * |x|) for any value x
// in [lower, upper].
func NewLogOptimalLayout(absoluteBinWidthLimit, relativeBinWidthLimit, lower, upper float64) (*LogOptimalLayout, error) {
	l, err := newLogLayoutFromRange(absoluteBinWidthLimit, relativeBinWidthLimit, lower, upper, 1, hLogOptimal, serialIDLogOptimal, true)
	if err != nil {
		return nil, err
	}
	return &LogOptimalLayout{logLayout: l}, nil
}

// SerialID implements Layout.
func (l *LogOptimalLayout) SerialID() uint64 { return serialIDLogOptimal }

// WritePayload implements Layout.
func (l *LogOptimalLayout) WritePayload(w ByteWriter) error {
	return writeLogLayoutPayload(w, l.logLayout)
}

func readLogOptimalLayout(r ByteReader) (Layout, error) {
	a, rel, underflow, overflow, err := readLogLayoutPayload(r)
	if err != nil {
		return nil, err
	}
	l, err := newLogLayoutFromIndices(a, rel, underflow, overflow, 1, hLogOptimal, serialIDLogOptimal, true)
	if err != nil {
		return nil, err
	}
	return &LogOptimalLayout{logLayout: l}, nil
}
