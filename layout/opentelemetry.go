// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"math"
	"sync"

	"github.com/vdobler/dynahist/errlist"
)

// serialIDOpenTelemetry identifies OpenTelemetryExponentialBucketsLayout in
// the binary wire format.
const serialIDOpenTelemetry = 103

// otelMaxPrecision is the highest supported OpenTelemetry exponential
// histogram scale; bin width at this precision is a factor of 2^(2^-10)
// per bin.
const otelMaxPrecision = 10

// otelScaleFactors are 2^scale / ln(2), one per supported scale, used to
// turn a mantissa's natural logarithm into an integer sub-exponent index
// without a division per value mapped.
var otelScaleFactors = [otelMaxPrecision + 1]float64{
	math.Ldexp(math.Log2E, 0),
	math.Ldexp(math.Log2E, 1),
	math.Ldexp(math.Log2E, 2),
	math.Ldexp(math.Log2E, 3),
	math.Ldexp(math.Log2E, 4),
	math.Ldexp(math.Log2E, 5),
	math.Ldexp(math.Log2E, 6),
	math.Ldexp(math.Log2E, 7),
	math.Ldexp(math.Log2E, 8),
	math.Ldexp(math.Log2E, 9),
	math.Ldexp(math.Log2E, 10),
}

// OpenTelemetryExponentialBucketsLayout maps values into OpenTelemetry
// exponential-histogram buckets at a fixed precision: bin width is a
// factor of 2^(2^-precision) for every bin, across the full representable
// float64 magnitude range. Instances are cached per precision since the
// layout carries no other state.
type OpenTelemetryExponentialBucketsLayout struct {
	base
	precision int
}

var (
	otelCacheMu sync.Mutex
	otelCache   [otelMaxPrecision + 1]*OpenTelemetryExponentialBucketsLayout
)

// NewOpenTelemetryExponentialBucketsLayout returns the cached layout
// instance for precision, constructing it on first use. precision must be
// in [0, 10].
func NewOpenTelemetryExponentialBucketsLayout(precision int) (*OpenTelemetryExponentialBucketsLayout, error) {
	var errs errlist.List
	if precision < 0 || precision > otelMaxPrecision {
		errs = errs.Append(errInvalidArgument("opentelemetry layout precision must be in [0, %d], got %d", otelMaxPrecision, precision))
	}
	if err := errs.AsError(); err != nil {
		return nil, err
	}
	otelCacheMu.Lock()
	defer otelCacheMu.Unlock()
	if l := otelCache[precision]; l != nil {
		return l, nil
	}
	l := &OpenTelemetryExponentialBucketsLayout{precision: precision}
	unsignedAt := func(absX float64) int64 { return otelGetBin(absX, precision) }
	smallest := unsignedAt(math.SmallestNonzeroFloat64)
	largest := unsignedAt(math.MaxFloat64)
	l.base = base{
		mapToBinIndex: l.MapToBinIndex,
		underflow:     int32(clampInt64(smallest-1, math.MinInt32, math.MaxInt32)),
		overflow:      int32(clampInt64(largest+1, math.MinInt32, math.MaxInt32)),
	}
	otelCache[precision] = l
	return l, nil
}

// otelGetBin returns the unsigned bucket index for a positive, finite,
// non-zero v at the given precision, following the OpenTelemetry Go SDK's
// getBin exactly (its "scale" parameter is this layout's precision,
// always non-negative here).
func otelGetBin(v float64, precision int) int64 {
	frac, exp := math.Frexp(v)
	if precision <= 0 {
		correction := 1
		if frac == 0.5 {
			correction = 2
		}
		return int64(exp - correction)
	}
	return int64(exp)<<uint(precision) + int64(math.Log(frac)*otelScaleFactors[precision]) - 1
}

// MapToBinIndex implements Layout.
func (l *OpenTelemetryExponentialBucketsLayout) MapToBinIndex(x float64) int32 {
	if x == 0 {
		return l.UnderflowBinIndex()
	}
	absX := math.Abs(x)
	idx := otelGetBin(absX, l.precision)
	if math.Signbit(x) {
		idx = ^idx
	}
	return int32(clampInt64(idx, math.MinInt32, math.MaxInt32))
}

// SerialID implements Layout.
func (l *OpenTelemetryExponentialBucketsLayout) SerialID() uint64 { return serialIDOpenTelemetry }

// WritePayload implements Layout.
func (l *OpenTelemetryExponentialBucketsLayout) WritePayload(w ByteWriter) error {
	const version byte = 0
	if err := w.WriteByte(version); err != nil {
		return err
	}
	return w.WriteByte(byte(l.precision))
}

func readOpenTelemetryLayout(r ByteReader) (Layout, error) {
	version, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, errCorruptData("opentelemetry layout payload: unsupported version %d", version)
	}
	precisionByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	return NewOpenTelemetryExponentialBucketsLayout(int(precisionByte))
}
