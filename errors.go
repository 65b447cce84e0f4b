// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynahist

import (
	"errors"
	"fmt"

	"github.com/vdobler/dynahist/internal/varint"
)

// Sentinel errors identifying the flat error taxonomy of dynahist. Use
// errors.Is to test which kind a returned error belongs to.
var (
	// ErrInvalidArgument marks a rejected precondition, e.g. lo > hi, a
	// non-positive absolute bin width limit, or a negative count.
	ErrInvalidArgument = errors.New("dynahist: invalid argument")

	// ErrInvalidValue marks a NaN passed to AddValue, AddValues or
	// AddAscendingSequence. Count overflow is reported as ErrOverflow.
	ErrInvalidValue = errors.New("dynahist: invalid value")

	// ErrOverflow marks an addition that would make TotalCount exceed
	// math.MaxInt64.
	ErrOverflow = errors.New("dynahist: total count overflow")

	// ErrEmpty marks an operation that requires a non-empty histogram,
	// or a bin-iterator step past the first/last non-empty bin.
	ErrEmpty = errors.New("dynahist: histogram is empty")

	// ErrUnsupported marks a mutation attempted on an immutable
	// histogram (PreprocessedHistogram).
	ErrUnsupported = errors.New("dynahist: unsupported operation")

	// ErrCorruptData marks malformed serialized histogram data: a varint
	// that overruns its continuation budget, or an info byte with
	// unexpected flags or an out-of-range mode. Errors decoding a layout,
	// including a layout
	// serial id that is not registered, are returned unwrapped as
	// layout.ErrCorruptData.
	ErrCorruptData = errors.New("dynahist: corrupt data")

	// ErrVersionMismatch marks a serial version byte other than the one
	// this package writes.
	ErrVersionMismatch = errors.New("dynahist: serial version mismatch")

	// ErrIO names the kind for a failure of the underlying byte sink or
	// source. No function in this package returns it: errors from the
	// underlying io.Reader or io.Writer are returned unwrapped.
	ErrIO = errors.New("dynahist: io error")
)

// Error wraps one of the sentinel errors above with contextual detail. It
// supports errors.Is and errors.As against the wrapped sentinel.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

// Unwrap returns the sentinel this error wraps, enabling errors.Is(err,
// ErrInvalidArgument) and friends.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func invalidArgumentf(format string, args ...any) *Error {
	return newError(ErrInvalidArgument, format, args...)
}

func invalidValuef(format string, args ...any) *Error {
	return newError(ErrInvalidValue, format, args...)
}

func overflowf(format string, args ...any) *Error {
	return newError(ErrOverflow, format, args...)
}

func emptyf(format string, args ...any) *Error {
	return newError(ErrEmpty, format, args...)
}

func unsupportedf(format string, args ...any) *Error {
	return newError(ErrUnsupported, format, args...)
}

func corruptDataf(format string, args ...any) *Error {
	return newError(ErrCorruptData, format, args...)
}

// wrapVarintError turns a varint.ErrOverrun into ErrCorruptData, since a
// continuation-byte budget overrun always means the stream is malformed,
// not a transient read failure.
func wrapVarintError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, varint.ErrOverrun) {
		return corruptDataf("%v", err)
	}
	return err
}
