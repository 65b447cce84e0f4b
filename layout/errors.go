// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"errors"
	"fmt"

	"github.com/vdobler/dynahist/internal/varint"
)

// ErrInvalidArgument is returned when a layout constructor's parameters
// violate a precondition (non-finite bound, empty range, non-increasing
// cut points, ...).
var ErrInvalidArgument = errors.New("layout: invalid argument")

// ErrCorruptData is returned while decoding a layout from a byte stream
// whose contents do not match its declared shape, including a varint
// that overruns its continuation-byte budget.
var ErrCorruptData = errors.New("layout: corrupt data")

type wrappedError struct {
	kind error
	msg  string
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.kind }

func errInvalidArgument(format string, args ...any) error {
	return &wrappedError{kind: ErrInvalidArgument, msg: fmt.Sprintf(format, args...)}
}

func errCorruptData(format string, args ...any) error {
	return &wrappedError{kind: ErrCorruptData, msg: fmt.Sprintf(format, args...)}
}

// wrapVarintError turns a varint.ErrOverrun into the package's
// ErrCorruptData kind, since a continuation-byte budget overrun always
// means the stream is malformed, not a transient read failure.
func wrapVarintError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, varint.ErrOverrun) {
		return errCorruptData("%v", err)
	}
	return err
}
