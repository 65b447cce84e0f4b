// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errlist

import (
	"errors"
	"testing"
)

func TestListAppendNil(t *testing.T) {
	var el List
	el = el.Append(nil)
	if len(el) != 0 {
		t.Errorf("got %d errors, want 0", len(el))
	}
	if el.AsError() != nil {
		t.Errorf("AsError on empty list = %v, want nil", el.AsError())
	}
}

func TestListAppendFlatten(t *testing.T) {
	var inner List
	inner = inner.Append(errors.New("a"))
	inner = inner.Append(errors.New("b"))

	var outer List
	outer = outer.Append(errors.New("x"))
	outer = outer.Append(inner)

	if len(outer) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(outer), outer)
	}
	want := "x; a; b"
	if got := outer.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
