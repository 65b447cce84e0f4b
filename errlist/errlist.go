// Copyright 2014 Volker Dobler.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errlist collects several independent errors into one.
//
// Layout constructors in dynahist check a handful of unrelated
// preconditions (finiteness, sign, ordering) before doing any work; using
// a List lets all violated preconditions be reported together instead of
// stopping at the first one.
package errlist

import (
	"errors"
	"strings"
)

// List is a collection of errors.
type List []error

// Append adds err to el. A nil err is ignored; an err that is itself a
// List is flattened.
func (el List) Append(err error) List {
	if err == nil {
		return el
	}
	if list, ok := err.(List); ok {
		return append(el, list...)
	}
	return append(el, err)
}

// Error implements the error interface.
func (el List) Error() string {
	return strings.Join(el.AsStrings(), "; ")
}

// AsError returns el as an error, returning nil for an empty list.
func (el List) AsError() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// Is reports whether any error in el matches target, so that
// errors.Is(list, target) sees through the list to whatever sentinel its
// individual entries wrap.
func (el List) Is(target error) bool {
	for _, e := range el {
		if errors.Is(e, target) {
			return true
		}
	}
	return false
}

// AsStrings returns the error list as a flat slice of messages.
func (el List) AsStrings() []string {
	s := make([]string, 0, len(el))
	for _, e := range el {
		if nel, ok := e.(List); ok {
			s = append(s, nel.AsStrings()...)
		} else {
			s = append(s, e.Error())
		}
	}
	return s
}
