// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
)

// OutOfRangeError reports that a setting was outside of its inclusive
// boundary values, or that the boundary values were inverted.
type OutOfRangeError[T cmp.Ordered] struct {
	Value        *T   // the original out of range value
	LessThanMin  bool // minimum was violated (otherwise, maximum)
	InvalidRange bool // minimum was greater than maximum
}

// Error implements the error interface.
func (e *OutOfRangeError[T]) Error() string {
	switch {
	case e.InvalidRange:
		return "min is greater than max"
	case e.LessThanMin:
		return "value is less than min"
	default:
		return "value is greater than max"
	}
}

// VerifyRange checks that (*value) is nil or lies in [minb, maxb],
// where a nil boundary is not enforced. An out of range value is
// replaced by the violated boundary and the original value is kept
// in the returned error.
func VerifyRange[T cmp.Ordered](
	value **T, minb, maxb *T,
) *OutOfRangeError[T] {
	switch {
	case minb != nil && maxb != nil && (*minb) > (*maxb):
		return &OutOfRangeError[T]{InvalidRange: true}
	case (*value) == nil:
		return nil
	}
	switch v := **value; {
	case minb != nil && v < *minb:
		**value = *minb
		return &OutOfRangeError[T]{Value: &v, LessThanMin: true}
	case maxb != nil && v > *maxb:
		**value = *maxb
		return &OutOfRangeError[T]{Value: &v}
	}
	return nil
}
