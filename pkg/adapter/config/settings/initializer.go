// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

// Nil2Zero makes a nil (*t) point to a new zero T value.
// A non-nil (*t) is kept unchanged.
func Nil2Zero[T any](t **T) {
	if (*t) != nil {
		return
	}
	var zero T
	(*t) = &zero
}

// OverwriteNil makes a nil (*dst) point to a copy of (*src).
// Nothing changes if (*dst) is already set or src is nil.
func OverwriteNil[T any](dst **T, src *T) {
	if (*dst) != nil || src == nil {
		return
	}
	t := *src
	(*dst) = &t
}

// OverwriteUnconditionally makes (*dst) point to a copy of (*src), or
// sets it to nil if src is nil. The two pointers never alias, so the
// settings may be mutated separately afterwards.
func OverwriteUnconditionally[T any](dst **T, src *T) {
	if src == nil {
		(*dst) = nil
		return
	}
	t := *src
	(*dst) = &t
}
