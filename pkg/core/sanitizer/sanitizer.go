// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sanitizer defines the port which cleans user provided
// rich text before it is stored and rendered for other users.
package sanitizer

// Sanitizer removes unsafe markup from user provided text.
type Sanitizer interface {
	// Sanitize returns s without any unsafe element or attribute.
	Sanitize(s string) string
}
