// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer is a major.minor.patch version of the configuration file
// format. The same version is stored next to the mutable settings, so
// a settings row is only applied by a compatible binary.
//
// Pre-release suffixes are not supported.
type SemVer [3]uint

// Major returns the first component of sv.
func (sv SemVer) Major() uint {
	return sv[0]
}

// Minor returns the second component of sv.
func (sv SemVer) Minor() uint {
	return sv[1]
}

// ReadableBy reports if a binary which supports the major.minor format
// may load a file of the sv version. Majors must match and sv may not
// carry features of a newer minor.
func (sv SemVer) ReadableBy(major, minor uint) bool {
	return sv.Major() == major && sv.Minor() <= minor
}

// UnmarshalText parses "major[.minor[.patch]]" into sv. Missing
// components are zero. On errors sv is kept unchanged.
func (sv *SemVer) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ".")
	if len(parts) > 3 {
		return fmt.Errorf("version %q has more than 3 components", text)
	}
	var v SemVer
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return fmt.Errorf("version component %q: %w", p, err)
		}
		v[i] = uint(n)
	}
	*sv = v
	return nil
}

// Marshal returns the string form of sv for YAML documents.
func (sv *SemVer) Marshal() string {
	return sv.String()
}

// MarshalText implements encoding.TextMarshaler.
func (sv *SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}
