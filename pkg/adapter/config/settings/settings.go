// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the generic helpers which are shared by
// the configuration format versions. They initialize optional pointer
// fields, verify them against their boundary values, parse human
// readable durations, and override them by environment variables.
package settings

import (
	"fmt"
	"strconv"
)

// Getenv looks up an environment variable. It is satisfied by the
// os.Getenv function and may be replaced in tests.
type Getenv func(key string) string

// FromEnv overwrites the `dst` string with the value of the `key`
// environment variable if it is set to a non-empty value.
func FromEnv(getenv Getenv, key string, dst *string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

// IntFromEnv overwrites the `dst` integer with the value of the `key`
// environment variable if it is set to a non-empty value. A non-numeric
// value is reported as an error and keeps dst unchanged.
func IntFromEnv(getenv Getenv, key string, dst *int) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parsing %s=%q: %w", key, v, err)
	}
	*dst = n
	return nil
}
