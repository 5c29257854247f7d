// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the listings use case.
type Option func(uc *UseCase) error

// WithMaxCompare option configures the maximum number of listings
// which may be compared side by side. It must be at least two.
func WithMaxCompare(n int) Option {
	return func(uc *UseCase) error {
		if n < 2 {
			return fmt.Errorf("max compare (%d) is less than 2", n)
		}
		if uc.maxCompare != 0 {
			return errors.New("max compare is already configured")
		}
		uc.maxCompare = n
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// validation of the model years.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}
