// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package finance contains the financial estimator of the car market.
// It computes the equated monthly installment (EMI) of a car loan, the
// trade-in value of a used car, a debt-to-income based loan approval
// heuristic, and the on-road price breakdown of a car.
//
// All functions are pure and synchronous. They take a plain input
// struct and either return a result or a *ValidationError describing
// the first offending field. Nothing is computed partially, so a
// caller never observes a result together with a non-nil error.
// The use cases layer (see financeuc) decides how the validation
// errors should be reported to end-users and whether results should
// be persisted.
package finance

import (
	"fmt"
	"math"
)

// ValidationError indicates that an input field was not acceptable.
// The Field names the offending input in its snake_case form, so it
// can be reported to REST API clients as is.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "must be a finite number")
	}
	return nil
}

func positive(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return invalid(field, "must be positive, got %v", v)
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return invalid(field, "must not be negative, got %v", v)
	}
	return nil
}

func percentage(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if v < 0 || v > 100 {
		return invalid(field, "must be in [0, 100] percent, got %v", v)
	}
	return nil
}
