// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package financeuc

import (
	"errors"
	"fmt"

	"github.com/momeni/car-market/pkg/core/finance"
)

// Option is a functional option for the finance use case.
type Option func(uc *UseCase) error

// WithAnnualRate option configures the default annual interest rate
// (as a percentage) of the EMI computations.
func WithAnnualRate(rate float64) Option {
	return func(uc *UseCase) error {
		if rate < 0 || rate > 100 {
			return fmt.Errorf("annual rate (%v) is not a percentage", rate)
		}
		if uc.annualRate != nil {
			return errors.New("annual rate is already configured")
		}
		uc.annualRate = &rate
		return nil
	}
}

// WithTermMonths option configures the default loan term in months.
func WithTermMonths(months int) Option {
	return func(uc *UseCase) error {
		if months < 1 || months > finance.MaxTermMonths {
			return fmt.Errorf(
				"term (%d) is not in [1, %d]", months, finance.MaxTermMonths,
			)
		}
		if uc.termMonths != nil {
			return errors.New("term is already configured")
		}
		uc.termMonths = &months
		return nil
	}
}

// WithRegistrationRate option configures the default registration
// charge of price breakdowns, as a percentage of the ex-showroom price.
func WithRegistrationRate(rate float64) Option {
	return func(uc *UseCase) error {
		if rate < 0 || rate > 100 {
			return fmt.Errorf(
				"registration rate (%v) is not a percentage", rate,
			)
		}
		if uc.registrationRate != nil {
			return errors.New("registration rate is already configured")
		}
		uc.registrationRate = &rate
		return nil
	}
}

// WithInsuranceRate option configures the default insurance premium
// of price breakdowns, as a percentage of the ex-showroom price.
func WithInsuranceRate(rate float64) Option {
	return func(uc *UseCase) error {
		if rate < 0 || rate > 100 {
			return fmt.Errorf("insurance rate (%v) is not a percentage", rate)
		}
		if uc.insuranceRate != nil {
			return errors.New("insurance rate is already configured")
		}
		uc.insuranceRate = &rate
		return nil
	}
}

// WithHandlingFee option configures the fixed handling fee of the
// price breakdowns.
func WithHandlingFee(fee float64) Option {
	return func(uc *UseCase) error {
		if fee < 0 {
			return fmt.Errorf("handling fee (%v) is negative", fee)
		}
		if uc.handlingFee != nil {
			return errors.New("handling fee is already configured")
		}
		uc.handlingFee = &fee
		return nil
	}
}
