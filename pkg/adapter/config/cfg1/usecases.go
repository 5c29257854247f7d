// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"fmt"

	"github.com/momeni/car-market/pkg/adapter/config/settings"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/usecase/appuc"
	"github.com/momeni/car-market/pkg/core/usecase/financeuc"
	"github.com/momeni/car-market/pkg/core/usecase/listingsuc"
)

// Usecases contains the configuration settings of the settings
// dependent use cases. Each setting may have inclusive minimum and
// maximum boundary values which restrict its database overrides.
// A nil setting leaves the use case default in effect and a nil
// boundary value removes that restriction.
type Usecases struct {
	Finance Finance // financial estimator defaults
	Compare Compare // listings comparison settings
}

// Finance contains the default financial estimator parameters.
type Finance struct {
	AnnualRate    *float64 `yaml:"annual-rate,omitempty"`
	MinAnnualRate *float64 `yaml:"annual-rate-minimum,omitempty"`
	MaxAnnualRate *float64 `yaml:"annual-rate-maximum,omitempty"`

	TermMonths    *int `yaml:"term-months,omitempty"`
	MinTermMonths *int `yaml:"term-months-minimum,omitempty"`
	MaxTermMonths *int `yaml:"term-months-maximum,omitempty"`

	RegistrationRate    *float64 `yaml:"registration-rate,omitempty"`
	MinRegistrationRate *float64 `yaml:"registration-rate-minimum,omitempty"`
	MaxRegistrationRate *float64 `yaml:"registration-rate-maximum,omitempty"`

	InsuranceRate    *float64 `yaml:"insurance-rate,omitempty"`
	MinInsuranceRate *float64 `yaml:"insurance-rate-minimum,omitempty"`
	MaxInsuranceRate *float64 `yaml:"insurance-rate-maximum,omitempty"`

	HandlingFee    *float64 `yaml:"handling-fee,omitempty"`
	MinHandlingFee *float64 `yaml:"handling-fee-minimum,omitempty"`
	MaxHandlingFee *float64 `yaml:"handling-fee-maximum,omitempty"`
}

// NewUseCase instantiates a finance use case with the `f` defaults.
func (f Finance) NewUseCase(
	p repo.Pool, q repo.Quotes,
) (*financeuc.UseCase, error) {
	opts := make([]financeuc.Option, 0, 5)
	if f.AnnualRate != nil {
		opts = append(opts, financeuc.WithAnnualRate(*f.AnnualRate))
	}
	if f.TermMonths != nil {
		opts = append(opts, financeuc.WithTermMonths(*f.TermMonths))
	}
	if f.RegistrationRate != nil {
		opts = append(
			opts, financeuc.WithRegistrationRate(*f.RegistrationRate),
		)
	}
	if f.InsuranceRate != nil {
		opts = append(opts, financeuc.WithInsuranceRate(*f.InsuranceRate))
	}
	if f.HandlingFee != nil {
		opts = append(opts, financeuc.WithHandlingFee(*f.HandlingFee))
	}
	return financeuc.New(p, q, opts...)
}

// Compare contains the listings comparison settings.
type Compare struct {
	MaxListings    *int `yaml:"max-listings,omitempty"`
	MinMaxListings *int `yaml:"max-listings-minimum,omitempty"`
	MaxMaxListings *int `yaml:"max-listings-maximum,omitempty"`
}

// NewUseCase instantiates a listings use case with the `c` settings.
func (c Compare) NewUseCase(
	p repo.Pool, r *appuc.Repos, ports appuc.Ports,
	alerts listingsuc.AlertEvaluator,
) (*listingsuc.UseCase, error) {
	var opts []listingsuc.Option
	if c.MaxListings != nil {
		opts = append(opts, listingsuc.WithMaxCompare(*c.MaxListings))
	}
	return listingsuc.New(
		p, r.Listings, r.Dealers, ports.Sanitizer, alerts, opts...,
	)
}

// verifyRanges adjusts the out of range settings of `u` and reports
// all such violations. An invalid boundary pair is reported too.
func (u *Usecases) verifyRanges() *OutOfBoundsSettingsError {
	e, has := &OutOfBoundsSettingsError{}, false
	f := &u.Finance
	if err := settings.VerifyRange(
		&f.AnnualRate, f.MinAnnualRate, f.MaxAnnualRate,
	); err != nil {
		e.AnnualRate, has = err, true
	}
	if err := settings.VerifyRange(
		&f.TermMonths, f.MinTermMonths, f.MaxTermMonths,
	); err != nil {
		e.TermMonths, has = err, true
	}
	if err := settings.VerifyRange(
		&f.RegistrationRate, f.MinRegistrationRate, f.MaxRegistrationRate,
	); err != nil {
		e.RegistrationRate, has = err, true
	}
	if err := settings.VerifyRange(
		&f.InsuranceRate, f.MinInsuranceRate, f.MaxInsuranceRate,
	); err != nil {
		e.InsuranceRate, has = err, true
	}
	if err := settings.VerifyRange(
		&f.HandlingFee, f.MinHandlingFee, f.MaxHandlingFee,
	); err != nil {
		e.HandlingFee, has = err, true
	}
	c := &u.Compare
	if err := settings.VerifyRange(
		&c.MaxListings, c.MinMaxListings, c.MaxMaxListings,
	); err != nil {
		e.MaxListings, has = err, true
	}
	if !has {
		return nil
	}
	return e
}

// clone deep copies `u`, so the pointers are not shared.
func (u *Usecases) clone() Usecases {
	var cu Usecases
	f, cf := &u.Finance, &cu.Finance
	for _, p := range [][2]**float64{
		{&cf.AnnualRate, &f.AnnualRate},
		{&cf.MinAnnualRate, &f.MinAnnualRate},
		{&cf.MaxAnnualRate, &f.MaxAnnualRate},
		{&cf.RegistrationRate, &f.RegistrationRate},
		{&cf.MinRegistrationRate, &f.MinRegistrationRate},
		{&cf.MaxRegistrationRate, &f.MaxRegistrationRate},
		{&cf.InsuranceRate, &f.InsuranceRate},
		{&cf.MinInsuranceRate, &f.MinInsuranceRate},
		{&cf.MaxInsuranceRate, &f.MaxInsuranceRate},
		{&cf.HandlingFee, &f.HandlingFee},
		{&cf.MinHandlingFee, &f.MinHandlingFee},
		{&cf.MaxHandlingFee, &f.MaxHandlingFee},
	} {
		settings.OverwriteUnconditionally(p[0], *p[1])
	}
	c, cc := &u.Compare, &cu.Compare
	for _, p := range [][2]**int{
		{&cf.TermMonths, &f.TermMonths},
		{&cf.MinTermMonths, &f.MinTermMonths},
		{&cf.MaxTermMonths, &f.MaxTermMonths},
		{&cc.MaxListings, &c.MaxListings},
		{&cc.MinMaxListings, &c.MinMaxListings},
		{&cc.MaxMaxListings, &c.MaxMaxListings},
	} {
		settings.OverwriteUnconditionally(p[0], *p[1])
	}
	return cu
}

func (u *Usecases) validate() error {
	if c := u.Compare.MinMaxListings; c != nil && *c < 2 {
		return fmt.Errorf("max-listings-minimum must be at least 2")
	}
	if err := u.verifyRanges(); err != nil {
		return err
	}
	return nil
}
