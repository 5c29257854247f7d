// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"errors"
	"fmt"

	"github.com/momeni/car-market/pkg/adapter/config/settings"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
)

// Serializable embeds the Settings in addition to their format Version,
// so they can be stored in the settings table as JSON and be checked
// before being applied by the Mutate method.
// The Immutable pointer must be nil when Serializable carries mutable
// settings. Three Serializable instances also represent the settings
// with their minimum and maximum boundary values.
type Serializable struct {
	Version model.SemVer `json:"version"`

	Settings
}

// Settings contains the mutable & invisible (write-only) settings and
// embeds the Visible settings. There are no write-only settings yet.
//
// All fields have pointer types, so they may represent boundary values
// which are not restricted, and a nil value stored in the database can
// ask for the use case default value.
type Settings struct {
	Visible
}

// Visible contains the settings which are visible by end-users.
// The Immutable pointer is non-nil when settings are reported and is
// nil when they are taken from end-users.
type Visible struct {
	Finance struct {
		AnnualRate       *float64 `json:"annual_rate"`
		TermMonths       *int     `json:"term_months"`
		RegistrationRate *float64 `json:"registration_rate"`
		InsuranceRate    *float64 `json:"insurance_rate"`
		HandlingFee      *float64 `json:"handling_fee"`
	} `json:"finance"`
	Compare struct {
		MaxListings *int `json:"max_listings"`
	} `json:"compare"`
	*Immutable
}

// Immutable contains the visible settings which can be configured
// only by the configuration file.
type Immutable struct {
	// Logger reports if the gin access log is enabled. It is nil when
	// Immutable represents boundary values.
	Logger *bool `json:"logger,omitempty"`
}

// OutOfBoundsSettingsError lists the range violations of settings.
// It is returned by Mutate when settings had to be adjusted to their
// boundary values, so the caller may decide to reject them or log it
// as a warning.
type OutOfBoundsSettingsError struct {
	AnnualRate       *settings.OutOfRangeError[float64]
	TermMonths       *settings.OutOfRangeError[int]
	RegistrationRate *settings.OutOfRangeError[float64]
	InsuranceRate    *settings.OutOfRangeError[float64]
	HandlingFee      *settings.OutOfRangeError[float64]
	MaxListings      *settings.OutOfRangeError[int]
}

// Error implements the error interface.
func (e *OutOfBoundsSettingsError) Error() string {
	var errs []error
	add := func(name string, err error) {
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	if e.AnnualRate != nil {
		add("annual rate", e.AnnualRate)
	}
	if e.TermMonths != nil {
		add("term months", e.TermMonths)
	}
	if e.RegistrationRate != nil {
		add("registration rate", e.RegistrationRate)
	}
	if e.InsuranceRate != nil {
		add("insurance rate", e.InsuranceRate)
	}
	if e.HandlingFee != nil {
		add("handling fee", e.HandlingFee)
	}
	if e.MaxListings != nil {
		add("max compare listings", e.MaxListings)
	}
	return "settings are out of bounds: " + errors.Join(errs...).Error()
}

// Mutate overwrites the mutable settings of `c` by `s`. Nil values in
// `s` reset their settings, so the use case defaults apply.
//
// Settings which cross their boundary values take those boundary
// values and an *OutOfBoundsSettingsError is returned after `c` is
// updated. Other errors leave `c` unchanged.
func (c *Config) Mutate(s Serializable) error {
	if s.Immutable != nil {
		return errors.New("immutable settings must not be set")
	}
	if v1 := c.Version(); v1 != s.Version {
		return &cerr.MismatchingSemVerError{v1, s.Version}
	}
	f, sf := &c.Usecases.Finance, &s.Finance
	settings.OverwriteUnconditionally(&f.AnnualRate, sf.AnnualRate)
	settings.OverwriteUnconditionally(&f.TermMonths, sf.TermMonths)
	settings.OverwriteUnconditionally(
		&f.RegistrationRate, sf.RegistrationRate,
	)
	settings.OverwriteUnconditionally(&f.InsuranceRate, sf.InsuranceRate)
	settings.OverwriteUnconditionally(&f.HandlingFee, sf.HandlingFee)
	settings.OverwriteUnconditionally(
		&c.Usecases.Compare.MaxListings, s.Compare.MaxListings,
	)
	if err := c.Usecases.verifyRanges(); err != nil {
		return err
	}
	return nil
}

// Serializable reports the mutable settings of `c`.
func (c *Config) Serializable() *Serializable {
	s := &Serializable{Version: c.Version()}
	f, sf := &c.Usecases.Finance, &s.Finance
	settings.OverwriteUnconditionally(&sf.AnnualRate, f.AnnualRate)
	settings.OverwriteUnconditionally(&sf.TermMonths, f.TermMonths)
	settings.OverwriteUnconditionally(
		&sf.RegistrationRate, f.RegistrationRate,
	)
	settings.OverwriteUnconditionally(&sf.InsuranceRate, f.InsuranceRate)
	settings.OverwriteUnconditionally(&sf.HandlingFee, f.HandlingFee)
	settings.OverwriteUnconditionally(
		&s.Compare.MaxListings, c.Usecases.Compare.MaxListings,
	)
	return s
}

// Visible reports the mutable and immutable settings of `c` which can
// be queried by end-users.
func (c *Config) Visible() *Visible {
	s := c.Serializable()
	l := *c.Gin.Logger
	s.Immutable = &Immutable{Logger: &l}
	return &s.Visible
}

// Bounds reports the minimum and maximum boundary values of settings.
func (c *Config) Bounds() (minb, maxb *Serializable) {
	f, cmp := &c.Usecases.Finance, &c.Usecases.Compare
	minb = &Serializable{Version: c.Version()}
	minb.Immutable = &Immutable{}
	settings.OverwriteUnconditionally(
		&minb.Finance.AnnualRate, f.MinAnnualRate,
	)
	settings.OverwriteUnconditionally(
		&minb.Finance.TermMonths, f.MinTermMonths,
	)
	settings.OverwriteUnconditionally(
		&minb.Finance.RegistrationRate, f.MinRegistrationRate,
	)
	settings.OverwriteUnconditionally(
		&minb.Finance.InsuranceRate, f.MinInsuranceRate,
	)
	settings.OverwriteUnconditionally(
		&minb.Finance.HandlingFee, f.MinHandlingFee,
	)
	settings.OverwriteUnconditionally(
		&minb.Compare.MaxListings, cmp.MinMaxListings,
	)
	maxb = &Serializable{Version: c.Version()}
	maxb.Immutable = &Immutable{}
	settings.OverwriteUnconditionally(
		&maxb.Finance.AnnualRate, f.MaxAnnualRate,
	)
	settings.OverwriteUnconditionally(
		&maxb.Finance.TermMonths, f.MaxTermMonths,
	)
	settings.OverwriteUnconditionally(
		&maxb.Finance.RegistrationRate, f.MaxRegistrationRate,
	)
	settings.OverwriteUnconditionally(
		&maxb.Finance.InsuranceRate, f.MaxInsuranceRate,
	)
	settings.OverwriteUnconditionally(
		&maxb.Finance.HandlingFee, f.MaxHandlingFee,
	)
	settings.OverwriteUnconditionally(
		&maxb.Compare.MaxListings, cmp.MaxMaxListings,
	)
	return minb, maxb
}

// NewSerializable converts the version-independent mutable settings
// of `s` to the format of this package. Immutable settings of `s`
// are ignored.
func NewSerializable(s *model.Settings) Serializable {
	ser := Serializable{Version: Version}
	f, sf := &s.Finance, &ser.Finance
	settings.OverwriteUnconditionally(&sf.AnnualRate, f.AnnualRate)
	settings.OverwriteUnconditionally(&sf.TermMonths, f.TermMonths)
	settings.OverwriteUnconditionally(
		&sf.RegistrationRate, f.RegistrationRate,
	)
	settings.OverwriteUnconditionally(&sf.InsuranceRate, f.InsuranceRate)
	settings.OverwriteUnconditionally(&sf.HandlingFee, f.HandlingFee)
	settings.OverwriteUnconditionally(
		&ser.Compare.MaxListings, s.Compare.MaxListings,
	)
	return ser
}

// Model converts `v` to the version-independent model struct.
func (v *Visible) Model() *model.VisibleSettings {
	vs := &model.VisibleSettings{}
	f, vf := &v.Finance, &vs.Finance
	settings.OverwriteUnconditionally(&vf.AnnualRate, f.AnnualRate)
	settings.OverwriteUnconditionally(&vf.TermMonths, f.TermMonths)
	settings.OverwriteUnconditionally(
		&vf.RegistrationRate, f.RegistrationRate,
	)
	settings.OverwriteUnconditionally(&vf.InsuranceRate, f.InsuranceRate)
	settings.OverwriteUnconditionally(&vf.HandlingFee, f.HandlingFee)
	settings.OverwriteUnconditionally(
		&vs.Compare.MaxListings, v.Compare.MaxListings,
	)
	if v.Immutable != nil {
		vs.ImmutableSettings = &model.ImmutableSettings{}
		if v.Immutable.Logger != nil {
			vs.ImmutableSettings.Logger = *v.Immutable.Logger
		}
	}
	return vs
}

// Model converts `s` to the version-independent model struct.
func (s *Serializable) Model() *model.Settings {
	return &model.Settings{VisibleSettings: *s.Visible.Model()}
}
