// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Settings holds all of the admin-mutable settings. Write-only
// settings would be added here, next to the embedded VisibleSettings.
// The settings repository converts it from and to the configuration
// file format.
type Settings struct {
	VisibleSettings
}

// VisibleSettings are reported to every client. The ImmutableSettings
// pointer is filled when settings are reported and is dropped when an
// update request is deserialized.
type VisibleSettings struct {
	// Finance contains the default financial estimator parameters.
	Finance FinanceSettings `json:"finance"`

	// Compare contains the listings comparison settings.
	Compare CompareSettings `json:"compare"`

	*ImmutableSettings
}

// FinanceSettings represents the default values which are used by the
// financial estimator when a request leaves them out. These settings
// are considered both visible and mutable.
type FinanceSettings struct {
	// AnnualRate is the default annual interest rate in percent.
	AnnualRate *float64 `json:"annual_rate"`

	// TermMonths is the default loan term in months.
	TermMonths *int `json:"term_months"`

	// RegistrationRate is the registration charge in percent of the
	// ex-showroom price.
	RegistrationRate *float64 `json:"registration_rate"`

	// InsuranceRate is the insurance premium in percent of the
	// ex-showroom price.
	InsuranceRate *float64 `json:"insurance_rate"`

	// HandlingFee is the fixed handling charge of a price breakdown.
	HandlingFee *float64 `json:"handling_fee"`
}

// CompareSettings represents the listings comparison settings.
type CompareSettings struct {
	// MaxListings is the maximum number of listings which may be
	// compared side by side.
	MaxListings *int `json:"max_listings"`
}

// ImmutableSettings are visible, but may only be changed in the
// configuration file.
type ImmutableSettings struct {
	// Logger reports if server-side REST API logging is enabled.
	Logger bool `json:"logger"`
}
