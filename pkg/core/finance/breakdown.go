// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package finance

// Tax collected at source applies to cars above this ex-showroom price.
const (
	TCSThreshold = 1_000_000
	TCSRate      = 0.01
)

// BreakdownInput describes how the on-road price of a car should be
// derived from its ex-showroom price. Rates are percentages.
type BreakdownInput struct {
	ExShowroom       float64 `json:"ex_showroom"`
	RegistrationRate float64 `json:"registration_rate"`
	InsuranceRate    float64 `json:"insurance_rate"`
	HandlingFee      float64 `json:"handling_fee"`
}

// Breakdown lists the on-road price components.
type Breakdown struct {
	ExShowroom   float64 `json:"ex_showroom"`
	Registration float64 `json:"registration"`
	Insurance    float64 `json:"insurance"`
	TCS          float64 `json:"tcs"`
	Handling     float64 `json:"handling"`
	OnRoad       float64 `json:"on_road"`
}

// Validate checks the breakdown input fields.
func (in BreakdownInput) Validate() error {
	if err := positive("ex_showroom", in.ExShowroom); err != nil {
		return err
	}
	if err := percentage("registration_rate", in.RegistrationRate); err != nil {
		return err
	}
	if err := percentage("insurance_rate", in.InsuranceRate); err != nil {
		return err
	}
	return nonNegative("handling_fee", in.HandlingFee)
}

// PriceBreakdown computes the on-road price of a car.
func PriceBreakdown(in BreakdownInput) (*Breakdown, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	b := &Breakdown{
		ExShowroom:   in.ExShowroom,
		Registration: in.ExShowroom * in.RegistrationRate / 100,
		Insurance:    in.ExShowroom * in.InsuranceRate / 100,
		Handling:     in.HandlingFee,
	}
	if in.ExShowroom > TCSThreshold {
		b.TCS = in.ExShowroom * TCSRate
	}
	b.OnRoad = b.ExShowroom + b.Registration + b.Insurance + b.TCS +
		b.Handling
	return b, nil
}
