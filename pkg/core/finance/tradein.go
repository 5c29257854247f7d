// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package finance

// Constants of the trade-in valuation model.
const (
	// MaxAgeYears is the oldest accepted car age.
	MaxAgeYears = 50

	// YearlyMileage is the expected distance a car travels per year.
	YearlyMileage = 12000

	minMileageFactor = 0.7
	maxMileageFactor = 1.1

	// mileageWeight scales the relative deviation from the expected
	// mileage before it is applied to the value.
	mileageWeight = 0.2
)

// ageFactors is indexed by the car age in whole years. Ages beyond the
// last entry use the last entry.
var ageFactors = [...]float64{
	0.95, 0.85, 0.75, 0.65, 0.55, 0.50, 0.45, 0.40, 0.35, 0.30, 0.25,
}

// TradeInInput describes a used car which should be valued.
type TradeInInput struct {
	OriginalPrice float64   `json:"original_price"`
	AgeYears      int       `json:"age_years"`
	Condition     Condition `json:"condition"`
	Odometer      float64   `json:"odometer"`
}

// TradeInResult is the outcome of a trade-in valuation. The value is
// the product of the original price and the three reported factors.
type TradeInResult struct {
	Value               float64 `json:"value"`
	AgeFactor           float64 `json:"age_factor"`
	ConditionMultiplier float64 `json:"condition_multiplier"`
	MileageFactor       float64 `json:"mileage_factor"`
	ExpectedMileage     float64 `json:"expected_mileage"`
}

// Validate checks the trade-in input fields.
func (in TradeInInput) Validate() error {
	if err := positive("original_price", in.OriginalPrice); err != nil {
		return err
	}
	if in.AgeYears < 0 || in.AgeYears > MaxAgeYears {
		return invalid(
			"age_years", "must be in [0, %d], got %d",
			MaxAgeYears, in.AgeYears,
		)
	}
	if err := in.Condition.Validate(); err != nil {
		return invalid("condition", "%v", err)
	}
	return nonNegative("odometer", in.Odometer)
}

// AgeFactor returns the tabulated depreciation factor of a car which
// is age years old, clamped at the oldest tabulated age.
func AgeFactor(age int) float64 {
	switch {
	case age < 0:
		return ageFactors[0]
	case age >= len(ageFactors):
		return ageFactors[len(ageFactors)-1]
	}
	return ageFactors[age]
}

// ExpectedMileage returns the baseline odometer reading of a car with
// the given age. A brand-new car is compared with one year of usage.
func ExpectedMileage(age int) float64 {
	return float64(YearlyMileage * max(age, 1))
}

// MileageFactor adjusts the value based on how far the odometer is from
// the expected mileage of the given age. It is bounded to [0.7, 1.1].
func MileageFactor(age int, odometer float64) float64 {
	exp := ExpectedMileage(age)
	f := 1 + mileageWeight*(exp-odometer)/exp
	return min(max(f, minMileageFactor), maxMileageFactor)
}

// TradeIn estimates the trade-in value of a used car as
//
//	original_price * age_factor * condition * mileage_factor
//
// The expected mileage grows with age, so a high-mileage car would be
// penalized less as it gets older. The combined age and mileage factor
// is therefore taken as the minimum over all younger ages, keeping the
// value non-increasing in age for a fixed condition and odometer.
// The reported MileageFactor is the effective one (after that clamp)
// and stays within [0.7, 1.1].
func TradeIn(in TradeInInput) (*TradeInResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	combined := AgeFactor(0) * MileageFactor(0, in.Odometer)
	for a := 1; a <= in.AgeYears; a++ {
		combined = min(combined, AgeFactor(a)*MileageFactor(a, in.Odometer))
	}
	af := AgeFactor(in.AgeYears)
	cm := in.Condition.Multiplier()
	return &TradeInResult{
		Value:               in.OriginalPrice * cm * combined,
		AgeFactor:           af,
		ConditionMultiplier: cm,
		MileageFactor:       combined / af,
		ExpectedMileage:     ExpectedMileage(in.AgeYears),
	}, nil
}
