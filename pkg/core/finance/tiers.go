// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package finance

import (
	"errors"
	"fmt"
)

// Condition is the ordered condition tier of a used car. Although it
// is numeric, it is (de)serialized as a string for readability.
type Condition int

// Valid values for the Condition enum, from the best to the worst.
const (
	ConditionInvalid Condition = iota // zero value is invalid

	ConditionExcellent
	ConditionGood
	ConditionFair
	ConditionPoor
)

// ErrUnknownCondition indicates that a string is not a known
// condition tier name.
var ErrUnknownCondition = errors.New("unknown condition")

// ConditionError indicates an invalid numeric condition value.
type ConditionError int

func (e ConditionError) Error() string {
	return fmt.Sprintf("invalid condition: %d", e)
}

// Multiplier returns the fixed value multiplier of the condition tier.
func (c Condition) Multiplier() float64 {
	switch c {
	case ConditionExcellent:
		return 1.0
	case ConditionGood:
		return 0.9
	case ConditionFair:
		return 0.8
	case ConditionPoor:
		return 0.65
	default:
		panic(ConditionError(c))
	}
}

// Validate returns nil if c is one of the four known tiers.
func (c Condition) Validate() error {
	if c < ConditionExcellent || c > ConditionPoor {
		return ConditionError(c)
	}
	return nil
}

// String converts the condition to its lowercase name. Invalid
// values cause a panic.
func (c Condition) String() string {
	switch c {
	case ConditionExcellent:
		return "excellent"
	case ConditionGood:
		return "good"
	case ConditionFair:
		return "fair"
	case ConditionPoor:
		return "poor"
	default:
		panic(ConditionError(c))
	}
}

// ParseCondition parses the lowercase name of a condition tier.
func ParseCondition(s string) (Condition, error) {
	switch s {
	case "excellent":
		return ConditionExcellent, nil
	case "good":
		return ConditionGood, nil
	case "fair":
		return ConditionFair, nil
	case "poor":
		return ConditionPoor, nil
	default:
		return ConditionInvalid, ErrUnknownCondition
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Condition) MarshalText() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Condition) UnmarshalText(text []byte) error {
	v, err := ParseCondition(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// CreditTier is the self-declared credit standing of a loan applicant.
// CreditPoor is the lowest tier.
type CreditTier int

// Valid values for the CreditTier enum, from the best to the worst.
const (
	CreditInvalid CreditTier = iota // zero value is invalid

	CreditExcellent
	CreditGood
	CreditFair
	CreditPoor
)

// ErrUnknownCreditTier indicates that a string is not a known credit
// tier name.
var ErrUnknownCreditTier = errors.New("unknown credit tier")

// CreditTierError indicates an invalid numeric credit tier value.
type CreditTierError int

func (e CreditTierError) Error() string {
	return fmt.Sprintf("invalid credit tier: %d", e)
}

// Validate returns nil if t is one of the four known tiers.
func (t CreditTier) Validate() error {
	if t < CreditExcellent || t > CreditPoor {
		return CreditTierError(t)
	}
	return nil
}

// String converts the credit tier to its lowercase name. Invalid
// values cause a panic.
func (t CreditTier) String() string {
	switch t {
	case CreditExcellent:
		return "excellent"
	case CreditGood:
		return "good"
	case CreditFair:
		return "fair"
	case CreditPoor:
		return "poor"
	default:
		panic(CreditTierError(t))
	}
}

// ParseCreditTier parses the lowercase name of a credit tier.
func ParseCreditTier(s string) (CreditTier, error) {
	switch s {
	case "excellent":
		return CreditExcellent, nil
	case "good":
		return CreditGood, nil
	case "fair":
		return CreditFair, nil
	case "poor":
		return CreditPoor, nil
	default:
		return CreditInvalid, ErrUnknownCreditTier
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t CreditTier) MarshalText() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *CreditTier) UnmarshalText(text []byte) error {
	v, err := ParseCreditTier(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
