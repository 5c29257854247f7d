// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package finance

import (
	"errors"
	"fmt"
)

// Debt-to-income thresholds of the loan approval heuristic.
const (
	ApprovedMaxDTI    = 0.30
	ConditionalMaxDTI = 0.45
)

// Decision is the outcome of the loan approval heuristic.
type Decision int

// Valid values for the Decision enum.
const (
	DecisionInvalid Decision = iota // zero value is invalid

	DecisionApproved
	DecisionConditional
	DecisionNeedsReview
)

// ErrUnknownDecision indicates that a string is not a known decision.
var ErrUnknownDecision = errors.New("unknown decision")

// DecisionError indicates an invalid numeric decision value.
type DecisionError int

func (e DecisionError) Error() string {
	return fmt.Sprintf("invalid decision: %d", e)
}

// String converts d to its snake_case name. Invalid values panic.
func (d Decision) String() string {
	switch d {
	case DecisionApproved:
		return "approved"
	case DecisionConditional:
		return "conditional"
	case DecisionNeedsReview:
		return "needs_review"
	default:
		panic(DecisionError(d))
	}
}

// ParseDecision parses the snake_case name of a decision.
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "approved":
		return DecisionApproved, nil
	case "conditional":
		return DecisionConditional, nil
	case "needs_review":
		return DecisionNeedsReview, nil
	default:
		return DecisionInvalid, ErrUnknownDecision
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Decision) MarshalText() ([]byte, error) {
	switch d {
	case DecisionApproved, DecisionConditional, DecisionNeedsReview:
		return []byte(d.String()), nil
	default:
		return nil, DecisionError(d)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decision) UnmarshalText(text []byte) error {
	v, err := ParseDecision(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// LoanCheckInput contains the inputs of the loan approval heuristic.
type LoanCheckInput struct {
	MonthlyPayment float64    `json:"monthly_payment"`
	AnnualIncome   float64    `json:"annual_income"`
	Credit         CreditTier `json:"credit"`
}

// LoanCheckResult reports the debt-to-income ratio and the decision.
type LoanCheckResult struct {
	DTI      float64  `json:"dti"`
	Decision Decision `json:"decision"`
}

// Validate checks the loan check input fields.
func (in LoanCheckInput) Validate() error {
	if err := positive("monthly_payment", in.MonthlyPayment); err != nil {
		return err
	}
	if err := positive("annual_income", in.AnnualIncome); err != nil {
		return err
	}
	if err := in.Credit.Validate(); err != nil {
		return invalid("credit", "%v", err)
	}
	return nil
}

// CheckLoan computes DTI = monthly_payment / (annual_income / 12) and
// classifies it. Approval needs DTI <= 30% and a credit tier other than
// the lowest one. Otherwise, DTI <= 45% is conditional and anything
// above that needs a manual review.
func CheckLoan(in LoanCheckInput) (*LoanCheckResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	dti := in.MonthlyPayment * 12 / in.AnnualIncome
	var d Decision
	switch {
	case dti <= ApprovedMaxDTI && in.Credit != CreditPoor:
		d = DecisionApproved
	case dti <= ConditionalMaxDTI:
		d = DecisionConditional
	default:
		d = DecisionNeedsReview
	}
	return &LoanCheckResult{DTI: dti, Decision: d}, nil
}
