// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package finance

import "math"

// MaxTermMonths is the longest supported loan term (50 years).
const MaxTermMonths = 600

// LoanInput describes a car loan. The financed principal is the
// car price minus the down payment. AnnualRate is a percentage, so
// 8.5 means 8.5% per year.
type LoanInput struct {
	Price       float64 `json:"price"`
	DownPayment float64 `json:"down_payment"`
	AnnualRate  float64 `json:"annual_rate"`
	TermMonths  int     `json:"term_months"`
}

// EMIResult is the outcome of an EMI computation.
type EMIResult struct {
	Principal     float64 `json:"principal"`
	MonthlyRate   float64 `json:"monthly_rate"`
	TermMonths    int     `json:"term_months"`
	EMI           float64 `json:"emi"`
	TotalPayment  float64 `json:"total_payment"`
	TotalInterest float64 `json:"total_interest"`
}

// Installment is one row of an amortization schedule.
type Installment struct {
	Month     int     `json:"month"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// Validate checks the loan input fields. Price must be positive,
// the down payment must be in [0, price), the annual rate must be a
// percentage, and the term must be in [1, MaxTermMonths] months.
func (in LoanInput) Validate() error {
	if err := positive("price", in.Price); err != nil {
		return err
	}
	if err := nonNegative("down_payment", in.DownPayment); err != nil {
		return err
	}
	if in.DownPayment >= in.Price {
		return invalid(
			"down_payment", "must be less than price (%v)", in.Price,
		)
	}
	if err := percentage("annual_rate", in.AnnualRate); err != nil {
		return err
	}
	if in.TermMonths < 1 || in.TermMonths > MaxTermMonths {
		return invalid(
			"term_months", "must be in [1, %d], got %d",
			MaxTermMonths, in.TermMonths,
		)
	}
	return nil
}

// EMI computes the equated monthly installment of the given loan
// using the standard amortization formula
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// where r is the monthly rate (annual percentage / 12 / 100) and n is
// the term in months. A zero rate degrades to P / n exactly.
//
// The growth g = (1+r)^n - 1 is computed by Expm1 and Log1p, so it
// stays positive for tiny rates, and EMI = P * (r + r/g). Inputs whose
// installment or total payment overflow are rejected.
func EMI(in LoanInput) (*EMIResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := in.Price - in.DownPayment
	n := float64(in.TermMonths)
	r := in.AnnualRate / 12 / 100
	emi := p / n
	if r > 0 {
		g := math.Expm1(n * math.Log1p(r))
		emi = max(emi, p*(r+r/g))
	}
	total := emi * n
	if math.IsInf(emi, 0) || math.IsInf(total, 0) ||
		math.IsNaN(emi) || math.IsNaN(total) {
		return nil, invalid(
			"price", "loan of %v is too large to be computed", p,
		)
	}
	return &EMIResult{
		Principal:     p,
		MonthlyRate:   r,
		TermMonths:    in.TermMonths,
		EMI:           emi,
		TotalPayment:  total,
		TotalInterest: total - p,
	}, nil
}

// Schedule expands an EMI result into its amortization schedule.
// The last balance is clamped to zero, absorbing the rounding drift.
func (res *EMIResult) Schedule() []Installment {
	rows := make([]Installment, 0, res.TermMonths)
	balance := res.Principal
	for m := 1; m <= res.TermMonths; m++ {
		interest := balance * res.MonthlyRate
		principal := res.EMI - interest
		balance -= principal
		if m == res.TermMonths || balance < 0 {
			balance = 0
		}
		rows = append(rows, Installment{
			Month:     m,
			Principal: principal,
			Interest:  interest,
			Balance:   balance,
		})
	}
	return rows
}
