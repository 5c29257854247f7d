// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package financeuc contains the finance UseCase which exposes the
// financial estimator to end-users. It fills the omitted parameters
// with the configured defaults, reports invalid inputs as bad requests,
// and optionally saves the computed quotes of authenticated users.
package financeuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/finance"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// UseCase represents a finance use case. It holds a database connection
// pool, the quotes repository instance, and the default estimator
// parameters.
type UseCase struct {
	pool     repo.Pool
	quotesrp repo.Quotes

	annualRate       *float64
	termMonths       *int
	registrationRate *float64
	insuranceRate    *float64
	handlingFee      *float64
}

// New instantiates a finance use case. Omitted options take the
// default values of a 9.5% annual rate, a 60 months term, an 8%
// registration rate, a 3.5% insurance rate, and no handling fee.
func New(p repo.Pool, q repo.Quotes, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, quotesrp: q}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	setDefault(&uc.annualRate, 9.5)
	setDefault(&uc.termMonths, 60)
	setDefault(&uc.registrationRate, 8.0)
	setDefault(&uc.insuranceRate, 3.5)
	setDefault(&uc.handlingFee, 0.0)
	return uc, nil
}

func setDefault[T any](field **T, value T) {
	if *field == nil {
		*field = &value
	}
}

// EMIRequest asks for an EMI computation. Nil AnnualRate and
// TermMonths fields take their default values.
type EMIRequest struct {
	Price       float64
	DownPayment float64
	AnnualRate  *float64
	TermMonths  *int

	// Schedule asks for the amortization schedule too.
	Schedule bool

	Save      bool
	ListingID *uuid.UUID
}

// EMIQuote is the outcome of an EMIRequest. QuoteID is set when
// the quote was saved.
type EMIQuote struct {
	finance.EMIResult
	AnnualRate float64               `json:"annual_rate"`
	Schedule   []finance.Installment `json:"schedule,omitempty"`
	QuoteID    *uuid.UUID            `json:"quote_id,omitempty"`
}

// EMI computes the monthly installment of a car loan.
func (uc *UseCase) EMI(
	ctx context.Context, who *model.Principal, req *EMIRequest,
) (*EMIQuote, error) {
	in := finance.LoanInput{
		Price:       req.Price,
		DownPayment: req.DownPayment,
		AnnualRate:  *uc.annualRate,
		TermMonths:  *uc.termMonths,
	}
	if req.AnnualRate != nil {
		in.AnnualRate = *req.AnnualRate
	}
	if req.TermMonths != nil {
		in.TermMonths = *req.TermMonths
	}
	res, err := finance.EMI(in)
	if err != nil {
		return nil, badRequest(err)
	}
	q := &EMIQuote{EMIResult: *res, AnnualRate: in.AnnualRate}
	if req.Schedule {
		q.Schedule = res.Schedule()
	}
	if req.Save {
		q.QuoteID, err = uc.save(
			ctx, who, model.QuoteEMI, req.ListingID, in, res,
		)
		if err != nil {
			return nil, err
		}
	}
	return q, nil
}

// TradeInQuote is the outcome of a trade-in valuation.
type TradeInQuote struct {
	finance.TradeInResult
	QuoteID *uuid.UUID `json:"quote_id,omitempty"`
}

// TradeIn estimates the trade-in value of a used car.
func (uc *UseCase) TradeIn(
	ctx context.Context,
	who *model.Principal,
	in finance.TradeInInput,
	save bool,
) (*TradeInQuote, error) {
	res, err := finance.TradeIn(in)
	if err != nil {
		return nil, badRequest(err)
	}
	q := &TradeInQuote{TradeInResult: *res}
	if save {
		q.QuoteID, err = uc.save(ctx, who, model.QuoteTradeIn, nil, in, res)
		if err != nil {
			return nil, err
		}
	}
	return q, nil
}

// LoanQuote is the outcome of a loan approval check.
type LoanQuote struct {
	finance.LoanCheckResult
	QuoteID *uuid.UUID `json:"quote_id,omitempty"`
}

// CheckLoan classifies a loan application by its debt-to-income ratio.
func (uc *UseCase) CheckLoan(
	ctx context.Context,
	who *model.Principal,
	in finance.LoanCheckInput,
	save bool,
) (*LoanQuote, error) {
	res, err := finance.CheckLoan(in)
	if err != nil {
		return nil, badRequest(err)
	}
	q := &LoanQuote{LoanCheckResult: *res}
	if save {
		q.QuoteID, err = uc.save(ctx, who, model.QuoteLoan, nil, in, res)
		if err != nil {
			return nil, err
		}
	}
	return q, nil
}

// BreakdownRequest asks for an on-road price breakdown. Nil rates and
// fee take their default values.
type BreakdownRequest struct {
	ExShowroom       float64
	RegistrationRate *float64
	InsuranceRate    *float64
	HandlingFee      *float64

	Save      bool
	ListingID *uuid.UUID
}

// BreakdownQuote is the outcome of a BreakdownRequest.
type BreakdownQuote struct {
	finance.Breakdown
	QuoteID *uuid.UUID `json:"quote_id,omitempty"`
}

// Breakdown computes the on-road price components of a car.
func (uc *UseCase) Breakdown(
	ctx context.Context, who *model.Principal, req *BreakdownRequest,
) (*BreakdownQuote, error) {
	in := finance.BreakdownInput{
		ExShowroom:       req.ExShowroom,
		RegistrationRate: *uc.registrationRate,
		InsuranceRate:    *uc.insuranceRate,
		HandlingFee:      *uc.handlingFee,
	}
	if req.RegistrationRate != nil {
		in.RegistrationRate = *req.RegistrationRate
	}
	if req.InsuranceRate != nil {
		in.InsuranceRate = *req.InsuranceRate
	}
	if req.HandlingFee != nil {
		in.HandlingFee = *req.HandlingFee
	}
	res, err := finance.PriceBreakdown(in)
	if err != nil {
		return nil, badRequest(err)
	}
	q := &BreakdownQuote{Breakdown: *res}
	if req.Save {
		q.QuoteID, err = uc.save(
			ctx, who, model.QuoteBreakdown, req.ListingID, in, res,
		)
		if err != nil {
			return nil, err
		}
	}
	return q, nil
}

// Quotes lists the saved quotes of the who principal, newest first.
func (uc *UseCase) Quotes(
	ctx context.Context, who *model.Principal, p model.Page,
) (qs []model.FinanceQuote, err error) {
	if err = cerr.RequireRole(who); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.quotesrp.Conn(c)
		qs, err = q.List(ctx, who.UserID, p.Normalize())
		return err
	})
	if err != nil {
		qs = nil
	}
	return
}

func (uc *UseCase) save(
	ctx context.Context,
	who *model.Principal,
	kind model.QuoteKind,
	listingID *uuid.UUID,
	in, res any,
) (*uuid.UUID, error) {
	if err := cerr.RequireRole(who); err != nil {
		return nil, err
	}
	input, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s input: %w", kind, err)
	}
	result, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s result: %w", kind, err)
	}
	var saved *model.FinanceQuote
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.quotesrp.Conn(c)
		saved, err = q.Create(ctx, &model.FinanceQuote{
			UserID:    who.UserID,
			ListingID: listingID,
			Kind:      kind,
			Input:     input,
			Result:    result,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("saving %s quote: %w", kind, err)
	}
	return &saved.ID, nil
}

func badRequest(err error) error {
	var ve *finance.ValidationError
	if errors.As(err, &ve) {
		return cerr.BadRequest(err)
	}
	return err
}
