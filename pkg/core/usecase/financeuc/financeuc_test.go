// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package financeuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/car-market/internal/test/fakedb"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/finance"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/usecase/financeuc"
	"github.com/stretchr/testify/suite"
)

type quotesRepo struct {
	saved []model.FinanceQuote
}

func (r *quotesRepo) Conn(repo.Conn) repo.QuotesConnQueryer {
	return r
}

func (r *quotesRepo) Tx(repo.Tx) repo.QuotesTxQueryer {
	return r
}

func (r *quotesRepo) Create(
	_ context.Context, q *model.FinanceQuote,
) (*model.FinanceQuote, error) {
	qq := *q
	qq.ID = uuid.New()
	r.saved = append(r.saved, qq)
	return &qq, nil
}

func (r *quotesRepo) List(
	_ context.Context, userID uuid.UUID, p model.Page,
) ([]model.FinanceQuote, error) {
	var qs []model.FinanceQuote
	for _, q := range r.saved {
		if q.UserID == userID {
			qs = append(qs, q)
		}
	}
	return qs, nil
}

type FinanceUseCaseTestSuite struct {
	suite.Suite
	ctx    context.Context
	pool   *fakedb.Pool
	quotes *quotesRepo
	uc     *financeuc.UseCase
	who    *model.Principal
}

func TestFinanceUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(FinanceUseCaseTestSuite))
}

func (fts *FinanceUseCaseTestSuite) SetupTest() {
	fts.ctx = context.Background()
	fts.pool = &fakedb.Pool{}
	fts.quotes = &quotesRepo{}
	var err error
	fts.uc, err = financeuc.New(
		fts.pool, fts.quotes,
		financeuc.WithAnnualRate(8.5),
		financeuc.WithTermMonths(60),
		financeuc.WithHandlingFee(15000),
	)
	fts.Require().NoError(err)
	fts.who = &model.Principal{UserID: uuid.New(), Role: model.RoleCustomer}
}

func (fts *FinanceUseCaseTestSuite) TestOptionsAreValidated() {
	_, err := financeuc.New(fts.pool, fts.quotes, financeuc.WithTermMonths(0))
	fts.Error(err)
	_, err = financeuc.New(
		fts.pool, fts.quotes,
		financeuc.WithAnnualRate(5), financeuc.WithAnnualRate(6),
	)
	fts.Error(err, "duplicate option")
	_, err = financeuc.New(fts.pool, fts.quotes, financeuc.WithHandlingFee(-1))
	fts.Error(err)
}

func (fts *FinanceUseCaseTestSuite) TestEMIUsesDefaults() {
	q, err := fts.uc.EMI(fts.ctx, nil, &financeuc.EMIRequest{
		Price: 1_200_000, Schedule: true,
	})
	fts.Require().NoError(err)
	fts.InDelta(24619.84, q.EMI, 0.01)
	fts.Equal(8.5, q.AnnualRate)
	fts.Len(q.Schedule, 60)
	fts.Nil(q.QuoteID)

	term := 12
	rate := 0.0
	q, err = fts.uc.EMI(fts.ctx, nil, &financeuc.EMIRequest{
		Price: 120_000, TermMonths: &term, AnnualRate: &rate,
	})
	fts.Require().NoError(err)
	fts.Equal(10_000.0, q.EMI)
	fts.Empty(q.Schedule)
}

func (fts *FinanceUseCaseTestSuite) TestInvalidInputsAreBadRequests() {
	term := 0
	_, err := fts.uc.EMI(fts.ctx, nil, &financeuc.EMIRequest{
		Price: 1000, TermMonths: &term,
	})
	fts.requireStatus(err, http.StatusBadRequest)

	_, err = fts.uc.TradeIn(fts.ctx, nil, finance.TradeInInput{
		OriginalPrice: -1, Condition: finance.ConditionGood,
	}, false)
	fts.requireStatus(err, http.StatusBadRequest)

	_, err = fts.uc.CheckLoan(fts.ctx, nil, finance.LoanCheckInput{
		MonthlyPayment: 100, AnnualIncome: 0, Credit: finance.CreditGood,
	}, false)
	fts.requireStatus(err, http.StatusBadRequest)
}

func (fts *FinanceUseCaseTestSuite) TestSavingNeedsAuthentication() {
	_, err := fts.uc.EMI(fts.ctx, nil, &financeuc.EMIRequest{
		Price: 500_000, Save: true,
	})
	fts.requireStatus(err, http.StatusUnauthorized)
	fts.Empty(fts.quotes.saved)
}

func (fts *FinanceUseCaseTestSuite) TestSavedQuotesAreListed() {
	listing := uuid.New()
	q, err := fts.uc.Breakdown(fts.ctx, fts.who, &financeuc.BreakdownRequest{
		ExShowroom: 1_200_000, Save: true, ListingID: &listing,
	})
	fts.Require().NoError(err)
	fts.Require().NotNil(q.QuoteID)
	fts.Equal(15000.0, q.Handling)

	lq, err := fts.uc.CheckLoan(fts.ctx, fts.who, finance.LoanCheckInput{
		MonthlyPayment: 3000, AnnualIncome: 120000, Credit: finance.CreditGood,
	}, true)
	fts.Require().NoError(err)
	fts.Equal(finance.DecisionApproved, lq.Decision)

	qs, err := fts.uc.Quotes(fts.ctx, fts.who, model.Page{})
	fts.Require().NoError(err)
	fts.Require().Len(qs, 2)
	fts.Equal(model.QuoteBreakdown, qs[0].Kind)
	fts.Equal(&listing, qs[0].ListingID)
	var in finance.BreakdownInput
	fts.Require().NoError(json.Unmarshal(qs[0].Input, &in))
	fts.Equal(1_200_000.0, in.ExShowroom)
	fts.Equal(15000.0, in.HandlingFee)
	fts.Equal(model.QuoteLoan, qs[1].Kind)
	fts.Contains(string(qs[1].Result), `"decision":"approved"`)

	other := &model.Principal{UserID: uuid.New(), Role: model.RoleCustomer}
	qs, err = fts.uc.Quotes(fts.ctx, other, model.Page{})
	fts.Require().NoError(err)
	fts.Empty(qs)
}

func (fts *FinanceUseCaseTestSuite) requireStatus(err error, status int) {
	var ce *cerr.Error
	fts.Require().True(errors.As(err, &ce), "got %v", err)
	fts.Equal(status, ce.HTTPStatusCode)
}
