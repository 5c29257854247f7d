// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package alertsuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/car-market/internal/test/fakedb"
	"github.com/momeni/car-market/internal/test/fakerepo"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/usecase/alertsuc"
	"github.com/stretchr/testify/suite"
)

type AlertsUseCaseTestSuite struct {
	suite.Suite
	ctx      context.Context
	listings *fakerepo.Listings
	alerts   *fakerepo.Alerts
	mailer   *fakerepo.Mailer
	uc       *alertsuc.UseCase
	customer *model.Principal
	listing  *model.Listing
}

func TestAlertsUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(AlertsUseCaseTestSuite))
}

func (ats *AlertsUseCaseTestSuite) SetupTest() {
	ats.ctx = context.Background()
	ats.listings = fakerepo.NewListings()
	ats.alerts = fakerepo.NewAlerts(ats.listings)
	ats.mailer = &fakerepo.Mailer{}
	ats.uc = alertsuc.New(
		&fakedb.Pool{}, ats.alerts, ats.listings, ats.mailer,
	)
	ats.customer = &model.Principal{
		UserID: uuid.New(), Role: model.RoleCustomer,
		Email: "buyer@example.com",
	}
	ats.alerts.Emails[ats.customer.UserID] = ats.customer.Email
	var err error
	ats.listing, err = ats.listings.Create(ats.ctx, &model.Listing{
		DealerID: uuid.New(),
		Make:     "Hyundai",
		Model:    "Creta",
		Year:     2022,
		Price:    1_500_000,
		Status:   model.ListingActive,
	})
	ats.Require().NoError(err)
}

func (ats *AlertsUseCaseTestSuite) setPrice(price float64) {
	_, err := ats.listings.Update(
		ats.ctx, ats.listing.ID, ats.listing.DealerID,
		&model.ListingPatch{Price: &price},
	)
	ats.Require().NoError(err)
}

func (ats *AlertsUseCaseTestSuite) TestCreateAndList() {
	a, err := ats.uc.Create(
		ats.ctx, ats.customer, ats.listing.ID, 1_300_000,
	)
	ats.Require().NoError(err)
	ats.True(a.Active)
	ats.Equal(ats.customer.UserID, a.CustomerID)

	as, err := ats.uc.List(ats.ctx, ats.customer)
	ats.Require().NoError(err)
	ats.Require().Len(as, 1)
	ats.Equal(a.ID, as[0].ID)

	other := &model.Principal{UserID: uuid.New(), Role: model.RoleCustomer}
	as, err = ats.uc.List(ats.ctx, other)
	ats.Require().NoError(err)
	ats.Empty(as)
}

func (ats *AlertsUseCaseTestSuite) TestCreateValidation() {
	for _, target := range []float64{0, -5, 1_500_000, 1_600_000} {
		_, err := ats.uc.Create(ats.ctx, ats.customer, ats.listing.ID, target)
		ats.requireStatus(err, http.StatusBadRequest, "target=%v", target)
	}
	_, err := ats.uc.Create(ats.ctx, ats.customer, uuid.New(), 100)
	ats.requireStatus(err, http.StatusNotFound)

	dealer := &model.Principal{UserID: uuid.New(), Role: model.RoleDealer}
	_, err = ats.uc.Create(ats.ctx, dealer, ats.listing.ID, 100)
	ats.requireStatus(err, http.StatusForbidden)
	_, err = ats.uc.Create(ats.ctx, nil, ats.listing.ID, 100)
	ats.requireStatus(err, http.StatusUnauthorized)

	sold := model.ListingSold
	_, err = ats.listings.Update(
		ats.ctx, ats.listing.ID, ats.listing.DealerID,
		&model.ListingPatch{Status: &sold},
	)
	ats.Require().NoError(err)
	_, err = ats.uc.Create(ats.ctx, ats.customer, ats.listing.ID, 100)
	ats.requireStatus(err, http.StatusBadRequest)
}

func (ats *AlertsUseCaseTestSuite) TestEvaluateTriggersOnce() {
	_, err := ats.uc.Create(
		ats.ctx, ats.customer, ats.listing.ID, 1_300_000,
	)
	ats.Require().NoError(err)

	ats.setPrice(1_400_000)
	n, err := ats.uc.Evaluate(ats.ctx, &ats.listing.ID)
	ats.Require().NoError(err)
	ats.Zero(n, "price is still above the target")

	ats.setPrice(1_300_000)
	n, err = ats.uc.Evaluate(ats.ctx, &ats.listing.ID)
	ats.Require().NoError(err)
	ats.Equal(1, n, "target price is inclusive")
	sent := ats.mailer.Sent()
	ats.Require().Len(sent, 1)
	ats.Equal(ats.customer.Email, sent[0].To)
	ats.Equal(model.MailPriceAlert, sent[0].Template)
	ats.Contains(sent[0].Subject, "Hyundai Creta")

	ats.setPrice(1_000_000)
	n, err = ats.uc.Evaluate(ats.ctx, nil)
	ats.Require().NoError(err)
	ats.Zero(n, "alerts fire once")
	ats.Len(ats.mailer.Sent(), 1)

	as, err := ats.uc.List(ats.ctx, ats.customer)
	ats.Require().NoError(err)
	ats.Require().Len(as, 1)
	ats.False(as[0].Active)
	ats.NotNil(as[0].TriggeredAt)
}

func (ats *AlertsUseCaseTestSuite) TestEvaluateToleratesMailFailures() {
	_, err := ats.uc.Create(
		ats.ctx, ats.customer, ats.listing.ID, 1_300_000,
	)
	ats.Require().NoError(err)
	ats.mailer.Err = errors.New("provider is down")
	ats.setPrice(1_200_000)
	n, err := ats.uc.Evaluate(ats.ctx, nil)
	ats.Require().NoError(err)
	ats.Equal(1, n)
}

func (ats *AlertsUseCaseTestSuite) TestDeleteOwnAlertsOnly() {
	a, err := ats.uc.Create(
		ats.ctx, ats.customer, ats.listing.ID, 1_300_000,
	)
	ats.Require().NoError(err)
	other := &model.Principal{UserID: uuid.New(), Role: model.RoleCustomer}
	ats.requireStatus(
		ats.uc.Delete(ats.ctx, other, a.ID), http.StatusNotFound,
	)
	ats.Require().NoError(ats.uc.Delete(ats.ctx, ats.customer, a.ID))
	ats.requireStatus(
		ats.uc.Delete(ats.ctx, ats.customer, a.ID), http.StatusNotFound,
	)
}

func (ats *AlertsUseCaseTestSuite) requireStatus(
	err error, status int, msgAndArgs ...any,
) {
	var ce *cerr.Error
	ats.Require().True(errors.As(err, &ce), "got %v", err)
	ats.Equal(status, ce.HTTPStatusCode, msgAndArgs...)
}
