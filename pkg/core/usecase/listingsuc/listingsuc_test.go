// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsuc_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/internal/test/fakedb"
	"github.com/momeni/car-market/internal/test/fakerepo"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/usecase/listingsuc"
	"github.com/stretchr/testify/suite"
)

type tagStripper struct{}

func (tagStripper) Sanitize(s string) string {
	return strings.NewReplacer("<b>", "", "</b>", "").Replace(s)
}

type alertEvaluator struct {
	listings []uuid.UUID
}

func (ae *alertEvaluator) Evaluate(
	_ context.Context, listingID *uuid.UUID,
) (int, error) {
	ae.listings = append(ae.listings, *listingID)
	return 1, nil
}

type ListingsUseCaseTestSuite struct {
	suite.Suite
	ctx      context.Context
	pool     *fakedb.Pool
	listings *fakerepo.Listings
	dealers  *fakerepo.Dealers
	alerts   *alertEvaluator
	uc       *listingsuc.UseCase
	owner    *model.Principal
	dealer   *model.Dealer
}

func TestListingsUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(ListingsUseCaseTestSuite))
}

func (lts *ListingsUseCaseTestSuite) SetupTest() {
	lts.ctx = context.Background()
	lts.pool = &fakedb.Pool{}
	lts.listings = fakerepo.NewListings()
	lts.dealers = fakerepo.NewDealers()
	lts.alerts = &alertEvaluator{}
	now := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	var err error
	lts.uc, err = listingsuc.New(
		lts.pool, lts.listings, lts.dealers, tagStripper{}, lts.alerts,
		listingsuc.WithClock(func() time.Time { return now }),
	)
	lts.Require().NoError(err)
	lts.owner = &model.Principal{UserID: uuid.New(), Role: model.RoleDealer}
	lts.dealer = lts.dealers.Put(model.Dealer{
		UserID:       lts.owner.UserID,
		BusinessName: "Pune Motors",
		Status:       model.DealerApproved,
		Plan:         model.PlanFree,
	})
}

func car(mk string, price float64) *model.Listing {
	return &model.Listing{
		Make:         mk,
		Model:        "City",
		Year:         2020,
		Price:        price,
		Mileage:      42000,
		Fuel:         "petrol",
		Transmission: "manual",
		BodyType:     "sedan",
		City:         "Pune",
	}
}

func (lts *ListingsUseCaseTestSuite) create(l *model.Listing) *model.Listing {
	created, err := lts.uc.Create(lts.ctx, lts.owner, l)
	lts.Require().NoError(err)
	return created
}

func (lts *ListingsUseCaseTestSuite) TestOptionsAreValidated() {
	_, err := listingsuc.New(
		lts.pool, lts.listings, lts.dealers, nil, nil,
		listingsuc.WithMaxCompare(1),
	)
	lts.Error(err)
	_, err = listingsuc.New(
		lts.pool, lts.listings, lts.dealers, nil, nil,
		listingsuc.WithMaxCompare(4), listingsuc.WithMaxCompare(5),
	)
	lts.Error(err)
	_, err = listingsuc.New(
		lts.pool, lts.listings, lts.dealers, nil, nil,
		listingsuc.WithClock(nil),
	)
	lts.Error(err)
	uc, err := listingsuc.New(lts.pool, lts.listings, lts.dealers, nil, nil)
	lts.Require().NoError(err)
	lts.Equal(3, uc.MaxCompare())
}

func (lts *ListingsUseCaseTestSuite) TestCreateCleansAndActivates() {
	l := car("Honda", 800_000)
	l.Description = "<b>Single owner</b>"
	l.Status = model.ListingSold
	l.Views = 99
	created := lts.create(l)
	lts.Equal("Single owner", created.Description)
	lts.Equal(model.ListingActive, created.Status)
	lts.Zero(created.Views)
	lts.Equal(lts.dealer.ID, created.DealerID)
	lts.NotNil(created.Images)

	l = car("Honda", 800_000)
	l.Year = 2026
	_, err := lts.uc.Create(lts.ctx, lts.owner, l)
	lts.requireStatus(err, http.StatusBadRequest)
	var fe *model.FieldError
	lts.True(errors.As(err, &fe))
}

func (lts *ListingsUseCaseTestSuite) TestOnlyApprovedDealersCreate() {
	pendingOwner := &model.Principal{
		UserID: uuid.New(), Role: model.RoleDealer,
	}
	lts.dealers.Put(model.Dealer{
		UserID: pendingOwner.UserID,
		Status: model.DealerPending,
		Plan:   model.PlanFree,
	})
	_, err := lts.uc.Create(lts.ctx, pendingOwner, car("Honda", 1))
	lts.requireStatus(err, http.StatusForbidden)

	customer := &model.Principal{UserID: uuid.New(), Role: model.RoleCustomer}
	_, err = lts.uc.Create(lts.ctx, customer, car("Honda", 1))
	lts.requireStatus(err, http.StatusForbidden)

	stranger := &model.Principal{UserID: uuid.New(), Role: model.RoleDealer}
	_, err = lts.uc.Create(lts.ctx, stranger, car("Honda", 1))
	lts.requireStatus(err, http.StatusNotFound)
	_, _, rollbacks := lts.pool.Stats()
	lts.Equal(2, rollbacks)
}

func (lts *ListingsUseCaseTestSuite) TestFreePlanQuota() {
	var last *model.Listing
	for i := 0; i < model.PlanFree.ListingQuota(); i++ {
		last = lts.create(car("Honda", 500_000))
	}
	_, err := lts.uc.Create(lts.ctx, lts.owner, car("Honda", 500_000))
	lts.requireStatus(err, http.StatusConflict)

	sold := model.ListingSold
	_, err = lts.uc.Update(lts.ctx, lts.owner, last.ID, &model.ListingPatch{
		Status: &sold,
	})
	lts.Require().NoError(err)
	lts.create(car("Honda", 500_000))

	active := model.ListingActive
	_, err = lts.uc.Update(lts.ctx, lts.owner, last.ID, &model.ListingPatch{
		Status: &active,
	})
	lts.requireStatus(err, http.StatusConflict, "reactivation beyond quota")

	lts.dealers.Put(model.Dealer{
		ID:     lts.dealer.ID,
		UserID: lts.owner.UserID,
		Status: model.DealerApproved,
		Plan:   model.PlanPremium,
	})
	_, err = lts.uc.Update(lts.ctx, lts.owner, last.ID, &model.ListingPatch{
		Status: &active,
	})
	lts.NoError(err)
}

func (lts *ListingsUseCaseTestSuite) TestPriceDropEvaluatesAlerts() {
	l := lts.create(car("Honda", 800_000))
	higher := 850_000.0
	_, err := lts.uc.Update(lts.ctx, lts.owner, l.ID, &model.ListingPatch{
		Price: &higher,
	})
	lts.Require().NoError(err)
	lts.Empty(lts.alerts.listings)

	lower := 700_000.0
	updated, err := lts.uc.Update(lts.ctx, lts.owner, l.ID, &model.ListingPatch{
		Price: &lower,
	})
	lts.Require().NoError(err)
	lts.Equal(lower, updated.Price)
	lts.Equal([]uuid.UUID{l.ID}, lts.alerts.listings)
}

func (lts *ListingsUseCaseTestSuite) TestOtherDealersListingsAreHidden() {
	l := lts.create(car("Honda", 800_000))
	other := &model.Principal{UserID: uuid.New(), Role: model.RoleDealer}
	lts.dealers.Put(model.Dealer{
		UserID: other.UserID,
		Status: model.DealerApproved,
		Plan:   model.PlanBasic,
	})
	price := 1.0
	_, err := lts.uc.Update(lts.ctx, other, l.ID, &model.ListingPatch{
		Price: &price,
	})
	lts.requireStatus(err, http.StatusNotFound)
	err = lts.uc.Delete(lts.ctx, other, l.ID)
	lts.requireStatus(err, http.StatusNotFound)

	lts.Require().NoError(lts.uc.Delete(lts.ctx, lts.owner, l.ID))
	_, err = lts.uc.View(lts.ctx, l.ID)
	lts.requireStatus(err, http.StatusNotFound)
}

func (lts *ListingsUseCaseTestSuite) TestSearchSuggestsMakes() {
	lts.create(car("Honda", 800_000))
	lts.create(car("Hyundai", 600_000))
	lts.create(car("Tata", 400_000))

	lp, err := lts.uc.Search(
		lts.ctx, &model.ListingFilter{Make: "honda"}, model.Page{},
	)
	lts.Require().NoError(err)
	lts.EqualValues(1, lp.Total)
	lts.Empty(lp.Suggestions)

	lp, err = lts.uc.Search(
		lts.ctx, &model.ListingFilter{Make: "hondaa"}, model.Page{},
	)
	lts.Require().NoError(err)
	lts.Zero(lp.Total)
	lts.Equal([]string{"Honda"}, lp.Suggestions)

	makes, err := lts.uc.Suggest(lts.ctx, "tatta")
	lts.Require().NoError(err)
	lts.Equal([]string{"Tata"}, makes)

	lp, err = lts.uc.Search(lts.ctx, &model.ListingFilter{}, model.Page{})
	lts.Require().NoError(err)
	lts.Require().Len(lp.Items, 3)
	lts.Equal("Tata", lp.Items[0].Make)
}

func (lts *ListingsUseCaseTestSuite) TestViewCountsViews() {
	l := lts.create(car("Honda", 800_000))
	v, err := lts.uc.View(lts.ctx, l.ID)
	lts.Require().NoError(err)
	lts.EqualValues(1, v.Views)
	v, err = lts.uc.View(lts.ctx, l.ID)
	lts.Require().NoError(err)
	lts.EqualValues(2, v.Views)
}

func (lts *ListingsUseCaseTestSuite) TestCompareBounds() {
	a := lts.create(car("Honda", 800_000))
	b := lts.create(car("Tata", 400_000))
	c := lts.create(car("Hyundai", 600_000))
	d := lts.create(car("Maruti", 300_000))

	_, err := lts.uc.Compare(lts.ctx, []uuid.UUID{a.ID})
	lts.requireStatus(err, http.StatusBadRequest)
	_, err = lts.uc.Compare(lts.ctx, []uuid.UUID{a.ID, b.ID, c.ID, d.ID})
	lts.requireStatus(err, http.StatusBadRequest)
	_, err = lts.uc.Compare(lts.ctx, []uuid.UUID{a.ID, a.ID})
	lts.requireStatus(err, http.StatusBadRequest)
	_, err = lts.uc.Compare(lts.ctx, []uuid.UUID{a.ID, uuid.New()})
	lts.requireStatus(err, http.StatusNotFound)

	cmp, err := lts.uc.Compare(lts.ctx, []uuid.UUID{c.ID, a.ID, b.ID})
	lts.Require().NoError(err)
	lts.Require().Len(cmp.Listings, 3)
	lts.Equal(c.ID, cmp.Listings[0].ID, "requested order is kept")
	lts.Equal(b.ID, cmp.Listings[2].ID)
}

func (lts *ListingsUseCaseTestSuite) TestCompareHidesInactiveListings() {
	a := lts.create(car("Honda", 800_000))
	b := lts.create(car("Tata", 400_000))
	c := lts.create(car("Kia", 900_000))
	for status, l := range map[model.ListingStatus]*model.Listing{
		model.ListingArchived: b, model.ListingSold: c,
	} {
		_, err := lts.uc.Update(lts.ctx, lts.owner, l.ID, &model.ListingPatch{
			Status: &status,
		})
		lts.Require().NoError(err)

		_, err = lts.uc.View(lts.ctx, l.ID)
		lts.requireStatus(err, http.StatusNotFound, "view %s", status)
		_, err = lts.uc.Compare(lts.ctx, []uuid.UUID{a.ID, l.ID})
		lts.requireStatus(err, http.StatusNotFound, "compare %s", status)
	}
}

func (lts *ListingsUseCaseTestSuite) TestInventory() {
	l := lts.create(car("Honda", 800_000))
	lts.create(car("Tata", 400_000))
	sold := model.ListingSold
	_, err := lts.uc.Update(lts.ctx, lts.owner, l.ID, &model.ListingPatch{
		Status: &sold,
	})
	lts.Require().NoError(err)

	lp, err := lts.uc.Inventory(lts.ctx, lts.owner, "", model.Page{})
	lts.Require().NoError(err)
	lts.EqualValues(2, lp.Total)
	lp, err = lts.uc.Inventory(
		lts.ctx, lts.owner, model.ListingSold, model.Page{},
	)
	lts.Require().NoError(err)
	lts.Require().Len(lp.Items, 1)
	lts.Equal(l.ID, lp.Items[0].ID)

	lp, err = lts.uc.Search(lts.ctx, &model.ListingFilter{}, model.Page{})
	lts.Require().NoError(err)
	lts.EqualValues(1, lp.Total, "sold listings are not searched")

	_, err = lts.uc.Inventory(lts.ctx, lts.owner, "lost", model.Page{})
	lts.requireStatus(err, http.StatusBadRequest)
}

func (lts *ListingsUseCaseTestSuite) requireStatus(
	err error, status int, msgAndArgs ...any,
) {
	var ce *cerr.Error
	lts.Require().True(errors.As(err, &ce), "got %v", err)
	lts.Equal(status, ce.HTTPStatusCode, msgAndArgs...)
}
