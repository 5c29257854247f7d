// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package inquiriesuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/internal/test/fakedb"
	"github.com/momeni/car-market/internal/test/fakerepo"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/usecase/inquiriesuc"
	"github.com/stretchr/testify/suite"
)

type InquiriesUseCaseTestSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	repos     inquiriesuc.Repos
	inquiries *fakerepo.Inquiries
	notifs    *fakerepo.Notifications
	mailer    *fakerepo.Mailer
	publisher *fakerepo.Publisher
	uc        *inquiriesuc.UseCase

	customer  *model.Principal
	owner     *model.Principal
	dealer    *model.Dealer
	listing   *model.Listing
	preferred time.Time
}

func TestInquiriesUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(InquiriesUseCaseTestSuite))
}

func (its *InquiriesUseCaseTestSuite) SetupTest() {
	its.ctx = context.Background()
	its.now = time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	its.preferred = its.now.Add(48 * time.Hour)
	its.inquiries = fakerepo.NewInquiries()
	its.notifs = &fakerepo.Notifications{}
	listings := fakerepo.NewListings()
	dealers := fakerepo.NewDealers()
	profiles := fakerepo.NewProfiles()
	its.repos = inquiriesuc.Repos{
		Inquiries:     its.inquiries,
		Listings:      listings,
		Dealers:       dealers,
		Profiles:      profiles,
		Notifications: its.notifs,
	}
	its.mailer = &fakerepo.Mailer{}
	its.publisher = &fakerepo.Publisher{}
	its.uc = inquiriesuc.New(
		&fakedb.Pool{}, its.repos, nil, its.mailer, its.publisher,
		func() time.Time { return its.now },
	)

	its.customer = &model.Principal{
		UserID: uuid.New(), Role: model.RoleCustomer,
	}
	_, err := profiles.Upsert(its.ctx, &model.Profile{
		ID:    its.customer.UserID,
		Email: "asha@example.com",
		Role:  model.RoleCustomer,
	})
	its.Require().NoError(err)
	its.owner = &model.Principal{UserID: uuid.New(), Role: model.RoleDealer}
	its.dealer = dealers.Put(model.Dealer{
		UserID:       its.owner.UserID,
		BusinessName: "Pune Motors",
		Email:        "sales@pune-motors.example",
		Status:       model.DealerApproved,
		Plan:         model.PlanFree,
	})
	its.listing, err = listings.Create(its.ctx, &model.Listing{
		DealerID: its.dealer.ID,
		Make:     "Honda",
		Model:    "City",
		Year:     2020,
		Price:    800_000,
		Status:   model.ListingActive,
	})
	its.Require().NoError(err)
}

func (its *InquiriesUseCaseTestSuite) book() *model.Inquiry {
	inq, err := its.uc.Book(its.ctx, its.customer, &model.Inquiry{
		ListingID:   its.listing.ID,
		PreferredAt: its.preferred,
		Phone:       " +91 98765 43210 ",
		Message:     "Is it available on Saturday?",
	})
	its.Require().NoError(err)
	return inq
}

func (its *InquiriesUseCaseTestSuite) TestBookNotifiesDealer() {
	inq := its.book()
	its.Equal(model.InquiryPending, inq.Status)
	its.Equal(its.dealer.ID, inq.DealerID)
	its.Equal(its.customer.UserID, inq.CustomerID)
	its.Equal("+91 98765 43210", inq.Phone)

	ns := its.notifs.All()
	its.Require().Len(ns, 1)
	its.Equal(model.NotifyInquiryCreated, ns[0].Kind)
	its.Equal(&inq.ID, ns[0].Ref)
	its.Contains(ns[0].Body, "2020 Honda City")
	its.Len(its.publisher.Published(), 1)

	mails := its.mailer.Sent()
	its.Require().Len(mails, 1)
	its.Equal(model.MailInquiryReceived, mails[0].Template)
	its.Equal(its.dealer.Email, mails[0].To)
}

func (its *InquiriesUseCaseTestSuite) TestBookValidatesInputs() {
	_, err := its.uc.Book(its.ctx, its.customer, &model.Inquiry{
		ListingID: its.listing.ID, PreferredAt: its.now,
	})
	its.requireStatus(err, http.StatusBadRequest, "not in the future")

	_, err = its.uc.Book(its.ctx, its.owner, &model.Inquiry{
		ListingID: its.listing.ID, PreferredAt: its.preferred,
	})
	its.requireStatus(err, http.StatusForbidden)

	_, err = its.uc.Book(its.ctx, its.customer, &model.Inquiry{
		ListingID: uuid.New(), PreferredAt: its.preferred,
	})
	its.requireStatus(err, http.StatusNotFound)

	sold := model.ListingSold
	_, err = its.repos.Listings.Tx(nil).Update(
		its.ctx, its.listing.ID, its.dealer.ID,
		&model.ListingPatch{Status: &sold},
	)
	its.Require().NoError(err)
	_, err = its.uc.Book(its.ctx, its.customer, &model.Inquiry{
		ListingID: its.listing.ID, PreferredAt: its.preferred,
	})
	its.requireStatus(err, http.StatusBadRequest, "sold listing")
	its.Empty(its.notifs.All())
	its.Empty(its.mailer.Sent())
}

func (its *InquiriesUseCaseTestSuite) TestDealerConfirmsAndCompletes() {
	inq := its.book()
	inq, err := its.uc.Transition(
		its.ctx, its.owner, inq.ID, model.InquiryConfirmed,
	)
	its.Require().NoError(err)
	its.Equal(model.InquiryConfirmed, inq.Status)

	_, err = its.uc.Transition(
		its.ctx, its.owner, inq.ID, model.InquiryConfirmed,
	)
	its.requireStatus(err, http.StatusConflict)

	inq, err = its.uc.Transition(
		its.ctx, its.owner, inq.ID, model.InquiryCompleted,
	)
	its.Require().NoError(err)
	its.Equal(model.InquiryCompleted, inq.Status)
	_, err = its.uc.Transition(
		its.ctx, its.customer, inq.ID, model.InquiryCancelled,
	)
	its.requireStatus(err, http.StatusConflict, "completed is final")

	mails := its.mailer.Sent()
	its.Require().Len(mails, 3)
	its.Equal(model.MailInquiryStatus, mails[1].Template)
	its.Equal("asha@example.com", mails[1].To)
	its.Contains(mails[2].Subject, "completed")
}

func (its *InquiriesUseCaseTestSuite) TestCustomerMayOnlyCancel() {
	inq := its.book()
	_, err := its.uc.Transition(
		its.ctx, its.customer, inq.ID, model.InquiryConfirmed,
	)
	its.requireStatus(err, http.StatusForbidden)

	inq, err = its.uc.Transition(
		its.ctx, its.customer, inq.ID, model.InquiryCancelled,
	)
	its.Require().NoError(err)
	its.Equal(model.InquiryCancelled, inq.Status)
}

func (its *InquiriesUseCaseTestSuite) TestStrangersDoNotSeeInquiries() {
	inq := its.book()
	otherDealer := &model.Principal{
		UserID: uuid.New(), Role: model.RoleDealer,
	}
	otherCustomer := &model.Principal{
		UserID: uuid.New(), Role: model.RoleCustomer,
	}
	for _, who := range []*model.Principal{otherDealer, otherCustomer} {
		_, err := its.uc.Get(its.ctx, who, inq.ID)
		its.requireStatus(err, http.StatusNotFound)
		_, err = its.uc.Transition(
			its.ctx, who, inq.ID, model.InquiryCancelled,
		)
		its.requireStatus(err, http.StatusNotFound)
	}
	_, err := its.uc.Get(its.ctx, nil, inq.ID)
	its.requireStatus(err, http.StatusUnauthorized)

	admin := &model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	for _, who := range []*model.Principal{its.customer, its.owner, admin} {
		got, err := its.uc.Get(its.ctx, who, inq.ID)
		its.Require().NoError(err)
		its.Equal(inq.ID, got.ID)
	}
}

func (its *InquiriesUseCaseTestSuite) TestList() {
	first := its.book()
	its.preferred = its.preferred.Add(time.Hour)
	second := its.book()
	_, err := its.uc.Transition(
		its.ctx, its.owner, second.ID, model.InquiryConfirmed,
	)
	its.Require().NoError(err)

	is, err := its.uc.List(its.ctx, its.customer, nil, model.Page{})
	its.Require().NoError(err)
	its.Require().Len(is, 2)
	its.Equal(first.ID, is[0].ID)

	confirmed := model.InquiryConfirmed
	is, err = its.uc.List(its.ctx, its.owner, &confirmed, model.Page{})
	its.Require().NoError(err)
	its.Require().Len(is, 1)
	its.Equal(second.ID, is[0].ID)

	admin := &model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err = its.uc.List(its.ctx, admin, nil, model.Page{})
	its.requireStatus(err, http.StatusForbidden)
}

func (its *InquiriesUseCaseTestSuite) requireStatus(
	err error, status int, msgAndArgs ...any,
) {
	var ce *cerr.Error
	its.Require().True(errors.As(err, &ce), "got %v", err)
	its.Equal(status, ce.HTTPStatusCode, msgAndArgs...)
}
