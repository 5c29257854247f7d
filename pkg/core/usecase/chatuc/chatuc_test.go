// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package chatuc_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/car-market/internal/test/fakedb"
	"github.com/momeni/car-market/internal/test/fakerepo"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/usecase/chatuc"
	"github.com/stretchr/testify/suite"
)

type ChatUseCaseTestSuite struct {
	suite.Suite
	ctx      context.Context
	listings *fakerepo.Listings
	uc       *chatuc.UseCase
	customer *model.Principal
	owner    *model.Principal
	dealer   *model.Dealer
	listing  *model.Listing
}

func TestChatUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(ChatUseCaseTestSuite))
}

func (cts *ChatUseCaseTestSuite) SetupTest() {
	cts.ctx = context.Background()
	cts.listings = fakerepo.NewListings()
	dealers := fakerepo.NewDealers()
	cts.uc = chatuc.New(
		&fakedb.Pool{}, fakerepo.NewChat(), cts.listings, dealers, nil,
	)
	cts.customer = &model.Principal{
		UserID: uuid.New(), Role: model.RoleCustomer,
	}
	cts.owner = &model.Principal{UserID: uuid.New(), Role: model.RoleDealer}
	cts.dealer = dealers.Put(model.Dealer{
		UserID: cts.owner.UserID,
		Status: model.DealerApproved,
		Plan:   model.PlanBasic,
	})
	var err error
	cts.listing, err = cts.listings.Create(cts.ctx, &model.Listing{
		DealerID: cts.dealer.ID,
		Make:     "Tata",
		Model:    "Nexon",
		Status:   model.ListingActive,
	})
	cts.Require().NoError(err)
}

func (cts *ChatUseCaseTestSuite) open() *model.Conversation {
	conv, err := cts.uc.Open(cts.ctx, cts.customer, cts.listing.ID)
	cts.Require().NoError(err)
	return conv
}

func (cts *ChatUseCaseTestSuite) TestOpenIsIdempotent() {
	conv := cts.open()
	cts.Equal(cts.dealer.ID, conv.DealerID)
	cts.Equal(cts.owner.UserID, conv.DealerUserID)
	cts.Equal(cts.customer.UserID, conv.CustomerID)
	cts.Equal(conv.ID, cts.open().ID)

	for _, who := range []*model.Principal{cts.customer, cts.owner} {
		cs, err := cts.uc.Conversations(cts.ctx, who, model.Page{})
		cts.Require().NoError(err)
		cts.Require().Len(cs, 1)
		cts.Equal(conv.ID, cs[0].ID)
	}
}

func (cts *ChatUseCaseTestSuite) TestOpenChecksListingAndRole() {
	_, err := cts.uc.Open(cts.ctx, cts.owner, cts.listing.ID)
	cts.requireStatus(err, http.StatusForbidden)
	_, err = cts.uc.Open(cts.ctx, cts.customer, uuid.New())
	cts.requireStatus(err, http.StatusNotFound)

	self := &model.Principal{UserID: cts.owner.UserID, Role: model.RoleCustomer}
	_, err = cts.uc.Open(cts.ctx, self, cts.listing.ID)
	cts.requireStatus(err, http.StatusBadRequest)

	archived := model.ListingArchived
	_, err = cts.listings.Update(
		cts.ctx, cts.listing.ID, cts.dealer.ID,
		&model.ListingPatch{Status: &archived},
	)
	cts.Require().NoError(err)
	_, err = cts.uc.Open(cts.ctx, cts.customer, cts.listing.ID)
	cts.requireStatus(err, http.StatusBadRequest)
}

func (cts *ChatUseCaseTestSuite) TestParticipantsExchangeMessages() {
	conv := cts.open()
	m, err := cts.uc.Post(cts.ctx, cts.customer, conv.ID, "  Hi, is it new?  ")
	cts.Require().NoError(err)
	cts.Equal("Hi, is it new?", m.Body)
	_, err = cts.uc.Post(cts.ctx, cts.owner, conv.ID, "Yes, 2023 model.")
	cts.Require().NoError(err)
	_, err = cts.uc.Post(cts.ctx, cts.owner, conv.ID, "Come by on Monday.")
	cts.Require().NoError(err)

	ms, err := cts.uc.Messages(cts.ctx, cts.customer, conv.ID, model.Page{})
	cts.Require().NoError(err)
	cts.Require().Len(ms, 3)
	cts.Equal(cts.customer.UserID, ms[0].SenderID)

	n, err := cts.uc.MarkRead(cts.ctx, cts.customer, conv.ID)
	cts.Require().NoError(err)
	cts.EqualValues(2, n, "own messages are not marked")
	n, err = cts.uc.MarkRead(cts.ctx, cts.customer, conv.ID)
	cts.Require().NoError(err)
	cts.Zero(n)
	n, err = cts.uc.MarkRead(cts.ctx, cts.owner, conv.ID)
	cts.Require().NoError(err)
	cts.EqualValues(1, n)
}

func (cts *ChatUseCaseTestSuite) TestMessageBounds() {
	conv := cts.open()
	_, err := cts.uc.Post(cts.ctx, cts.customer, conv.ID, " \n ")
	cts.requireStatus(err, http.StatusBadRequest)
	long := strings.Repeat("a", chatuc.MaxMessageLength+1)
	_, err = cts.uc.Post(cts.ctx, cts.customer, conv.ID, long)
	cts.requireStatus(err, http.StatusBadRequest)
	_, err = cts.uc.Post(cts.ctx, cts.customer, conv.ID, long[1:])
	cts.NoError(err)
}

func (cts *ChatUseCaseTestSuite) TestOutsidersAreRejected() {
	conv := cts.open()
	outsider := &model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	_, err := cts.uc.Post(cts.ctx, outsider, conv.ID, "hello")
	cts.requireStatus(err, http.StatusForbidden)
	_, err = cts.uc.Messages(cts.ctx, outsider, conv.ID, model.Page{})
	cts.requireStatus(err, http.StatusForbidden)
	_, err = cts.uc.MarkRead(cts.ctx, outsider, conv.ID)
	cts.requireStatus(err, http.StatusForbidden)
	_, err = cts.uc.Post(cts.ctx, nil, conv.ID, "hello")
	cts.requireStatus(err, http.StatusUnauthorized)
	_, err = cts.uc.Messages(cts.ctx, cts.customer, uuid.New(), model.Page{})
	cts.requireStatus(err, http.StatusNotFound)
}

func (cts *ChatUseCaseTestSuite) requireStatus(err error, status int) {
	var ce *cerr.Error
	cts.Require().True(errors.As(err, &ce), "got %v", err)
	cts.Equal(status, ce.HTTPStatusCode)
}
