// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dealersuc_test

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
	"github.com/momeni/car-market/pkg/core/usecase/dealersuc"
	"github.com/stretchr/testify/suite"
)

type DealersUseCaseTestSuite struct {
	suite.Suite
	ctx       context.Context
	pool      *fakedb.Pool
	dealers   *fakerepo.Dealers
	notifs    *fakerepo.Notifications
	mailer    *fakerepo.Mailer
	publisher *fakerepo.Publisher
	uc        *dealersuc.UseCase
	admin     *model.Principal
	owner     *model.Principal
}

func TestDealersUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(DealersUseCaseTestSuite))
}

func (dts *DealersUseCaseTestSuite) SetupTest() {
	dts.ctx = context.Background()
	dts.pool = &fakedb.Pool{}
	dts.dealers = fakerepo.NewDealers()
	dts.notifs = &fakerepo.Notifications{}
	dts.mailer = &fakerepo.Mailer{}
	dts.publisher = &fakerepo.Publisher{}
	dts.uc = dealersuc.New(
		dts.pool, dts.dealers, dts.notifs, dts.mailer, dts.publisher,
	)
	dts.admin = &model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	dts.owner = &model.Principal{UserID: uuid.New(), Role: model.RoleDealer}
}

func (dts *DealersUseCaseTestSuite) register() *model.Dealer {
	d, err := dts.uc.Register(dts.ctx, dts.owner, &model.Dealer{
		BusinessName: "Pune Motors",
		Email:        "sales@pune-motors.example",
		City:         "Pune",
		Status:       model.DealerApproved,
		Plan:         model.PlanPremium,
	})
	dts.Require().NoError(err)
	return d
}

func (dts *DealersUseCaseTestSuite) TestRegisterCreatesPendingDealer() {
	d := dts.register()
	dts.Equal(model.DealerPending, d.Status, "status is not user provided")
	dts.Equal(model.PlanFree, d.Plan)
	dts.Equal(dts.owner.UserID, d.UserID)

	ns := dts.notifs.All()
	dts.Require().Len(ns, 1)
	dts.Equal(model.NotifyDealerRegistered, ns[0].Kind)
	dts.Equal(&d.ID, ns[0].Ref)
	dts.Contains(ns[0].Body, "Pune Motors")
	pub := dts.publisher.Published()
	dts.Require().Len(pub, 1)
	dts.Equal(ns[0].ID, pub[0].ID)

	conns, commits, rollbacks := dts.pool.Stats()
	dts.Equal(1, conns)
	dts.Equal(1, commits)
	dts.Equal(0, rollbacks)

	_, err := dts.uc.Register(dts.ctx, dts.owner, &model.Dealer{
		BusinessName: "Pune Motors 2",
		Email:        "other@pune-motors.example",
		City:         "Pune",
	})
	dts.requireStatus(err, http.StatusConflict)
	dts.Len(dts.publisher.Published(), 1)
}

func (dts *DealersUseCaseTestSuite) TestRegisterValidatesFields() {
	cases := map[string]*model.Dealer{
		"short name":  {BusinessName: "P", Email: "a@b.c", City: "Pune"},
		"no city":     {BusinessName: "Pune Motors", Email: "a@b.c"},
		"plain email": {BusinessName: "Pune Motors", Email: "abc", City: "X"},
	}
	for name, d := range cases {
		_, err := dts.uc.Register(dts.ctx, dts.owner, d)
		dts.requireStatus(err, http.StatusBadRequest, name)
	}
	customer := &model.Principal{UserID: uuid.New(), Role: model.RoleCustomer}
	_, err := dts.uc.Register(dts.ctx, customer, &model.Dealer{
		BusinessName: "Pune Motors", Email: "a@b.c", City: "Pune",
	})
	dts.requireStatus(err, http.StatusForbidden)
	_, err = dts.uc.Register(dts.ctx, nil, &model.Dealer{})
	dts.requireStatus(err, http.StatusUnauthorized)
	dts.Empty(dts.notifs.All())
}

func (dts *DealersUseCaseTestSuite) TestApprovalIsMailed() {
	d := dts.register()
	_, err := dts.uc.Transition(
		dts.ctx, dts.owner, d.ID, model.DealerApproved, "",
	)
	dts.requireStatus(err, http.StatusForbidden)

	d, err = dts.uc.Transition(
		dts.ctx, dts.admin, d.ID, model.DealerApproved, "ignored",
	)
	dts.Require().NoError(err)
	dts.Equal(model.DealerApproved, d.Status)
	dts.Empty(d.RejectionReason)
	mails := dts.mailer.Sent()
	dts.Require().Len(mails, 1)
	dts.Equal(model.MailDealerApproved, mails[0].Template)
	dts.Equal("sales@pune-motors.example", mails[0].To)

	_, err = dts.uc.Transition(
		dts.ctx, dts.admin, d.ID, model.DealerApproved, "",
	)
	dts.requireStatus(err, http.StatusConflict)
	_, err = dts.uc.Transition(
		dts.ctx, dts.admin, d.ID, model.DealerRejected, "too late",
	)
	dts.requireStatus(err, http.StatusConflict)

	d, err = dts.uc.Transition(
		dts.ctx, dts.admin, d.ID, model.DealerSuspended, "",
	)
	dts.Require().NoError(err)
	dts.Equal(model.DealerSuspended, d.Status)
	dts.Len(dts.mailer.Sent(), 1, "suspensions are not mailed")
}

func (dts *DealersUseCaseTestSuite) TestRejectionNeedsReason() {
	d := dts.register()
	_, err := dts.uc.Transition(
		dts.ctx, dts.admin, d.ID, model.DealerRejected, "  ",
	)
	dts.requireStatus(err, http.StatusBadRequest)
	_, err = dts.uc.Transition(
		dts.ctx, dts.admin, d.ID, model.DealerStatus("closed"), "",
	)
	dts.requireStatus(err, http.StatusBadRequest)

	d, err = dts.uc.Transition(
		dts.ctx, dts.admin, d.ID, model.DealerRejected, " missing license ",
	)
	dts.Require().NoError(err)
	dts.Equal("missing license", d.RejectionReason)
	mails := dts.mailer.Sent()
	dts.Require().Len(mails, 1)
	dts.Equal(model.MailDealerRejected, mails[0].Template)
	dts.Equal("missing license", mails[0].Data["Reason"])
}

func (dts *DealersUseCaseTestSuite) TestMailFailuresAreTolerated() {
	dts.mailer.Err = errors.New("smtp is down")
	d := dts.register()
	d, err := dts.uc.Transition(
		dts.ctx, dts.admin, d.ID, model.DealerApproved, "",
	)
	dts.Require().NoError(err)
	dts.Equal(model.DealerApproved, d.Status)
}

func (dts *DealersUseCaseTestSuite) TestPendingDealersAreHidden() {
	d := dts.register()
	stranger := &model.Principal{UserID: uuid.New(), Role: model.RoleCustomer}
	_, err := dts.uc.Get(dts.ctx, stranger, d.ID)
	dts.requireStatus(err, http.StatusNotFound)
	_, err = dts.uc.Get(dts.ctx, nil, d.ID)
	dts.requireStatus(err, http.StatusNotFound)

	got, err := dts.uc.Get(dts.ctx, dts.owner, d.ID)
	dts.Require().NoError(err)
	dts.Equal(d.ID, got.ID)
	_, err = dts.uc.Get(dts.ctx, dts.admin, d.ID)
	dts.NoError(err)

	_, err = dts.uc.Transition(
		dts.ctx, dts.admin, d.ID, model.DealerApproved, "",
	)
	dts.Require().NoError(err)
	_, err = dts.uc.Get(dts.ctx, nil, d.ID)
	dts.NoError(err)
}

func (dts *DealersUseCaseTestSuite) TestListIsForAdmins() {
	d := dts.register()
	dts.dealers.Put(model.Dealer{
		UserID: uuid.New(), BusinessName: "Nagpur Cars",
		Status: model.DealerApproved, Plan: model.PlanBasic,
	})

	_, err := dts.uc.List(dts.ctx, dts.owner, nil, model.Page{})
	dts.requireStatus(err, http.StatusForbidden)

	pending := model.DealerPending
	ds, err := dts.uc.List(dts.ctx, dts.admin, &pending, model.Page{})
	dts.Require().NoError(err)
	dts.Require().Len(ds, 1)
	dts.Equal(d.ID, ds[0].ID)

	ds, err = dts.uc.List(dts.ctx, dts.admin, nil, model.Page{})
	dts.Require().NoError(err)
	dts.Len(ds, 2)

	bad := model.DealerStatus("gone")
	_, err = dts.uc.List(dts.ctx, dts.admin, &bad, model.Page{})
	dts.requireStatus(err, http.StatusBadRequest)
}

func (dts *DealersUseCaseTestSuite) requireStatus(
	err error, status int, msgAndArgs ...any,
) {
	var ce *cerr.Error
	dts.Require().True(errors.As(err, &ce), "got %v", err)
	dts.Equal(status, ce.HTTPStatusCode, msgAndArgs...)
}
