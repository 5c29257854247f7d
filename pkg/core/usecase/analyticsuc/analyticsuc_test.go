// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package analyticsuc_test

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
	"github.com/momeni/car-market/pkg/core/market"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/usecase/analyticsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// analytics returns canned counts and records the requested months.
type analytics struct {
	since    time.Time
	stats    []model.ListingStats
	monthErr error
}

func (a *analytics) Conn(repo.Conn) repo.AnalyticsQueryer { return a }

func (a *analytics) ProfilesByRole(context.Context) ([]model.Count, error) {
	return []model.Count{{Key: "customer", Count: 7}, {Key: "dealer", Count: 2}}, nil
}

func (a *analytics) DealersByStatus(context.Context) ([]model.Count, error) {
	return []model.Count{{Key: "approved", Count: 2}}, nil
}

func (a *analytics) ListingsByStatus(context.Context) ([]model.Count, error) {
	return []model.Count{{Key: "active", Count: 4}}, nil
}

func (a *analytics) ListingsByMake(context.Context) ([]model.Count, error) {
	return []model.Count{
		{Key: "Tata", Count: 1}, {Key: "tata", Count: 2},
		{Key: "Kia", Count: 1},
	}, nil
}

func (a *analytics) InquiryMonths(
	_ context.Context, since time.Time,
) ([]model.MonthCount, error) {
	a.since = since
	return []model.MonthCount{{Month: since, Count: 3}}, a.monthErr
}

func (a *analytics) DealerListings(
	context.Context, uuid.UUID,
) ([]model.ListingStats, error) {
	return a.stats, nil
}

var now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func TestAdminDashboard(t *testing.T) {
	a := &analytics{}
	uc := analyticsuc.New(
		&fakedb.Pool{}, a, fakerepo.NewDealers(), fakerepo.NewListings(),
		func() time.Time { return now },
	)
	admin := &model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	d, err := uc.Admin(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, market.MonthsSince(now), a.since)
	assert.EqualValues(t, 7, d.ProfilesByRole["customer"])
	require.NotEmpty(t, d.TopMakes)
	assert.Equal(t, model.Count{Key: "tata", Count: 3}, d.TopMakes[0])
	require.Len(t, d.InquiriesPerMonth, market.DashboardMonths)
	assert.EqualValues(t, 3, d.InquiriesPerMonth[0].Count)

	a.monthErr = errors.New("timeout")
	_, err = uc.Admin(context.Background(), admin)
	assert.ErrorContains(t, err, "inquiries per month")

	dealer := &model.Principal{UserID: uuid.New(), Role: model.RoleDealer}
	_, err = uc.Admin(context.Background(), dealer)
	var ce *cerr.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusForbidden, ce.HTTPStatusCode)
}

func TestDealerDashboard(t *testing.T) {
	ctx := context.Background()
	dealers := fakerepo.NewDealers()
	listings := fakerepo.NewListings()
	owner := &model.Principal{UserID: uuid.New(), Role: model.RoleDealer}
	d := dealers.Put(model.Dealer{
		UserID: owner.UserID, Status: model.DealerApproved,
	})
	_, err := listings.Create(ctx, &model.Listing{
		DealerID: d.ID, Status: model.ListingActive,
	})
	require.NoError(t, err)
	a := &analytics{stats: []model.ListingStats{
		{ListingID: uuid.New(), Views: 10, Inquiries: 1},
		{ListingID: uuid.New(), Views: 40, Inquiries: 4},
	}}
	uc := analyticsuc.New(&fakedb.Pool{}, a, dealers, listings, nil)

	dd, err := uc.Dealer(ctx, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dd.ActiveListings)
	assert.EqualValues(t, 50, dd.TotalViews)
	assert.EqualValues(t, 5, dd.TotalInquiries)
	require.Len(t, dd.TopListings, 2)
	assert.EqualValues(t, 40, dd.TopListings[0].Views)
	assert.InDelta(t, 0.1, dd.TopListings[0].Conversion, 1e-9)

	stranger := &model.Principal{UserID: uuid.New(), Role: model.RoleDealer}
	_, err = uc.Dealer(ctx, stranger)
	assert.True(t, cerr.IsNotFound(err))
}
