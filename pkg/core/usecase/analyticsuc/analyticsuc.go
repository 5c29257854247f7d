// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package analyticsuc contains the analytics UseCase which computes
// the admin and dealer dashboards.
package analyticsuc

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/market"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// TopN is the number of top makes and listings in dashboards.
const TopN = 5

// UseCase represents an analytics use case.
type UseCase struct {
	pool        repo.Pool
	analyticsrp repo.Analytics
	dealersrp   repo.Dealers
	listingsrp  repo.Listings
	now         func() time.Time
}

// New instantiates an analytics use case. A nil now function is
// replaced by time.Now.
func New(
	p repo.Pool,
	a repo.Analytics,
	d repo.Dealers,
	l repo.Listings,
	now func() time.Time,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{
		pool:        p,
		analyticsrp: a,
		dealersrp:   d,
		listingsrp:  l,
		now:         now,
	}
}

// Admin computes the admin dashboard.
func (uc *UseCase) Admin(
	ctx context.Context, who *model.Principal,
) (*model.AdminDashboard, error) {
	if err := cerr.RequireRole(who, model.RoleAdmin); err != nil {
		return nil, err
	}
	now := uc.now()
	var (
		profiles, dealers, listings, makes []model.Count
		months                             []model.MonthCount
	)
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.analyticsrp.Conn(c)
		var err error
		if profiles, err = q.ProfilesByRole(ctx); err != nil {
			return fmt.Errorf("profiles by role: %w", err)
		}
		if dealers, err = q.DealersByStatus(ctx); err != nil {
			return fmt.Errorf("dealers by status: %w", err)
		}
		if listings, err = q.ListingsByStatus(ctx); err != nil {
			return fmt.Errorf("listings by status: %w", err)
		}
		if makes, err = q.ListingsByMake(ctx); err != nil {
			return fmt.Errorf("listings by make: %w", err)
		}
		months, err = q.InquiryMonths(ctx, market.MonthsSince(now))
		if err != nil {
			return fmt.Errorf("inquiries per month: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return market.AdminDashboard(
		profiles, dealers, listings, makes, months, now, TopN,
	), nil
}

// Dealer computes the dashboard of the who dealer.
func (uc *UseCase) Dealer(
	ctx context.Context, who *model.Principal,
) (*model.DealerDashboard, error) {
	if err := cerr.RequireRole(who, model.RoleDealer); err != nil {
		return nil, err
	}
	var (
		stats  []model.ListingStats
		active int64
	)
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		d, err := uc.dealersrp.Conn(c).GetByUser(ctx, who.UserID)
		if err != nil {
			return fmt.Errorf("finding dealer: %w", err)
		}
		stats, err = uc.analyticsrp.Conn(c).DealerListings(ctx, d.ID)
		if err != nil {
			return fmt.Errorf("dealer listings: %w", err)
		}
		active, err = uc.listingsrp.Conn(c).CountActive(ctx, d.ID)
		if err != nil {
			return fmt.Errorf("counting active listings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return market.DealerDashboard(stats, active, TopN), nil
}
