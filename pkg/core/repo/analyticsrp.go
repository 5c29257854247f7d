// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/model"
)

// AnalyticsQueryer fetches the raw counts which are aggregated into
// dashboards by the pkg/core/market package.
type AnalyticsQueryer interface {
	ProfilesByRole(ctx context.Context) ([]model.Count, error)
	DealersByStatus(ctx context.Context) ([]model.Count, error)
	ListingsByStatus(ctx context.Context) ([]model.Count, error)
	ListingsByMake(ctx context.Context) ([]model.Count, error)

	// InquiryMonths counts inquiries per calendar month since the
	// given time. Months without inquiries are omitted.
	InquiryMonths(
		ctx context.Context, since time.Time,
	) ([]model.MonthCount, error)

	// DealerListings returns the views and inquiries of each listing
	// of the dealerID dealer, leaving the Conversion field unset.
	DealerListings(
		ctx context.Context, dealerID uuid.UUID,
	) ([]model.ListingStats, error)
}

type Analytics interface {
	Conn(Conn) AnalyticsQueryer
}
