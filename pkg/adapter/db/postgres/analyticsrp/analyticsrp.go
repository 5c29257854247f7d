// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package analyticsrp is the PostgreSQL adapter of the repo.Analytics
// repository. It only aggregates the rows of other repositories and
// never writes, so it works on connections.
package analyticsrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// Repo represents the analytics repository instance.
type Repo struct {
}

// New instantiates an analytics Repo struct.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn wraps the given *postgres.Conn as a repo.AnalyticsQueryer.
func (a *Repo) Conn(c repo.Conn) repo.AnalyticsQueryer {
	return connQueryer{Conn: c.(*postgres.Conn)}
}

// countBy groups the rows of table by the column and counts them.
func (cq connQueryer) countBy(
	ctx context.Context, table, column string,
) ([]model.Count, error) {
	var cs []model.Count
	err := cq.GORM(ctx).Table(table).Select(
		column + " AS key, count(*) AS count",
	).Group(column).Order("count DESC, key").Scan(&cs).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	return cs, nil
}

func (cq connQueryer) ProfilesByRole(
	ctx context.Context,
) ([]model.Count, error) {
	return cq.countBy(ctx, "profiles", "role")
}

func (cq connQueryer) DealersByStatus(
	ctx context.Context,
) ([]model.Count, error) {
	return cq.countBy(ctx, "dealers", "status")
}

func (cq connQueryer) ListingsByStatus(
	ctx context.Context,
) ([]model.Count, error) {
	return cq.countBy(ctx, "listings", "status")
}

func (cq connQueryer) ListingsByMake(
	ctx context.Context,
) ([]model.Count, error) {
	return cq.countBy(ctx, "listings", "make")
}

func (cq connQueryer) InquiryMonths(
	ctx context.Context, since time.Time,
) ([]model.MonthCount, error) {
	var mcs []model.MonthCount
	err := cq.GORM(ctx).Table("test_drive_inquiries").Select(
		"date_trunc('month', created_at) AS month, count(*) AS count",
	).Where("created_at>=?", since).Group("month").Order(
		"month",
	).Scan(&mcs).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	return mcs, nil
}

func (cq connQueryer) DealerListings(
	ctx context.Context, dealerID uuid.UUID,
) ([]model.ListingStats, error) {
	var ss []model.ListingStats
	err := cq.GORM(ctx).Table("listings AS l").Select(
		"l.id AS listing_id, "+
			"concat_ws(' ', l.year, l.make, l.model) AS title, "+
			"l.views AS views, count(i.id) AS inquiries",
	).Joins(
		"LEFT JOIN test_drive_inquiries AS i ON i.listing_id=l.id",
	).Where("l.dealer_id=?", dealerID).Group("l.id").Order(
		"l.created_at DESC, l.id",
	).Scan(&ss).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	return ss, nil
}
