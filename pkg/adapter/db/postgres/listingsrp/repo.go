// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package listingsrp is the PostgreSQL adapter of the repo.Listings
// repository. Listing images are kept in a text[] column.
package listingsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// Repo represents the listings repository instance.
type Repo struct {
}

// New instantiates a listings Repo struct.
func New() *Repo {
	return &Repo{}
}

// queryer implements the listings queries for a connection or an
// ongoing transaction, as specified by its Q type parameter.
type queryer[Q postgres.Queryer] struct {
	q Q
}

// Conn takes a Conn interface instance, unwraps it as required,
// and returns a ListingsConnQueryer interface which (with access to
// the implementation-dependent connection object) can run the
// listings queries.
func (listings *Repo) Conn(c repo.Conn) repo.ListingsConnQueryer {
	cc := c.(*postgres.Conn)
	return queryer[*postgres.Conn]{q: cc}
}

// Tx takes a Tx interface instance, unwraps it as required,
// and returns a ListingsTxQueryer interface.
func (listings *Repo) Tx(tx repo.Tx) repo.ListingsTxQueryer {
	tt := tx.(*postgres.Tx)
	return queryer[*postgres.Tx]{q: tt}
}

func (lq queryer[Q]) Create(
	ctx context.Context, l *model.Listing,
) (*model.Listing, error) {
	return Create(ctx, lq.q, l)
}

func (lq queryer[Q]) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Listing, error) {
	return Get(ctx, lq.q, id)
}

func (lq queryer[Q]) GetMany(
	ctx context.Context, ids []uuid.UUID,
) ([]model.Listing, error) {
	return GetMany(ctx, lq.q, ids)
}

func (lq queryer[Q]) View(
	ctx context.Context, id uuid.UUID,
) (*model.Listing, error) {
	return View(ctx, lq.q, id)
}

func (lq queryer[Q]) Update(
	ctx context.Context, id, dealerID uuid.UUID, p *model.ListingPatch,
) (*model.Listing, error) {
	return Update(ctx, lq.q, id, dealerID, p)
}

func (lq queryer[Q]) Delete(
	ctx context.Context, id, dealerID uuid.UUID,
) error {
	return Delete(ctx, lq.q, id, dealerID)
}

func (lq queryer[Q]) Search(
	ctx context.Context, f *model.ListingFilter, p model.Page,
) (*model.ListingPage, error) {
	return Search(ctx, lq.q, f, p)
}

func (lq queryer[Q]) CountActive(
	ctx context.Context, dealerID uuid.UUID,
) (int64, error) {
	return CountActive(ctx, lq.q, dealerID)
}

func (lq queryer[Q]) Makes(ctx context.Context) ([]string, error) {
	return Makes(ctx, lq.q)
}
