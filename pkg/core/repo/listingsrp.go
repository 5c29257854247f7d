// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/model"
)

type ListingsConnQueryer interface {
	ListingsQueryer
}

type ListingsTxQueryer interface {
	ListingsQueryer
}

// ListingsQueryer manages the listings table. The dealerID arguments
// restrict an operation to listings which are owned by that dealer.
type ListingsQueryer interface {
	Create(ctx context.Context, l *model.Listing) (*model.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Listing, error)

	// GetMany returns the active listings with the given ids in the
	// same order. A missing or inactive id gives a NotFound error.
	GetMany(ctx context.Context, ids []uuid.UUID) ([]model.Listing, error)

	// View increments the views counter of an active listing and
	// returns its updated row.
	View(ctx context.Context, id uuid.UUID) (*model.Listing, error)

	Update(
		ctx context.Context,
		id, dealerID uuid.UUID,
		p *model.ListingPatch,
	) (*model.Listing, error)
	Delete(ctx context.Context, id, dealerID uuid.UUID) error
	Search(
		ctx context.Context, f *model.ListingFilter, p model.Page,
	) (*model.ListingPage, error)
	CountActive(ctx context.Context, dealerID uuid.UUID) (int64, error)

	// Makes lists the distinct makes of the active listings.
	Makes(ctx context.Context) ([]string, error)
}

type Listings interface {
	Conn(Conn) ListingsConnQueryer
	Tx(Tx) ListingsTxQueryer
}
