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

type DealersConnQueryer interface {
	DealersQueryer
}

// DealersTxQueryer contains operations which must run in a transaction
// because they serialize with concurrent dealer updates.
type DealersTxQueryer interface {
	DealersQueryer

	// LockByUser fetches the dealer of the userID profile and locks its
	// row until the end of the current transaction.
	LockByUser(ctx context.Context, userID uuid.UUID) (*model.Dealer, error)

	UpdatePlan(
		ctx context.Context, id uuid.UUID, plan model.Plan,
	) (*model.Dealer, error)
}

type DealersQueryer interface {
	Create(ctx context.Context, d *model.Dealer) (*model.Dealer, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Dealer, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Dealer, error)
	List(
		ctx context.Context, status *model.DealerStatus, p model.Page,
	) ([]model.Dealer, error)

	// UpdateStatus moves the id dealer from the `from` status to the
	// `to` status. A NotFound error is returned if no dealer with the
	// given id has the `from` status.
	UpdateStatus(
		ctx context.Context,
		id uuid.UUID,
		from, to model.DealerStatus,
		reason string,
	) (*model.Dealer, error)
}

type Dealers interface {
	Conn(Conn) DealersConnQueryer
	Tx(Tx) DealersTxQueryer
}
