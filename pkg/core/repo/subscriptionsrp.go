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

type SubscriptionsConnQueryer interface {
	SubscriptionsQueryer
}

type SubscriptionsTxQueryer interface {
	SubscriptionsQueryer

	// Decide moves the id request from pending to the given status.
	// A NotFound error is returned if it is not pending anymore.
	Decide(
		ctx context.Context,
		id uuid.UUID,
		status model.RequestStatus,
		note string,
	) (*model.SubscriptionRequest, error)
}

type SubscriptionsQueryer interface {
	// Create inserts a pending request. At most one pending request
	// may exist for each dealer, so a second one causes a Conflict.
	Create(
		ctx context.Context, r *model.SubscriptionRequest,
	) (*model.SubscriptionRequest, error)
	Get(
		ctx context.Context, id uuid.UUID,
	) (*model.SubscriptionRequest, error)
	List(
		ctx context.Context,
		dealerID *uuid.UUID,
		status *model.RequestStatus,
		p model.Page,
	) ([]model.SubscriptionRequest, error)
}

type Subscriptions interface {
	Conn(Conn) SubscriptionsConnQueryer
	Tx(Tx) SubscriptionsTxQueryer
}
