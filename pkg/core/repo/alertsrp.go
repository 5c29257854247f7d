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

type AlertsConnQueryer interface {
	AlertsQueryer
}

type AlertsTxQueryer interface {
	AlertsQueryer

	// Trigger deactivates the active alerts whose listing price has
	// dropped to their target price (or below) and returns them.
	// If listingID is not nil, only alerts of that listing are checked.
	// Each alert is returned at most once over its lifetime.
	Trigger(
		ctx context.Context, listingID *uuid.UUID,
	) ([]model.TriggeredAlert, error)
}

type AlertsQueryer interface {
	Create(
		ctx context.Context, a *model.PriceAlert,
	) (*model.PriceAlert, error)
	ListByCustomer(
		ctx context.Context, customerID uuid.UUID,
	) ([]model.PriceAlert, error)
	Delete(ctx context.Context, id, customerID uuid.UUID) error
}

type Alerts interface {
	Conn(Conn) AlertsConnQueryer
	Tx(Tx) AlertsTxQueryer
}
