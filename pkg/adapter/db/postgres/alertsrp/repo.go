// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package alertsrp is the PostgreSQL adapter of the repo.Alerts
// repository which keeps the price drop alerts.
package alertsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// Repo represents the price alerts repository instance.
type Repo struct {
}

// New instantiates an alerts Repo struct.
func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

type txQueryer struct {
	queryer[*postgres.Tx]
}

func (alerts *Repo) Conn(c repo.Conn) repo.AlertsConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

// Tx wraps tx as a repo.AlertsTxQueryer which can trigger alerts too.
func (alerts *Repo) Tx(tx repo.Tx) repo.AlertsTxQueryer {
	return txQueryer{queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}}
}

func (aq queryer[Q]) Create(
	ctx context.Context, a *model.PriceAlert,
) (*model.PriceAlert, error) {
	return Create(ctx, aq.q, a)
}

func (aq queryer[Q]) ListByCustomer(
	ctx context.Context, customerID uuid.UUID,
) ([]model.PriceAlert, error) {
	return ListByCustomer(ctx, aq.q, customerID)
}

func (aq queryer[Q]) Delete(
	ctx context.Context, id, customerID uuid.UUID,
) error {
	return Delete(ctx, aq.q, id, customerID)
}

func (tq txQueryer) Trigger(
	ctx context.Context, listingID *uuid.UUID,
) ([]model.TriggeredAlert, error) {
	return Trigger(ctx, tq.q, listingID)
}
