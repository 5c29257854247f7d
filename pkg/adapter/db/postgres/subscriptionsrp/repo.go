// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package subscriptionsrp is the PostgreSQL adapter of the
// repo.Subscriptions repository which keeps the plan change requests
// of dealers.
package subscriptionsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// Repo represents the subscription requests repository instance.
type Repo struct {
}

// New instantiates a subscriptions Repo struct.
func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

type txQueryer struct {
	queryer[*postgres.Tx]
}

func (subs *Repo) Conn(c repo.Conn) repo.SubscriptionsConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (subs *Repo) Tx(tx repo.Tx) repo.SubscriptionsTxQueryer {
	return txQueryer{queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}}
}

func (sq queryer[Q]) Create(
	ctx context.Context, r *model.SubscriptionRequest,
) (*model.SubscriptionRequest, error) {
	return Create(ctx, sq.q, r)
}

func (sq queryer[Q]) Get(
	ctx context.Context, id uuid.UUID,
) (*model.SubscriptionRequest, error) {
	return Get(ctx, sq.q, id)
}

func (sq queryer[Q]) List(
	ctx context.Context,
	dealerID *uuid.UUID,
	status *model.RequestStatus,
	p model.Page,
) ([]model.SubscriptionRequest, error) {
	return List(ctx, sq.q, dealerID, status, p)
}

func (tq txQueryer) Decide(
	ctx context.Context,
	id uuid.UUID,
	status model.RequestStatus,
	note string,
) (*model.SubscriptionRequest, error) {
	return Decide(ctx, tq.q, id, status, note)
}
