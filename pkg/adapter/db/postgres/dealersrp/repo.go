// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dealersrp is the PostgreSQL adapter of the repo.Dealers
// repository.
package dealersrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// Repo represents the dealers repository instance.
type Repo struct {
}

// New instantiates a dealers Repo struct.
func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

// Conn wraps the given *postgres.Conn as a repo.DealersConnQueryer.
func (dealers *Repo) Conn(c repo.Conn) repo.DealersConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

type txQueryer struct {
	queryer[*postgres.Tx]
}

// Tx wraps the given *postgres.Tx as a repo.DealersTxQueryer which
// can lock dealer rows and update their plans too.
func (dealers *Repo) Tx(tx repo.Tx) repo.DealersTxQueryer {
	return txQueryer{queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}}
}

func (dq queryer[Q]) Create(
	ctx context.Context, d *model.Dealer,
) (*model.Dealer, error) {
	return Create(ctx, dq.q, d)
}

func (dq queryer[Q]) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Dealer, error) {
	return Get(ctx, dq.q, id)
}

func (dq queryer[Q]) GetByUser(
	ctx context.Context, userID uuid.UUID,
) (*model.Dealer, error) {
	return GetByUser(ctx, dq.q, userID)
}

func (dq queryer[Q]) List(
	ctx context.Context, status *model.DealerStatus, p model.Page,
) ([]model.Dealer, error) {
	return List(ctx, dq.q, status, p)
}

func (dq queryer[Q]) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to model.DealerStatus,
	reason string,
) (*model.Dealer, error) {
	return UpdateStatus(ctx, dq.q, id, from, to, reason)
}

func (tq txQueryer) LockByUser(
	ctx context.Context, userID uuid.UUID,
) (*model.Dealer, error) {
	return LockByUser(ctx, tq.q, userID)
}

func (tq txQueryer) UpdatePlan(
	ctx context.Context, id uuid.UUID, plan model.Plan,
) (*model.Dealer, error) {
	return UpdatePlan(ctx, tq.q, id, plan)
}
