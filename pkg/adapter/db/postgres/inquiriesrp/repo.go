// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package inquiriesrp is the PostgreSQL adapter of the repo.Inquiries
// repository which keeps the test-drive inquiries.
package inquiriesrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// Repo represents the inquiries repository instance.
type Repo struct {
}

// New instantiates an inquiries Repo struct.
func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (inquiries *Repo) Conn(c repo.Conn) repo.InquiriesConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (inquiries *Repo) Tx(tx repo.Tx) repo.InquiriesTxQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (iq queryer[Q]) Create(
	ctx context.Context, i *model.Inquiry,
) (*model.Inquiry, error) {
	return Create(ctx, iq.q, i)
}

func (iq queryer[Q]) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Inquiry, error) {
	return Get(ctx, iq.q, id)
}

func (iq queryer[Q]) ListByCustomer(
	ctx context.Context, customerID uuid.UUID, p model.Page,
) ([]model.Inquiry, error) {
	return ListByCustomer(ctx, iq.q, customerID, p)
}

func (iq queryer[Q]) ListByDealer(
	ctx context.Context,
	dealerID uuid.UUID,
	status *model.InquiryStatus,
	p model.Page,
) ([]model.Inquiry, error) {
	return ListByDealer(ctx, iq.q, dealerID, status, p)
}

func (iq queryer[Q]) UpdateStatus(
	ctx context.Context, id uuid.UUID, from, to model.InquiryStatus,
) (*model.Inquiry, error) {
	return UpdateStatus(ctx, iq.q, id, from, to)
}
