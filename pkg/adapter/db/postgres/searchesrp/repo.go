// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package searchesrp is the PostgreSQL adapter of the repo.Searches
// repository. Search criteria are kept as JSONB documents.
package searchesrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (searches *Repo) Conn(c repo.Conn) repo.SearchesConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (searches *Repo) Tx(tx repo.Tx) repo.SearchesTxQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (sq queryer[Q]) Create(
	ctx context.Context, s *model.SavedSearch,
) (*model.SavedSearch, error) {
	return Create(ctx, sq.q, s)
}

func (sq queryer[Q]) Get(
	ctx context.Context, id, customerID uuid.UUID,
) (*model.SavedSearch, error) {
	return Get(ctx, sq.q, id, customerID)
}

func (sq queryer[Q]) List(
	ctx context.Context, customerID uuid.UUID,
) ([]model.SavedSearch, error) {
	return List(ctx, sq.q, customerID)
}

func (sq queryer[Q]) Delete(
	ctx context.Context, id, customerID uuid.UUID,
) error {
	return Delete(ctx, sq.q, id, customerID)
}
