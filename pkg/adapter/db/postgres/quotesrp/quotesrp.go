// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package quotesrp is the PostgreSQL adapter of the repo.Quotes
// repository which keeps the finance quotes history of users.
package quotesrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

type gQuote struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID  `gorm:"type:uuid"`
	ListingID *uuid.UUID `gorm:"type:uuid"`
	Kind      string
	Input     []byte `gorm:"type:jsonb"`
	Result    []byte `gorm:"type:jsonb"`
	CreatedAt time.Time
}

func (gq *gQuote) TableName() string {
	return "finance_quotes"
}

func (gq *gQuote) Model() *model.FinanceQuote {
	return &model.FinanceQuote{
		ID:        gq.ID,
		UserID:    gq.UserID,
		ListingID: gq.ListingID,
		Kind:      model.QuoteKind(gq.Kind),
		Input:     gq.Input,
		Result:    gq.Result,
		CreatedAt: gq.CreatedAt,
	}
}

func Create[Q postgres.Queryer](
	ctx context.Context, q Q, fq *model.FinanceQuote,
) (*model.FinanceQuote, error) {
	gq := &gQuote{
		ID:        uuid.New(),
		UserID:    fq.UserID,
		ListingID: fq.ListingID,
		Kind:      string(fq.Kind),
		Input:     fq.Input,
		Result:    fq.Result,
	}
	if err := q.GORM(ctx).Create(gq).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gq.Model(), nil
}

func List[Q postgres.Queryer](
	ctx context.Context, q Q, userID uuid.UUID, p model.Page,
) ([]model.FinanceQuote, error) {
	var gqs []gQuote
	gdb := q.GORM(ctx).Where("user_id=?", userID)
	gdb = postgres.Paginate(gdb.Order("created_at DESC, id"), p)
	if err := gdb.Find(&gqs).Error; err != nil {
		return nil, postgres.Error(err)
	}
	fqs := make([]model.FinanceQuote, len(gqs))
	for i := range gqs {
		fqs[i] = *gqs[i].Model()
	}
	return fqs, nil
}

// Repo represents the finance quotes repository instance.
type Repo struct {
}

// New instantiates a quotes Repo struct.
func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (quotes *Repo) Conn(c repo.Conn) repo.QuotesConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (quotes *Repo) Tx(tx repo.Tx) repo.QuotesTxQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (qq queryer[Q]) Create(
	ctx context.Context, fq *model.FinanceQuote,
) (*model.FinanceQuote, error) {
	return Create(ctx, qq.q, fq)
}

func (qq queryer[Q]) List(
	ctx context.Context, userID uuid.UUID, p model.Page,
) ([]model.FinanceQuote, error) {
	return List(ctx, qq.q, userID, p)
}
