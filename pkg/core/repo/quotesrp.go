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

type QuotesConnQueryer interface {
	QuotesQueryer
}

type QuotesTxQueryer interface {
	QuotesQueryer
}

type QuotesQueryer interface {
	Create(
		ctx context.Context, q *model.FinanceQuote,
	) (*model.FinanceQuote, error)
	List(
		ctx context.Context, userID uuid.UUID, p model.Page,
	) ([]model.FinanceQuote, error)
}

type Quotes interface {
	Conn(Conn) QuotesConnQueryer
	Tx(Tx) QuotesTxQueryer
}
