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

type SearchesConnQueryer interface {
	SearchesQueryer
}

type SearchesTxQueryer interface {
	SearchesQueryer
}

type SearchesQueryer interface {
	Create(
		ctx context.Context, s *model.SavedSearch,
	) (*model.SavedSearch, error)
	Get(ctx context.Context, id, customerID uuid.UUID) (*model.SavedSearch, error)
	List(ctx context.Context, customerID uuid.UUID) ([]model.SavedSearch, error)
	Delete(ctx context.Context, id, customerID uuid.UUID) error
}

type Searches interface {
	Conn(Conn) SearchesConnQueryer
	Tx(Tx) SearchesTxQueryer
}
