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

type ProfilesConnQueryer interface {
	ProfilesQueryer
}

type ProfilesTxQueryer interface {
	ProfilesQueryer
}

type ProfilesQueryer interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)

	// Upsert inserts p or updates its mutable columns (email, full name,
	// phone, and role) if a profile with the same ID exists.
	Upsert(ctx context.Context, p *model.Profile) (*model.Profile, error)
}

type Profiles interface {
	Conn(Conn) ProfilesConnQueryer
	Tx(Tx) ProfilesTxQueryer
}
