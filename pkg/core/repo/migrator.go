// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Migrator applies the versioned database schema migrations.
// Each migration is a numbered step and the database records the
// number of its latest applied step as its schema version.
type Migrator interface {
	// Up applies the next n pending migrations, or all of them
	// if n is zero. Having no pending migration is not an error.
	Up(ctx context.Context, n uint) error

	// Down reverts the last n applied migrations, or all of them
	// if n is zero.
	Down(ctx context.Context, n uint) error

	// Version reports the current schema version and whether the last
	// migration has failed midway (leaving a dirty schema behind).
	// Zero version means that no migration is applied yet.
	Version(ctx context.Context) (version uint, dirty bool, err error)

	Close() error
}
