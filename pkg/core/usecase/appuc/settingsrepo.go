// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"context"

	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// SettingsRepo stores the admin-mutable settings, such as the default
// finance rates and the comparison limit. It keeps the configuration
// file settings as its base and every fetched or updated settings row
// is applied on a fresh clone of that base. The merged configuration
// is returned as a Builder, so new use cases can be created from it.
type SettingsRepo interface {
	Conn(repo.Conn) SettingsConnQueryer
	Tx(repo.Tx) SettingsTxQueryer
}

// SettingsConnQueryer contains the settings queries which manage
// their own transaction boundaries.
type SettingsConnQueryer interface {
	SettingsQueryer

	// Fetch reads the stored settings and merges them into a clone of
	// the base settings. Without a stored row, the base settings are
	// used as is. The minb and maxb boundaries come from the base
	// settings. Stored values which are out of the boundaries take the
	// nearest boundary and a warning is logged, so an old row cannot
	// prevent the server from starting. Fetch never writes.
	Fetch(ctx context.Context) (
		b Builder,
		vs *model.VisibleSettings,
		minb, maxb *model.Settings,
		err error,
	)
}

// SettingsTxQueryer contains the settings queries which must run in
// a transaction of their caller.
type SettingsTxQueryer interface {
	SettingsQueryer

	// Update validates s against the base boundaries, stores it as
	// JSON, and returns the merged settings like Fetch. Out of bounds
	// values are rejected with a bad request error and nothing is
	// stored.
	Update(ctx context.Context, s *model.Settings) (
		b Builder,
		vs *model.VisibleSettings,
		minb, maxb *model.Settings,
		err error,
	)
}

// SettingsQueryer is embedded by both of the settings queryers. It has
// no shared query yet.
type SettingsQueryer interface {
}
