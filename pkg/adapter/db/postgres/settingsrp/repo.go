// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settingsrp stores the admin-mutable settings as a JSON
// document in the single row of the settings table.
package settingsrp

import (
	"context"

	"github.com/momeni/car-market/pkg/adapter/config/cfg1"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/usecase/appuc"
)

// Repo is the settings repository. The stored settings are applied on
// clones of base, which is never modified.
type Repo struct {
	base *cfg1.Config
}

func New(c *cfg1.Config) *Repo {
	return &Repo{base: c}
}

type connQueryer struct {
	*postgres.Conn
	base *cfg1.Config
}

func (settings *Repo) Conn(c repo.Conn) appuc.SettingsConnQueryer {
	return connQueryer{Conn: c.(*postgres.Conn), base: settings.base}
}

// Fetch avoids returning a typed nil *cfg1.Config as the Builder.
func (cq connQueryer) Fetch(ctx context.Context) (
	appuc.Builder, *model.VisibleSettings, *model.Settings,
	*model.Settings, error,
) {
	c, vs, minb, maxb, err := Fetch(ctx, cq.Conn, cq.base)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return c, vs, minb, maxb, nil
}

type txQueryer struct {
	*postgres.Tx
	base *cfg1.Config
}

func (settings *Repo) Tx(tx repo.Tx) appuc.SettingsTxQueryer {
	return txQueryer{Tx: tx.(*postgres.Tx), base: settings.base}
}

func (tq txQueryer) Update(ctx context.Context, s *model.Settings) (
	appuc.Builder, *model.VisibleSettings, *model.Settings,
	*model.Settings, error,
) {
	c, vs, minb, maxb, err := Update(ctx, tq.Tx, tq.base, s)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return c, vs, minb, maxb, nil
}
