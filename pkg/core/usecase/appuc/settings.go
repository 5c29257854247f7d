// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"context"
	"fmt"

	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// UpdateSettings stores s as the new admin-mutable settings and
// recreates the finance and listings use cases from the merged
// settings, in the same transaction. The fresh use cases are
// published only after the commit, so requests either see the old or
// the new settings and never a mix of them.
//
// Writers are serialized by app.mutex while readers keep using the
// previous use cases until updateAll swaps them under the rw lock.
// Only administrators may update the settings.
//
// The returned settings are shared and must be cloned before changes.
func (app *UseCase) UpdateSettings(
	ctx context.Context, who *model.Principal, s *model.Settings,
) (vs *model.VisibleSettings, minb, maxb *model.Settings, err error) {
	if err = cerr.RequireRole(who, model.RoleAdmin); err != nil {
		return nil, nil, nil, err
	}
	app.mutex.Lock()
	defer app.mutex.Unlock()
	var managed managedUseCases
	err = app.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(
				ctx, func(ctx context.Context, tx repo.Tx) error {
					q := app.settingsRepo.Tx(tx)
					var b Builder
					b, vs, minb, maxb, err = q.Update(ctx, s)
					if err != nil {
						return fmt.Errorf("database update: %w", err)
					}
					managed, err = app.newManagedUseCases(b)
					if err != nil {
						return fmt.Errorf("creating use cases: %w", err)
					}
					return nil
				},
			)
		},
	)
	if err != nil {
		err = fmt.Errorf("delegating update to settings repo: %w", err)
		return nil, nil, nil, err
	}
	app.updateAll(vs, minb, maxb, managed)
	return vs, minb, maxb, nil
}

// Reload queries the settings repository in order to fetch the current
// effective mutable settings. Those settings override the base settings
// which were read from the configuration file (and environment
// variables) in order to create a fresh Builder instance, and the
// settings dependent use cases are recreated by it. It is called once
// during the server startup and may be called again for picking the
// settings which were changed by another server instance.
// Reload shares the locking protocol of UpdateSettings.
func (app *UseCase) Reload(ctx context.Context) error {
	app.mutex.Lock()
	defer app.mutex.Unlock()
	var (
		b          Builder
		vs         *model.VisibleSettings
		minb, maxb *model.Settings
		err        error
	)
	err = app.pool.Conn(
		ctx, func(ctx context.Context, c repo.Conn) error {
			q := app.settingsRepo.Conn(c)
			b, vs, minb, maxb, err = q.Fetch(ctx)
			return err
		},
	)
	if err != nil {
		return fmt.Errorf("reloading by settings repo: %w", err)
	}
	managed, err := app.newManagedUseCases(b)
	if err != nil {
		return fmt.Errorf("creating use cases: %w", err)
	}
	app.updateAll(vs, minb, maxb, managed)
	return nil
}

// newManagedUseCases creates the settings dependent use case objects
// using the given Builder instance. They are published by updateAll
// only after the settings transaction commits.
func (app *UseCase) newManagedUseCases(
	b Builder,
) (managedUseCases, error) {
	var nilm managedUseCases
	financeUseCase, err := b.NewFinanceUseCase(app.pool, app.repos.Quotes)
	if err != nil {
		return nilm, fmt.Errorf("creating finance use case: %w", err)
	}
	listingsUseCase, err := b.NewListingsUseCase(
		app.pool, app.repos, app.ports, app.alertsUseCase,
	)
	if err != nil {
		return nilm, fmt.Errorf("creating listings use case: %w", err)
	}
	return managedUseCases{
		financeUseCase:  financeUseCase,
		listingsUseCase: listingsUseCase,
	}, nil
}
