// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/usecase/alertsuc"
	"github.com/momeni/car-market/pkg/core/usecase/analyticsuc"
	"github.com/momeni/car-market/pkg/core/usecase/chatuc"
	"github.com/momeni/car-market/pkg/core/usecase/dealersuc"
	"github.com/momeni/car-market/pkg/core/usecase/financeuc"
	"github.com/momeni/car-market/pkg/core/usecase/inquiriesuc"
	"github.com/momeni/car-market/pkg/core/usecase/listingsuc"
	"github.com/momeni/car-market/pkg/core/usecase/notificationsuc"
	"github.com/momeni/car-market/pkg/core/usecase/profilesuc"
	"github.com/momeni/car-market/pkg/core/usecase/searchesuc"
	"github.com/momeni/car-market/pkg/core/usecase/subscriptionsuc"
)

// Settings returns a copy of visible settings which are currently in
// effect. The effective settings and use case objects which are built
// based on them (and other invisible settings) may be updated
// atomically, while they are exposed by a series of getter methods. At
// least one of Reload or UpdateSettings methods must be called before
// this (and other use case objects getter methods) may be called.
func (app *UseCase) Settings() model.VisibleSettings {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return *app.settings
}

// Bounds returns the minimum and maximum acceptable settings values.
func (app *UseCase) Bounds() (minb, maxb *model.Settings) {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.minb, app.maxb
}

// managedUseCases groups the settings dependent use case objects, so
// they may be created before being published by updateAll.
type managedUseCases struct {
	financeUseCase  *financeuc.UseCase
	listingsUseCase *listingsuc.UseCase
}

// updateAll atomically updates the visible settings and all other use
// case objects which are built based on these (visible and invisible)
// settings. This method minimizes the scope which needs to take a
// writing lock (after instantiating all relevant use case objects).
func (app *UseCase) updateAll(
	vs *model.VisibleSettings,
	minb, maxb *model.Settings,
	managed managedUseCases,
) {
	app.rwlock.Lock()
	defer app.rwlock.Unlock()
	app.settings = vs
	app.minb, app.maxb = minb, maxb
	app.financeUseCase = managed.financeUseCase
	app.listingsUseCase = managed.listingsUseCase
}

// FinanceUseCase returns the currently effective finance use case.
func (app *UseCase) FinanceUseCase() *financeuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.financeUseCase
}

// ListingsUseCase returns the currently effective listings use case.
func (app *UseCase) ListingsUseCase() *listingsuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.listingsUseCase
}

// The following use cases do not depend on the settings, so they are
// never replaced and need no locking.

func (app *UseCase) ProfilesUseCase() *profilesuc.UseCase {
	return app.profilesUseCase
}

func (app *UseCase) DealersUseCase() *dealersuc.UseCase {
	return app.dealersUseCase
}

func (app *UseCase) InquiriesUseCase() *inquiriesuc.UseCase {
	return app.inquiriesUseCase
}

func (app *UseCase) AlertsUseCase() *alertsuc.UseCase {
	return app.alertsUseCase
}

func (app *UseCase) SearchesUseCase() *searchesuc.UseCase {
	return app.searchesUseCase
}

func (app *UseCase) SubscriptionsUseCase() *subscriptionsuc.UseCase {
	return app.subscriptionsUseCase
}

func (app *UseCase) ChatUseCase() *chatuc.UseCase {
	return app.chatUseCase
}

func (app *UseCase) NotificationsUseCase() *notificationsuc.UseCase {
	return app.notificationsUseCase
}

func (app *UseCase) AnalyticsUseCase() *analyticsuc.UseCase {
	return app.analyticsUseCase
}
