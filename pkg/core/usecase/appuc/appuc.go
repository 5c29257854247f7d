// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which supports the
// settings fetching and updating requests, allows the application to be
// reloaded based on the mutable settings which are stored in the
// database, and maintains and provides visible settings and use case
// objects (with atomic replacement support) so they may be used by
// the resources packages and background jobs.
package appuc

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/notify"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/sanitizer"
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

// Repos contains all repository instances which are required by the
// supported use cases.
type Repos struct {
	Profiles      repo.Profiles
	Dealers       repo.Dealers
	Listings      repo.Listings
	Inquiries     repo.Inquiries
	Alerts        repo.Alerts
	Searches      repo.Searches
	Subscriptions repo.Subscriptions
	Chat          repo.Chat
	Notifications repo.Notifications
	Quotes        repo.Quotes
	Analytics     repo.Analytics
}

// Ports contains the non-database adapters which are used by the use
// cases. A nil Mailer disables emails and a nil Publisher drops the
// live admin notifications.
type Ports struct {
	Mailer    notify.Mailer
	Publisher notify.Publisher
	Sanitizer sanitizer.Sanitizer
}

// UseCase represents an application use case. It holds a database
// connection pool, settings repository instance, and all repository
// instances which are required by other supported use cases.
// Therefore, it can pass these repository instances to a use case
// builder object (which is realized by the effective Config instance)
// in order to create the settings dependent use case objects (during
// a Reload or UpdateSettings operation).
//
// Use cases which do not depend on the mutable settings are created
// once by New and are never replaced.
type UseCase struct {
	pool         repo.Pool
	settingsRepo SettingsRepo
	repos        *Repos
	ports        Ports
	now          func() time.Time

	profilesUseCase      *profilesuc.UseCase
	dealersUseCase       *dealersuc.UseCase
	inquiriesUseCase     *inquiriesuc.UseCase
	alertsUseCase        *alertsuc.UseCase
	searchesUseCase      *searchesuc.UseCase
	subscriptionsUseCase *subscriptionsuc.UseCase
	chatUseCase          *chatuc.UseCase
	notificationsUseCase *notificationsuc.UseCase
	analyticsUseCase     *analyticsuc.UseCase

	// mutex is used by UpdateSettings and Reload methods so only one
	// go routine can try to update/fetch settings from the database
	// at any time. Even though such update/query attempts may proceed
	// concurrently as while as the UPDATE/SELECT queries are concerned,
	// but there is a risk that a go routine obtaining older data fail
	// to call updateAll sooner, hence, the older data may last longer.
	// The mutex resolves such concurrency issues without blocking other
	// use cases (which should be fetched using the following rwlock).
	mutex sync.Mutex

	// rwlock is locked for writing by updateAll whenever the new state
	// including the visible settings and use case objects are prepared
	// and should be published atomically, while it is locked by all
	// getter methods for reading in order to access the published state
	// (i.e., visible settings and use case objects).
	rwlock sync.RWMutex

	settings        *model.VisibleSettings // cached visible settings
	minb, maxb      *model.Settings        // cached settings boundaries
	financeUseCase  *financeuc.UseCase
	listingsUseCase *listingsuc.UseCase
}

// Option is a functional option for the application use case.
type Option func(uc *UseCase) error

// WithClock option replaces the time.Now function which is passed
// to the time dependent use cases.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}

// New instantiates an application use case object. The Reload method
// of this object should be called at least once, so it can create
// the settings dependent use case objects, before their corresponding
// getter methods are invoked (otherwise, they may return nil).
func New(
	p repo.Pool, s SettingsRepo, r *Repos, ports Ports, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:         p,
		settingsRepo: s,
		repos:        r,
		ports:        ports,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.ports.Publisher == nil {
		uc.ports.Publisher = notify.Nop{}
	}
	uc.newStaticUseCases()
	return uc, nil
}

func (app *UseCase) newStaticUseCases() {
	p, r, ports := app.pool, app.repos, app.ports
	app.profilesUseCase = profilesuc.New(p, r.Profiles)
	app.dealersUseCase = dealersuc.New(
		p, r.Dealers, r.Notifications, ports.Mailer, ports.Publisher,
	)
	app.inquiriesUseCase = inquiriesuc.New(p, inquiriesuc.Repos{
		Inquiries:     r.Inquiries,
		Listings:      r.Listings,
		Dealers:       r.Dealers,
		Profiles:      r.Profiles,
		Notifications: r.Notifications,
	}, ports.Sanitizer, ports.Mailer, ports.Publisher, app.now)
	app.alertsUseCase = alertsuc.New(p, r.Alerts, r.Listings, ports.Mailer)
	app.searchesUseCase = searchesuc.New(p, r.Searches, r.Listings)
	app.subscriptionsUseCase = subscriptionsuc.New(
		p, r.Subscriptions, r.Dealers, r.Notifications,
		ports.Mailer, ports.Publisher,
	)
	app.chatUseCase = chatuc.New(
		p, r.Chat, r.Listings, r.Dealers, ports.Sanitizer,
	)
	app.notificationsUseCase = notificationsuc.New(
		p, r.Notifications, app.now,
	)
	app.analyticsUseCase = analyticsuc.New(
		p, r.Analytics, r.Dealers, r.Listings, app.now,
	)
}
