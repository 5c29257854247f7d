// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/usecase/financeuc"
	"github.com/momeni/car-market/pkg/core/usecase/listingsuc"
)

// Builder interface represents the expectations from the application
// use case builders. All use cases which depend on the configuration
// settings have one NewX method here which takes database connection
// pool and their repository dependencies. The configuration struct
// must implement this interface, take repository packages and create
// use case objects based on its contained settings.
// When new settings are loaded from a database, they may override some
// of the configuration settings, hence, produce a new Builder instance.
type Builder interface {
	// NewAppUseCase creates a new application use case. This use case
	// needs a SettingsRepo in order to fetch or update mutable settings
	// from the database. It also needs to take all repository instances
	// which may be required by other use cases because it needs to pass
	// them to the Builder instance again after reloading or updating
	// settings, changing the mutable settings in the database and
	// memory.
	//
	// When settings are updated and a new Builder instance is obtained,
	// it can be asked to create new use case objects which replace
	// their old instance as an opaque object. This replacement strategy
	// requires the resources packages to ask this application UseCase
	// for the actual use case objects, right before using them, so they
	// can be fetched or updated atomically as managed by the
	// application UseCase.
	NewAppUseCase(
		p repo.Pool, s SettingsRepo, r *Repos, ports Ports,
	) (*UseCase, error)

	// NewFinanceUseCase creates a new financeuc UseCase object having
	// the default estimator parameters of the settings.
	NewFinanceUseCase(p repo.Pool, r repo.Quotes) (*financeuc.UseCase, error)

	// NewListingsUseCase creates a new listingsuc UseCase object having
	// the comparison settings. The alerts evaluator is triggered when
	// listing prices drop.
	NewListingsUseCase(
		p repo.Pool,
		r *Repos,
		ports Ports,
		alerts listingsuc.AlertEvaluator,
	) (*listingsuc.UseCase, error)
}
