// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-market/pkg/adapter/config/cfg1"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/alertsrp"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/analyticsrp"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/chatrp"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/dealersrp"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/inquiriesrp"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/listingsrp"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/notificationsrp"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/profilesrp"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/quotesrp"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/searchesrp"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/settingsrp"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/subscriptionsrp"
	"github.com/momeni/car-market/pkg/adapter/metrics"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/alertsrs"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/chatrs"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/dealersrs"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/financers"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/inquiriesrs"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/listingsrs"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/notificationsrs"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/profilesrs"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/settingsrs"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/subscriptionsrs"
	"github.com/momeni/car-market/pkg/adapter/sanitize"
	"github.com/momeni/car-market/pkg/core/notify"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/usecase/appuc"
	"github.com/prometheus/client_golang/prometheus"
)

// BasePath is the common prefix of all REST API routes.
const BasePath = "/api/cmweb/v1"

// Deps contains the process wide adapters which are shared by all
// routes. Tokens is required. A nil Collector disables the metrics,
// a nil Mailer disables emails, and a nil Stream answers the admin
// notifications stream with 404.
type Deps struct {
	Tokens    middleware.TokenVerifier
	Collector *metrics.Collector
	Gatherer  prometheus.Gatherer
	Mailer    notify.Mailer
	Stream    Stream
}

// Stream is the live admin notifications hub which accepts websocket
// clients and receives the freshly created notifications.
type Stream interface {
	http.Handler
	notify.Publisher
}

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases. Each use case package is named
// like listingsuc and each repository package is named like listingsrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like listingsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
//
// The application use case is returned, so background jobs may use
// the same use case instances as the request handlers.
// Possible errors will be returned after possible wrapping.
func Register(
	ctx context.Context,
	e *gin.Engine,
	p repo.Pool,
	c *cfg1.Config,
	d Deps,
) (*appuc.UseCase, error) {
	if d.Tokens == nil {
		return nil, errors.New("tokens verifier is required")
	}
	repos := &appuc.Repos{
		Profiles:      profilesrp.New(),
		Dealers:       dealersrp.New(),
		Listings:      listingsrp.New(),
		Inquiries:     inquiriesrp.New(),
		Alerts:        alertsrp.New(),
		Searches:      searchesrp.New(),
		Subscriptions: subscriptionsrp.New(),
		Chat:          chatrp.New(),
		Notifications: notificationsrp.New(),
		Quotes:        quotesrp.New(),
		Analytics:     analyticsrp.New(),
	}
	ports := appuc.Ports{
		Mailer:    d.Mailer,
		Publisher: notify.Nop{},
		Sanitizer: sanitize.Strict(),
	}
	if d.Stream != nil {
		ports.Publisher = d.Stream
	}
	if d.Collector != nil && d.Mailer != nil {
		ports.Mailer = d.Collector.Mailer(d.Mailer)
	}

	appUseCase, err := c.NewAppUseCase(
		p, settingsrp.New(c), repos, ports,
	)
	if err != nil {
		return nil, fmt.Errorf("creating application use case: %w", err)
	}
	err = appUseCase.Reload(ctx)
	if err != nil {
		return nil, fmt.Errorf("reloading use cases based on DB: %w", err)
	}
	limiter, err := c.RateLimit.NewLimiter()
	if err != nil {
		return nil, fmt.Errorf("creating rate limiter: %w", err)
	}

	if d.Collector != nil {
		e.Use(middleware.Metrics(d.Collector))
		if d.Gatherer != nil {
			e.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
		}
	}
	authn := middleware.NewAuthenticator(
		d.Tokens, appUseCase.ProfilesUseCase(),
	)
	r := e.Group(BasePath, authn.Handler())
	limit := limiter.Handler()

	settingsrs.Register(r, appUseCase)
	profilesrs.Register(r, appUseCase.ProfilesUseCase())
	financers.Register(r, appUseCase)
	listingsrs.Register(r, appUseCase)
	dealersrs.Register(r, appUseCase.DealersUseCase())
	inquiriesrs.Register(r, appUseCase.InquiriesUseCase(), limit)
	alertsrs.Register(
		r, appUseCase.AlertsUseCase(), appUseCase.SearchesUseCase(),
	)
	subscriptionsrs.Register(r, appUseCase.SubscriptionsUseCase())
	chatrs.Register(r, appUseCase.ChatUseCase(), limit)
	var stream http.Handler = http.NotFoundHandler()
	if d.Stream != nil {
		stream = d.Stream
	}
	notificationsrs.Register(
		r,
		appUseCase.NotificationsUseCase(),
		appUseCase.AnalyticsUseCase(),
		stream,
	)
	return appUseCase, nil
}
