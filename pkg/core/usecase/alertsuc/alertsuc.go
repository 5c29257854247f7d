// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package alertsuc contains the price alerts UseCase. Customers ask to
// be emailed once a listing becomes cheaper than their target price.
// Alerts are evaluated whenever a listing price drops and periodically
// by a background job.
package alertsuc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/notify"
	"github.com/momeni/car-market/pkg/core/repo"
)

// UseCase represents a price alerts use case.
type UseCase struct {
	pool       repo.Pool
	alertsrp   repo.Alerts
	listingsrp repo.Listings
	mailer     notify.Mailer
}

// New instantiates a price alerts use case.
func New(
	p repo.Pool, a repo.Alerts, l repo.Listings, mailer notify.Mailer,
) *UseCase {
	return &UseCase{pool: p, alertsrp: a, listingsrp: l, mailer: mailer}
}

// Create asks to alert the who customer when the price of listingID
// drops to target or below. The target must be below the current
// price of an active listing.
func (uc *UseCase) Create(
	ctx context.Context,
	who *model.Principal,
	listingID uuid.UUID,
	target float64,
) (a *model.PriceAlert, err error) {
	if err = cerr.RequireRole(who, model.RoleCustomer); err != nil {
		return nil, err
	}
	if !(target > 0) {
		return nil, cerr.BadRequest(fmt.Errorf("target price must be positive"))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		l, err := uc.listingsrp.Conn(c).Get(ctx, listingID)
		if err != nil {
			return err
		}
		if l.Status != model.ListingActive {
			return cerr.BadRequest(fmt.Errorf("listing is %s", l.Status))
		}
		if target >= l.Price {
			return cerr.BadRequest(fmt.Errorf(
				"target price must be below the current price (%v)", l.Price,
			))
		}
		a, err = uc.alertsrp.Conn(c).Create(ctx, &model.PriceAlert{
			CustomerID:  who.UserID,
			ListingID:   listingID,
			TargetPrice: target,
			Active:      true,
		})
		return err
	})
	if err != nil {
		a = nil
	}
	return
}

// List returns the price alerts of the who customer.
func (uc *UseCase) List(
	ctx context.Context, who *model.Principal,
) (as []model.PriceAlert, err error) {
	if err = cerr.RequireRole(who, model.RoleCustomer); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		as, err = uc.alertsrp.Conn(c).ListByCustomer(ctx, who.UserID)
		return err
	})
	if err != nil {
		as = nil
	}
	return
}

// Delete removes the id price alert of the who customer.
func (uc *UseCase) Delete(
	ctx context.Context, who *model.Principal, id uuid.UUID,
) error {
	if err := cerr.RequireRole(who, model.RoleCustomer); err != nil {
		return err
	}
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.alertsrp.Conn(c).Delete(ctx, id, who.UserID)
	})
}

// Evaluate triggers the active alerts whose listing price is at their
// target price or below, emailing their owners after the triggering
// transaction commits. A nil listingID evaluates all listings.
// It returns the number of triggered alerts.
func (uc *UseCase) Evaluate(
	ctx context.Context, listingID *uuid.UUID,
) (int, error) {
	var triggered []model.TriggeredAlert
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			var err error
			triggered, err = uc.alertsrp.Tx(tx).Trigger(ctx, listingID)
			return err
		})
	})
	if err != nil {
		return 0, fmt.Errorf("triggering alerts: %w", err)
	}
	for i := range triggered {
		t := &triggered[i]
		notify.Mail(ctx, uc.mailer, &model.Mail{
			To: t.CustomerEmail,
			Subject: fmt.Sprintf(
				"Price drop: %d %s %s", t.Listing.Year, t.Listing.Make,
				t.Listing.Model,
			),
			Template: model.MailPriceAlert,
			Data: map[string]any{
				"Listing": t.Listing,
				"Target":  t.Alert.TargetPrice,
			},
		})
	}
	return len(triggered), nil
}
