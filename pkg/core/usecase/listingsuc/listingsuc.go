// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package listingsuc contains the listings UseCase which supports the
// dealer inventory management and the public listings browsing use
// cases, including search, side by side comparison, and make
// suggestions for misspelled searches.
package listingsuc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/log"
	"github.com/momeni/car-market/pkg/core/market"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/sanitizer"
)

// AlertEvaluator triggers the price alerts of a listing whose price
// has dropped. It is realized by the alertsuc.UseCase.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, listingID *uuid.UUID) (int, error)
}

// UseCase represents a listings use case.
type UseCase struct {
	pool       repo.Pool
	listingsrp repo.Listings
	dealersrp  repo.Dealers
	sanitizer  sanitizer.Sanitizer
	alerts     AlertEvaluator

	maxCompare int
	now        func() time.Time
}

// New instantiates a listings use case. The alerts evaluator may be
// nil in order to skip the price alerts evaluation.
func New(
	p repo.Pool,
	l repo.Listings,
	d repo.Dealers,
	s sanitizer.Sanitizer,
	alerts AlertEvaluator,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:       p,
		listingsrp: l,
		dealersrp:  d,
		sanitizer:  s,
		alerts:     alerts,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.maxCompare == 0 {
		uc.maxCompare = 3
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// MaxCompare returns the maximum number of listings which may be
// compared side by side.
func (uc *UseCase) MaxCompare() int {
	return uc.maxCompare
}

func (uc *UseCase) clean(s string) string {
	if uc.sanitizer == nil {
		return s
	}
	return uc.sanitizer.Sanitize(s)
}

// approvedDealer locks and returns the dealer of the who principal.
// Only approved dealers may manage their inventory.
func approvedDealer(
	ctx context.Context, q repo.DealersTxQueryer, who *model.Principal,
) (*model.Dealer, error) {
	d, err := q.LockByUser(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("finding dealer: %w", err)
	}
	if d.Status != model.DealerApproved {
		return nil, cerr.Authorization(fmt.Errorf(
			"dealer is %s, not approved", d.Status,
		))
	}
	return d, nil
}

// checkQuota ensures that one more active listing fits the plan of d.
// The dealer row must be locked, so concurrent creations of the same
// dealer are serialized.
func checkQuota(
	ctx context.Context, q repo.ListingsTxQueryer, d *model.Dealer,
) error {
	quota := d.Plan.ListingQuota()
	if quota == model.Unlimited {
		return nil
	}
	n, err := q.CountActive(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("counting active listings: %w", err)
	}
	if n >= int64(quota) {
		return cerr.Conflict(fmt.Errorf(
			"the %s plan allows %d active listings", d.Plan, quota,
		))
	}
	return nil
}

// Create adds an active listing to the inventory of the who dealer.
func (uc *UseCase) Create(
	ctx context.Context, who *model.Principal, l *model.Listing,
) (listing *model.Listing, err error) {
	if err = cerr.RequireRole(who, model.RoleDealer); err != nil {
		return nil, err
	}
	ll := *l
	ll.Description = uc.clean(ll.Description)
	if err = ll.Validate(uc.now()); err != nil {
		return nil, cerr.BadRequest(err)
	}
	ll.Status = model.ListingActive
	ll.Views = 0
	if ll.Images == nil {
		ll.Images = []string{}
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			d, err := approvedDealer(ctx, uc.dealersrp.Tx(tx), who)
			if err != nil {
				return err
			}
			q := uc.listingsrp.Tx(tx)
			if err = checkQuota(ctx, q, d); err != nil {
				return err
			}
			ll.DealerID = d.ID
			listing, err = q.Create(ctx, &ll)
			return err
		})
	})
	if err != nil {
		listing = nil
	}
	return
}

// Update changes the id listing of the who dealer. Reactivation of a
// listing is subject to the plan quota and lowering its price
// evaluates the price alerts of that listing.
func (uc *UseCase) Update(
	ctx context.Context,
	who *model.Principal,
	id uuid.UUID,
	p *model.ListingPatch,
) (listing *model.Listing, err error) {
	if err = cerr.RequireRole(who, model.RoleDealer); err != nil {
		return nil, err
	}
	pp := *p
	if pp.Description != nil {
		desc := uc.clean(*pp.Description)
		pp.Description = &desc
	}
	if err = pp.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var priceDropped bool
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			d, err := approvedDealer(ctx, uc.dealersrp.Tx(tx), who)
			if err != nil {
				return err
			}
			q := uc.listingsrp.Tx(tx)
			old, err := q.Get(ctx, id)
			if err != nil {
				return err
			}
			if old.DealerID != d.ID {
				return cerr.NotFound(fmt.Errorf("listing %s not found", id))
			}
			reactivating := pp.Status != nil &&
				*pp.Status == model.ListingActive &&
				old.Status != model.ListingActive
			if reactivating {
				if err = checkQuota(ctx, q, d); err != nil {
					return err
				}
			}
			listing, err = q.Update(ctx, id, d.ID, &pp)
			if err != nil {
				return err
			}
			priceDropped = listing.Price < old.Price
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if priceDropped && uc.alerts != nil {
		n, err := uc.alerts.Evaluate(ctx, &id)
		if err != nil {
			log.Warn(
				ctx, "failed to evaluate price alerts",
				log.ID("listing", id),
				log.Err("err", err),
			)
		} else if n > 0 {
			log.Info(
				ctx, "price alerts triggered",
				log.ID("listing", id),
				slog.Int("count", n),
			)
		}
	}
	return listing, nil
}

// Delete removes the id listing of the who dealer.
func (uc *UseCase) Delete(
	ctx context.Context, who *model.Principal, id uuid.UUID,
) error {
	if err := cerr.RequireRole(who, model.RoleDealer); err != nil {
		return err
	}
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		d, err := uc.dealersrp.Conn(c).GetByUser(ctx, who.UserID)
		if err != nil {
			return fmt.Errorf("finding dealer: %w", err)
		}
		return uc.listingsrp.Conn(c).Delete(ctx, id, d.ID)
	})
}

// View returns the id listing and counts one more view for it.
func (uc *UseCase) View(
	ctx context.Context, id uuid.UUID,
) (l *model.Listing, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		l, err = uc.listingsrp.Conn(c).View(ctx, id)
		return err
	})
	if err != nil {
		l = nil
	}
	return
}

// Search finds the active listings which match f. When a make was
// searched and nothing matched it, similar known makes are suggested.
func (uc *UseCase) Search(
	ctx context.Context, f *model.ListingFilter, p model.Page,
) (lp *model.ListingPage, err error) {
	ff := *f
	if err = ff.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	ff.Status = model.ListingActive
	ff.DealerID = nil
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.listingsrp.Conn(c)
		lp, err = q.Search(ctx, &ff, p.Normalize())
		if err != nil || lp.Total > 0 || ff.Make == "" {
			return err
		}
		makes, err := q.Makes(ctx)
		if err != nil {
			return fmt.Errorf("listing makes: %w", err)
		}
		lp.Suggestions = market.SuggestMakes(ff.Make, makes)
		return nil
	})
	if err != nil {
		lp = nil
	}
	return
}

// Inventory lists the listings of the who dealer. An empty status
// lists them all.
func (uc *UseCase) Inventory(
	ctx context.Context,
	who *model.Principal,
	status model.ListingStatus,
	p model.Page,
) (lp *model.ListingPage, err error) {
	if err = cerr.RequireRole(who, model.RoleDealer); err != nil {
		return nil, err
	}
	if status != "" {
		if err = status.Validate(); err != nil {
			return nil, cerr.BadRequest(err)
		}
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		d, err := uc.dealersrp.Conn(c).GetByUser(ctx, who.UserID)
		if err != nil {
			return fmt.Errorf("finding dealer: %w", err)
		}
		f := &model.ListingFilter{DealerID: &d.ID, Status: status}
		lp, err = uc.listingsrp.Conn(c).Search(ctx, f, p.Normalize())
		return err
	})
	if err != nil {
		lp = nil
	}
	return
}

// Suggest returns the known makes which are similar to term.
func (uc *UseCase) Suggest(
	ctx context.Context, term string,
) (makes []string, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		makes, err = uc.listingsrp.Conn(c).Makes(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return market.SuggestMakes(term, makes), nil
}

// Compare puts the given listings side by side. At least two and at
// most MaxCompare distinct listings are required. Sold and archived
// listings are hidden as if they did not exist, like in View.
func (uc *UseCase) Compare(
	ctx context.Context, ids []uuid.UUID,
) (*model.Comparison, error) {
	if len(ids) < 2 || len(ids) > uc.maxCompare {
		return nil, cerr.BadRequest(fmt.Errorf(
			"between 2 and %d listings may be compared, got %d",
			uc.maxCompare, len(ids),
		))
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, cerr.BadRequest(fmt.Errorf(
				"listing %s is repeated", id,
			))
		}
		seen[id] = true
	}
	var ls []model.Listing
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var err error
		ls, err = uc.listingsrp.Conn(c).GetMany(ctx, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Listing, len(ls))
	for _, l := range ls {
		byID[l.ID] = l
	}
	ordered := make([]model.Listing, 0, len(ids))
	for _, id := range ids {
		l, ok := byID[id]
		if !ok || l.Status != model.ListingActive {
			return nil, cerr.NotFound(fmt.Errorf("listing %s not found", id))
		}
		ordered = append(ordered, l)
	}
	return market.Compare(ordered), nil
}
