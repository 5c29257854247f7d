// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fakerepo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// Alerts is an in-memory price alerts repository. Its Trigger reads
// the listing prices from the Listings repository and takes the
// customer emails from the Emails map.
type Alerts struct {
	mu       sync.Mutex
	rows     []model.PriceAlert
	listings *Listings
	Emails   map[uuid.UUID]string
}

// NewAlerts creates an empty alerts repository over l.
func NewAlerts(l *Listings) *Alerts {
	return &Alerts{listings: l, Emails: make(map[uuid.UUID]string)}
}

func (r *Alerts) Conn(repo.Conn) repo.AlertsConnQueryer { return r }

func (r *Alerts) Tx(repo.Tx) repo.AlertsTxQueryer { return r }

func (r *Alerts) Create(
	_ context.Context, a *model.PriceAlert,
) (*model.PriceAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	aa := *a
	aa.ID = uuid.New()
	aa.CreatedAt = time.Now()
	r.rows = append(r.rows, aa)
	return &aa, nil
}

func (r *Alerts) ListByCustomer(
	_ context.Context, customerID uuid.UUID,
) ([]model.PriceAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var as []model.PriceAlert
	for _, a := range r.rows {
		if a.CustomerID == customerID {
			as = append(as, a)
		}
	}
	return as, nil
}

func (r *Alerts) Delete(_ context.Context, id, customerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.rows {
		if a.ID == id && a.CustomerID == customerID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return notFound("price alert", id)
}

func (r *Alerts) Trigger(
	ctx context.Context, listingID *uuid.UUID,
) ([]model.TriggeredAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ts []model.TriggeredAlert
	for i := range r.rows {
		a := &r.rows[i]
		if !a.Active || (listingID != nil && a.ListingID != *listingID) {
			continue
		}
		l, err := r.listings.Get(ctx, a.ListingID)
		if cerr.IsNotFound(err) {
			continue
		} else if err != nil {
			return nil, err
		}
		if l.Status != model.ListingActive || l.Price > a.TargetPrice {
			continue
		}
		now := time.Now()
		a.Active = false
		a.TriggeredAt = &now
		ts = append(ts, model.TriggeredAlert{
			Alert:         *a,
			CustomerEmail: r.Emails[a.CustomerID],
			Listing:       *l,
		})
	}
	return ts, nil
}

// Searches is an in-memory saved searches repository.
type Searches struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.SavedSearch
}

// NewSearches creates an empty saved searches repository.
func NewSearches() *Searches {
	return &Searches{rows: make(map[uuid.UUID]model.SavedSearch)}
}

func (r *Searches) Conn(repo.Conn) repo.SearchesConnQueryer { return r }

func (r *Searches) Tx(repo.Tx) repo.SearchesTxQueryer { return r }

func (r *Searches) Create(
	_ context.Context, s *model.SavedSearch,
) (*model.SavedSearch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ss := *s
	ss.ID = uuid.New()
	ss.CreatedAt = time.Now()
	r.rows[ss.ID] = ss
	return &ss, nil
}

func (r *Searches) Get(
	_ context.Context, id, customerID uuid.UUID,
) (*model.SavedSearch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok || s.CustomerID != customerID {
		return nil, notFound("saved search", id)
	}
	return &s, nil
}

func (r *Searches) List(
	_ context.Context, customerID uuid.UUID,
) ([]model.SavedSearch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ss []model.SavedSearch
	for _, s := range r.rows {
		if s.CustomerID == customerID {
			ss = append(ss, s)
		}
	}
	sort.Slice(ss, func(i, j int) bool { return ss[i].Name < ss[j].Name })
	return ss, nil
}

func (r *Searches) Delete(_ context.Context, id, customerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok || s.CustomerID != customerID {
		return notFound("saved search", id)
	}
	delete(r.rows, id)
	return nil
}

// Subscriptions is an in-memory subscription requests repository.
type Subscriptions struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.SubscriptionRequest
}

// NewSubscriptions creates an empty subscriptions repository.
func NewSubscriptions() *Subscriptions {
	return &Subscriptions{rows: make(map[uuid.UUID]model.SubscriptionRequest)}
}

func (r *Subscriptions) Conn(repo.Conn) repo.SubscriptionsConnQueryer {
	return r
}

func (r *Subscriptions) Tx(repo.Tx) repo.SubscriptionsTxQueryer {
	return r
}

func (r *Subscriptions) Create(
	_ context.Context, sr *model.SubscriptionRequest,
) (*model.SubscriptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.rows {
		if cur.DealerID == sr.DealerID &&
			cur.Status == model.RequestPending {
			return nil, cerr.Conflict(errors.New("a request is pending"))
		}
	}
	rr := *sr
	rr.ID = uuid.New()
	rr.CreatedAt = time.Now()
	r.rows[rr.ID] = rr
	return &rr, nil
}

func (r *Subscriptions) Get(
	_ context.Context, id uuid.UUID,
) (*model.SubscriptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sr, ok := r.rows[id]
	if !ok {
		return nil, notFound("subscription request", id)
	}
	return &sr, nil
}

func (r *Subscriptions) List(
	_ context.Context,
	dealerID *uuid.UUID,
	status *model.RequestStatus,
	p model.Page,
) ([]model.SubscriptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rs []model.SubscriptionRequest
	for _, sr := range r.rows {
		switch {
		case dealerID != nil && sr.DealerID != *dealerID:
		case status != nil && sr.Status != *status:
		default:
			rs = append(rs, sr)
		}
	}
	sort.Slice(rs, func(i, j int) bool {
		return rs[i].CreatedAt.After(rs[j].CreatedAt)
	})
	return window(rs, p), nil
}

func (r *Subscriptions) Decide(
	_ context.Context,
	id uuid.UUID,
	status model.RequestStatus,
	note string,
) (*model.SubscriptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sr, ok := r.rows[id]
	if !ok || sr.Status != model.RequestPending {
		return nil, notFound("pending subscription request", id)
	}
	now := time.Now()
	sr.Status = status
	sr.DecidedAt = &now
	if note != "" {
		sr.Note = note
	}
	r.rows[id] = sr
	return &sr, nil
}
