// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package searchesuc contains the saved searches UseCase.
package searchesuc

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// MaxNameLength is the maximum length of a saved search name.
const MaxNameLength = 64

// UseCase represents a saved searches use case.
type UseCase struct {
	pool       repo.Pool
	searchesrp repo.Searches
	listingsrp repo.Listings
}

// New instantiates a saved searches use case.
func New(p repo.Pool, s repo.Searches, l repo.Listings) *UseCase {
	return &UseCase{pool: p, searchesrp: s, listingsrp: l}
}

// Create saves the criteria of the who customer as name.
func (uc *UseCase) Create(
	ctx context.Context,
	who *model.Principal,
	name string,
	criteria *model.ListingFilter,
) (s *model.SavedSearch, err error) {
	if err = cerr.RequireRole(who, model.RoleCustomer); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxNameLength {
		return nil, cerr.BadRequest(fmt.Errorf(
			"name length must be in [1, %d]", MaxNameLength,
		))
	}
	if err = criteria.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		s, err = uc.searchesrp.Conn(c).Create(ctx, &model.SavedSearch{
			CustomerID: who.UserID,
			Name:       name,
			Criteria:   *criteria,
		})
		return err
	})
	if err != nil {
		s = nil
	}
	return
}

// List returns the saved searches of the who customer.
func (uc *UseCase) List(
	ctx context.Context, who *model.Principal,
) (ss []model.SavedSearch, err error) {
	if err = cerr.RequireRole(who, model.RoleCustomer); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ss, err = uc.searchesrp.Conn(c).List(ctx, who.UserID)
		return err
	})
	if err != nil {
		ss = nil
	}
	return
}

// Delete removes the id saved search of the who customer.
func (uc *UseCase) Delete(
	ctx context.Context, who *model.Principal, id uuid.UUID,
) error {
	if err := cerr.RequireRole(who, model.RoleCustomer); err != nil {
		return err
	}
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return uc.searchesrp.Conn(c).Delete(ctx, id, who.UserID)
	})
}

// Run searches the active listings with the criteria of the id saved
// search of the who customer.
func (uc *UseCase) Run(
	ctx context.Context, who *model.Principal, id uuid.UUID, p model.Page,
) (lp *model.ListingPage, err error) {
	if err = cerr.RequireRole(who, model.RoleCustomer); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		s, err := uc.searchesrp.Conn(c).Get(ctx, id, who.UserID)
		if err != nil {
			return err
		}
		f := s.Criteria
		f.Status = model.ListingActive
		lp, err = uc.listingsrp.Conn(c).Search(ctx, &f, p.Normalize())
		return err
	})
	if err != nil {
		lp = nil
	}
	return
}
