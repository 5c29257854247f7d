// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package profilesuc contains the profiles UseCase which lets each
// authenticated user to view and update their own profile.
package profilesuc

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// Profile fields limits.
const (
	MaxFullNameLength = 128
	MaxPhoneLength    = 32
)

// UseCase represents a profiles use case.
type UseCase struct {
	pool       repo.Pool
	profilesrp repo.Profiles
}

// New instantiates a profiles use case.
func New(p repo.Pool, r repo.Profiles) *UseCase {
	return &UseCase{pool: p, profilesrp: r}
}

// Me returns the profile of the who principal. A missing profile is
// created from the principal identity, so signed up users always
// have a profile.
func (uc *UseCase) Me(
	ctx context.Context, who *model.Principal,
) (p *model.Profile, err error) {
	if err = cerr.RequireRole(who); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.profilesrp.Conn(c)
		p, err = q.Get(ctx, who.UserID)
		if !cerr.IsNotFound(err) {
			return err
		}
		p, err = q.Upsert(ctx, &model.Profile{
			ID:    who.UserID,
			Email: who.Email,
			Role:  who.Role,
		})
		return err
	})
	if err != nil {
		p = nil
	}
	return
}

// Update sets the full name and phone number of the who principal.
// The email and role are always taken from the principal.
func (uc *UseCase) Update(
	ctx context.Context, who *model.Principal, fullName, phone string,
) (p *model.Profile, err error) {
	if err = cerr.RequireRole(who); err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	phone = strings.TrimSpace(phone)
	if n := utf8.RuneCountInString(fullName); n == 0 || n > MaxFullNameLength {
		return nil, cerr.BadRequest(fmt.Errorf(
			"full name length must be in [1, %d]", MaxFullNameLength,
		))
	}
	if len(phone) > MaxPhoneLength {
		return nil, cerr.BadRequest(fmt.Errorf(
			"phone length must not exceed %d", MaxPhoneLength,
		))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.profilesrp.Conn(c)
		p, err = q.Upsert(ctx, &model.Profile{
			ID:       who.UserID,
			Email:    who.Email,
			FullName: fullName,
			Phone:    phone,
			Role:     who.Role,
		})
		return err
	})
	if err != nil {
		p = nil
	}
	return
}
