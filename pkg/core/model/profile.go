// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models of the car market, also called
// entities or domain. This layer may not depend on outter layers, while
// all other layers may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// the json tags since adding more tags does not complicate definition
// of a struct, but can prevent unnecessary structs duplication.
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role is the application role of an authenticated user.
type Role string

// Valid values for the Role enum.
const (
	RoleCustomer Role = "customer"
	RoleDealer   Role = "dealer"
	RoleAdmin    Role = "admin"
)

// ErrUnknownRole indicates that a role string is not known.
var ErrUnknownRole = errors.New("unknown role")

// Validate returns ErrUnknownRole for unknown roles.
func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleDealer, RoleAdmin:
		return nil
	default:
		return ErrUnknownRole
	}
}

// Principal identifies the authenticated caller of a use case. It is
// extracted from a verified bearer token by the adapters layer.
type Principal struct {
	UserID uuid.UUID
	Role   Role
	Email  string
}

// IsAdmin reports if p belongs to an administrator.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Profile is the public profile of a registered user.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
