// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/google/uuid"
)

// PriceAlert asks to notify a customer once the price of a listing
// drops to TargetPrice or below. Alerts fire once and become inactive.
type PriceAlert struct {
	ID          uuid.UUID  `json:"id"`
	CustomerID  uuid.UUID  `json:"customer_id"`
	ListingID   uuid.UUID  `json:"listing_id"`
	TargetPrice float64    `json:"target_price"`
	Active      bool       `json:"active"`
	TriggeredAt *time.Time `json:"triggered_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TriggeredAlert joins a fired alert with the data which is needed for
// notifying its owner.
type TriggeredAlert struct {
	Alert         PriceAlert
	CustomerEmail string
	Listing       Listing
}

// SavedSearch is a named listing filter of a customer.
type SavedSearch struct {
	ID         uuid.UUID     `json:"id"`
	CustomerID uuid.UUID     `json:"customer_id"`
	Name       string        `json:"name"`
	Criteria   ListingFilter `json:"criteria"`
	CreatedAt  time.Time     `json:"created_at"`
}
