// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ListingStatus is the lifecycle state of a car listing.
type ListingStatus string

// Valid values for the ListingStatus enum.
const (
	ListingActive   ListingStatus = "active"
	ListingSold     ListingStatus = "sold"
	ListingArchived ListingStatus = "archived"
)

// Fuel, Transmission, and BodyType are free-form in storage, but their
// accepted values are enumerated here for validation.
var (
	Fuels         = []string{"petrol", "diesel", "cng", "electric", "hybrid"}
	Transmissions = []string{"manual", "automatic"}
	BodyTypes     = []string{
		"hatchback", "sedan", "suv", "muv", "coupe", "convertible",
		"pickup", "van",
	}
)

// ErrUnknownListingStatus indicates that a status string is not known.
var ErrUnknownListingStatus = errors.New("unknown listing status")

// Validate returns ErrUnknownListingStatus for unknown statuses.
func (s ListingStatus) Validate() error {
	switch s {
	case ListingActive, ListingSold, ListingArchived:
		return nil
	default:
		return ErrUnknownListingStatus
	}
}

// Listing is a car which is offered for sale by a dealer.
type Listing struct {
	ID           uuid.UUID     `json:"id"`
	DealerID     uuid.UUID     `json:"dealer_id"`
	Make         string        `json:"make"`
	Model        string        `json:"model"`
	Variant      string        `json:"variant,omitempty"`
	Year         int           `json:"year"`
	Price        float64       `json:"price"`
	Mileage      int           `json:"mileage"`
	Fuel         string        `json:"fuel"`
	Transmission string        `json:"transmission"`
	BodyType     string        `json:"body_type"`
	Color        string        `json:"color,omitempty"`
	City         string        `json:"city"`
	Description  string        `json:"description,omitempty"`
	Images       []string      `json:"images"`
	Status       ListingStatus `json:"status"`
	Featured     bool          `json:"featured"`
	Views        int64         `json:"views"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ListingPatch carries the optional fields of a listing update.
// Nil fields are kept unchanged.
type ListingPatch struct {
	Variant      *string        `json:"variant,omitempty"`
	Price        *float64       `json:"price,omitempty"`
	Mileage      *int           `json:"mileage,omitempty"`
	Color        *string        `json:"color,omitempty"`
	City         *string        `json:"city,omitempty"`
	Description  *string        `json:"description,omitempty"`
	Images       []string       `json:"images,omitempty"`
	Status       *ListingStatus `json:"status,omitempty"`
	Featured     *bool          `json:"featured,omitempty"`
	Transmission *string        `json:"transmission,omitempty"`
}

// ListingSort selects the order of listing search results.
type ListingSort string

// Valid values for the ListingSort enum. The zero value is SortNewest.
const (
	SortNewest     ListingSort = ""
	SortPriceAsc   ListingSort = "price_asc"
	SortPriceDesc  ListingSort = "price_desc"
	SortYearDesc   ListingSort = "year_desc"
	SortMileageAsc ListingSort = "mileage_asc"
)

// ListingFilter describes a listing search. Zero values and nil
// pointers disable their criteria. It is also stored as the criteria
// of saved searches, hence, the json tags.
type ListingFilter struct {
	Make         string      `json:"make,omitempty"`
	Model        string      `json:"model,omitempty"`
	MinPrice     *float64    `json:"min_price,omitempty"`
	MaxPrice     *float64    `json:"max_price,omitempty"`
	MinYear      *int        `json:"min_year,omitempty"`
	MaxYear      *int        `json:"max_year,omitempty"`
	MaxMileage   *int        `json:"max_mileage,omitempty"`
	Fuel         string      `json:"fuel,omitempty"`
	Transmission string      `json:"transmission,omitempty"`
	BodyType     string      `json:"body_type,omitempty"`
	City         string      `json:"city,omitempty"`
	Sort         ListingSort `json:"sort,omitempty"`

	// DealerID and Status are set by the use cases, not by end-users.
	DealerID *uuid.UUID    `json:"-"`
	Status   ListingStatus `json:"-"`
}

// Page selects a window of a result set.
type Page struct {
	Limit  int
	Offset int
}

// Page size defaults.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize returns a copy of p which its non-positive Limit is
// replaced by DefaultPageLimit, its Limit is capped by MaxPageLimit,
// and its negative Offset is replaced by zero.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ListingPage is one page of listing search results.
type ListingPage struct {
	Items []Listing `json:"items"`
	Total int64     `json:"total"`

	// Suggestions lists the known makes which are similar to the
	// searched make when nothing matched it.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Comparison reports listings side by side. Highlights maps an
// attribute name (price, mileage, year) to the best listing ID.
type Comparison struct {
	Listings   []Listing            `json:"listings"`
	Highlights map[string]uuid.UUID `json:"highlights"`
}
