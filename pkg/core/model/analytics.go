// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/google/uuid"
)

// Count is one bucket of a grouped count query.
type Count struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// MonthCount counts the rows which were created in a given month.
type MonthCount struct {
	Month time.Time `json:"month"`
	Count int64     `json:"count"`
}

// AdminDashboard summarizes the marketplace for administrators.
type AdminDashboard struct {
	ProfilesByRole    map[string]int64 `json:"profiles_by_role"`
	DealersByStatus   map[string]int64 `json:"dealers_by_status"`
	ListingsByStatus  map[string]int64 `json:"listings_by_status"`
	TopMakes          []Count          `json:"top_makes"`
	InquiriesPerMonth []MonthCount     `json:"inquiries_per_month"`
}

// ListingStats reports the engagement of one listing.
type ListingStats struct {
	ListingID  uuid.UUID `json:"listing_id"`
	Title      string    `json:"title"`
	Views      int64     `json:"views"`
	Inquiries  int64     `json:"inquiries"`
	Conversion float64   `json:"conversion"`
}

// DealerDashboard summarizes the listings of one dealer.
type DealerDashboard struct {
	TotalViews     int64          `json:"total_views"`
	TotalInquiries int64          `json:"total_inquiries"`
	ActiveListings int64          `json:"active_listings"`
	Listings       []ListingStats `json:"listings"`
	TopListings    []ListingStats `json:"top_listings"`
}
