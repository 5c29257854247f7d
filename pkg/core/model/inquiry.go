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

// InquiryStatus is the state of a test-drive inquiry.
type InquiryStatus string

// Valid values for the InquiryStatus enum.
const (
	InquiryPending   InquiryStatus = "pending"
	InquiryConfirmed InquiryStatus = "confirmed"
	InquiryCompleted InquiryStatus = "completed"
	InquiryCancelled InquiryStatus = "cancelled"
)

// ErrUnknownInquiryStatus indicates that a status string is not known.
var ErrUnknownInquiryStatus = errors.New("unknown inquiry status")

// Validate returns ErrUnknownInquiryStatus for unknown statuses.
func (s InquiryStatus) Validate() error {
	switch s {
	case InquiryPending, InquiryConfirmed, InquiryCompleted,
		InquiryCancelled:
		return nil
	default:
		return ErrUnknownInquiryStatus
	}
}

// CanBecome reports if an inquiry in status s may move to next.
// Completed and cancelled inquiries are final.
func (s InquiryStatus) CanBecome(next InquiryStatus) bool {
	switch s {
	case InquiryPending:
		return next == InquiryConfirmed || next == InquiryCancelled
	case InquiryConfirmed:
		return next == InquiryCompleted || next == InquiryCancelled
	default:
		return false
	}
}

// Inquiry is a test-drive booking of a customer for a listing.
type Inquiry struct {
	ID          uuid.UUID     `json:"id"`
	ListingID   uuid.UUID     `json:"listing_id"`
	DealerID    uuid.UUID     `json:"dealer_id"`
	CustomerID  uuid.UUID     `json:"customer_id"`
	PreferredAt time.Time     `json:"preferred_at"`
	Phone       string        `json:"phone,omitempty"`
	Message     string        `json:"message,omitempty"`
	Status      InquiryStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
