// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the state of a subscription change request.
type RequestStatus string

// Valid values for the RequestStatus enum.
const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// SubscriptionRequest asks an administrator to move a dealer from its
// current plan to the requested plan.
type SubscriptionRequest struct {
	ID            uuid.UUID     `json:"id"`
	DealerID      uuid.UUID     `json:"dealer_id"`
	CurrentPlan   Plan          `json:"current_plan"`
	RequestedPlan Plan          `json:"requested_plan"`
	Status        RequestStatus `json:"status"`
	Note          string        `json:"note,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	DecidedAt     *time.Time    `json:"decided_at,omitempty"`
}
