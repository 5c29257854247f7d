// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DealerStatus is the approval state of a dealer account.
type DealerStatus string

// Valid values for the DealerStatus enum.
const (
	DealerPending   DealerStatus = "pending"
	DealerApproved  DealerStatus = "approved"
	DealerRejected  DealerStatus = "rejected"
	DealerSuspended DealerStatus = "suspended"
)

// ErrUnknownDealerStatus indicates that a status string is not known.
var ErrUnknownDealerStatus = errors.New("unknown dealer status")

// Validate returns ErrUnknownDealerStatus for unknown statuses.
func (s DealerStatus) Validate() error {
	switch s {
	case DealerPending, DealerApproved, DealerRejected, DealerSuspended:
		return nil
	default:
		return ErrUnknownDealerStatus
	}
}

// CanBecome reports if a dealer in status s may move to the next
// status. A pending dealer is either approved or rejected, an approved
// dealer may be suspended, and a suspended dealer may be reinstated.
func (s DealerStatus) CanBecome(next DealerStatus) bool {
	switch s {
	case DealerPending:
		return next == DealerApproved || next == DealerRejected
	case DealerApproved:
		return next == DealerSuspended
	case DealerSuspended:
		return next == DealerApproved
	default:
		return false
	}
}

// Plan is the subscription plan of a dealer.
type Plan string

// Valid values for the Plan enum.
const (
	PlanFree    Plan = "free"
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
)

// Unlimited is returned by Plan.ListingQuota for plans without a cap.
const Unlimited = -1

// ErrUnknownPlan indicates that a plan string is not known.
var ErrUnknownPlan = errors.New("unknown plan")

// Validate returns ErrUnknownPlan for unknown plans.
func (p Plan) Validate() error {
	switch p {
	case PlanFree, PlanBasic, PlanPremium:
		return nil
	default:
		return ErrUnknownPlan
	}
}

// ListingQuota returns how many active listings a dealer on plan p may
// have at the same time, or Unlimited.
func (p Plan) ListingQuota() int {
	switch p {
	case PlanFree:
		return 5
	case PlanBasic:
		return 25
	case PlanPremium:
		return Unlimited
	default:
		panic(fmt.Sprintf("invalid plan: %q", string(p)))
	}
}

// Dealer is a business which sells cars on the market. UserID is the
// profile which owns and manages the dealer account.
type Dealer struct {
	ID              uuid.UUID    `json:"id"`
	UserID          uuid.UUID    `json:"user_id"`
	BusinessName    string       `json:"business_name"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone"`
	City            string       `json:"city"`
	Address         string       `json:"address"`
	Status          DealerStatus `json:"status"`
	Plan            Plan         `json:"plan"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
