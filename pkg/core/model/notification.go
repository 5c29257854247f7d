// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies admin notifications.
type NotificationKind string

// Known notification kinds.
const (
	NotifyDealerRegistered    NotificationKind = "dealer_registered"
	NotifyInquiryCreated      NotificationKind = "inquiry_created"
	NotifySubscriptionRequest NotificationKind = "subscription_request"
	NotifyListingCreated      NotificationKind = "listing_created"
)

// Notification is an admin back office notification. Notifications
// are appended by other use cases and are ordered by CreatedAt.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Ref       *uuid.UUID       `json:"ref,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// MailTemplate names one of the transactional email templates.
type MailTemplate string

// Known transactional email templates.
const (
	MailDealerApproved       MailTemplate = "dealer_approved"
	MailDealerRejected       MailTemplate = "dealer_rejected"
	MailInquiryReceived      MailTemplate = "inquiry_received"
	MailInquiryStatus        MailTemplate = "inquiry_status"
	MailPriceAlert           MailTemplate = "price_alert"
	MailSubscriptionDecision MailTemplate = "subscription_decision"
)

// Mail is a transactional email which is rendered from Template using
// the Data fields and sent to the To address.
type Mail struct {
	To       string
	Subject  string
	Template MailTemplate
	Data     map[string]any
}
