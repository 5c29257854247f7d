// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a chat thread between a customer and the dealer of
// a listing. DealerUserID is the profile which manages the dealer.
type Conversation struct {
	ID            uuid.UUID `json:"id"`
	ListingID     uuid.UUID `json:"listing_id"`
	DealerID      uuid.UUID `json:"dealer_id"`
	DealerUserID  uuid.UUID `json:"dealer_user_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

// HasParticipant reports if the userID profile takes part in c.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.CustomerID == userID || c.DealerUserID == userID
}

// Message is one chat message of a conversation.
type Message struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	Body           string     `json:"body"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
