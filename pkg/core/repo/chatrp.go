// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/model"
)

type ChatConnQueryer interface {
	ChatQueryer
}

type ChatTxQueryer interface {
	ChatQueryer

	// AddMessage inserts m and bumps the last message time of its
	// conversation.
	AddMessage(ctx context.Context, m *model.Message) (*model.Message, error)
}

type ChatQueryer interface {
	// Open returns the conversation of c.CustomerID about c.ListingID,
	// creating it if it does not exist yet.
	Open(
		ctx context.Context, c *model.Conversation,
	) (*model.Conversation, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Conversation, error)
	ListConversations(
		ctx context.Context, userID uuid.UUID, p model.Page,
	) ([]model.Conversation, error)
	ListMessages(
		ctx context.Context, conversationID uuid.UUID, p model.Page,
	) ([]model.Message, error)

	// MarkRead marks the messages of a conversation which were not sent
	// by readerID as read and returns their count.
	MarkRead(
		ctx context.Context, conversationID, readerID uuid.UUID,
	) (int64, error)
}

type Chat interface {
	Conn(Conn) ChatConnQueryer
	Tx(Tx) ChatTxQueryer
}
