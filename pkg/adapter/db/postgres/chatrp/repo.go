// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package chatrp is the PostgreSQL adapter of the repo.Chat repository
// which keeps the customer/dealer conversations and their messages.
package chatrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// Repo represents the chat repository instance.
type Repo struct {
}

// New instantiates a chat Repo struct.
func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

type txQueryer struct {
	queryer[*postgres.Tx]
}

func (chat *Repo) Conn(c repo.Conn) repo.ChatConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

// Tx wraps tx as a repo.ChatTxQueryer. Adding messages needs a
// transaction because it updates the conversation row too.
func (chat *Repo) Tx(tx repo.Tx) repo.ChatTxQueryer {
	return txQueryer{queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}}
}

func (cq queryer[Q]) Open(
	ctx context.Context, c *model.Conversation,
) (*model.Conversation, error) {
	return Open(ctx, cq.q, c)
}

func (cq queryer[Q]) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Conversation, error) {
	return Get(ctx, cq.q, id)
}

func (cq queryer[Q]) ListConversations(
	ctx context.Context, userID uuid.UUID, p model.Page,
) ([]model.Conversation, error) {
	return ListConversations(ctx, cq.q, userID, p)
}

func (cq queryer[Q]) ListMessages(
	ctx context.Context, conversationID uuid.UUID, p model.Page,
) ([]model.Message, error) {
	return ListMessages(ctx, cq.q, conversationID, p)
}

func (cq queryer[Q]) MarkRead(
	ctx context.Context, conversationID, readerID uuid.UUID,
) (int64, error) {
	return MarkRead(ctx, cq.q, conversationID, readerID)
}

func (tq txQueryer) AddMessage(
	ctx context.Context, m *model.Message,
) (*model.Message, error) {
	return AddMessage(ctx, tq.q, m)
}
