// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package chatuc contains the chat UseCase. Each conversation is
// about one listing and involves a customer and the dealer of that
// listing. Only these two participants may read or post messages.
package chatuc

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/sanitizer"
)

// MaxMessageLength is the maximum length of a chat message.
const MaxMessageLength = 2000

// UseCase represents a chat use case.
type UseCase struct {
	pool       repo.Pool
	chatrp     repo.Chat
	listingsrp repo.Listings
	dealersrp  repo.Dealers
	sanitizer  sanitizer.Sanitizer
}

// New instantiates a chat use case.
func New(
	p repo.Pool,
	c repo.Chat,
	l repo.Listings,
	d repo.Dealers,
	s sanitizer.Sanitizer,
) *UseCase {
	return &UseCase{
		pool:       p,
		chatrp:     c,
		listingsrp: l,
		dealersrp:  d,
		sanitizer:  s,
	}
}

// Open returns the conversation of the who customer with the dealer of
// the listingID listing, starting it if necessary.
func (uc *UseCase) Open(
	ctx context.Context, who *model.Principal, listingID uuid.UUID,
) (conv *model.Conversation, err error) {
	if err = cerr.RequireRole(who, model.RoleCustomer); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		l, err := uc.listingsrp.Conn(c).Get(ctx, listingID)
		if err != nil {
			return err
		}
		if l.Status != model.ListingActive {
			return cerr.BadRequest(fmt.Errorf("listing is %s", l.Status))
		}
		d, err := uc.dealersrp.Conn(c).Get(ctx, l.DealerID)
		if err != nil {
			return fmt.Errorf("finding dealer: %w", err)
		}
		if d.UserID == who.UserID {
			return cerr.BadRequest(fmt.Errorf(
				"dealers may not chat with themselves",
			))
		}
		conv, err = uc.chatrp.Conn(c).Open(ctx, &model.Conversation{
			ListingID:    l.ID,
			DealerID:     d.ID,
			DealerUserID: d.UserID,
			CustomerID:   who.UserID,
		})
		return err
	})
	if err != nil {
		conv = nil
	}
	return
}

// Conversations lists the conversations of the who principal, most
// recently active first.
func (uc *UseCase) Conversations(
	ctx context.Context, who *model.Principal, p model.Page,
) (cs []model.Conversation, err error) {
	if err = cerr.RequireRole(who); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		cs, err = uc.chatrp.Conn(c).ListConversations(
			ctx, who.UserID, p.Normalize(),
		)
		return err
	})
	if err != nil {
		cs = nil
	}
	return
}

func participate(
	ctx context.Context,
	q repo.ChatQueryer,
	who *model.Principal,
	id uuid.UUID,
) (*model.Conversation, error) {
	conv, err := q.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(who.UserID) {
		return nil, cerr.Authorization(fmt.Errorf(
			"not a participant of conversation %s", id,
		))
	}
	return conv, nil
}

// Messages lists the messages of the id conversation, oldest first.
func (uc *UseCase) Messages(
	ctx context.Context, who *model.Principal, id uuid.UUID, p model.Page,
) (ms []model.Message, err error) {
	if err = cerr.RequireRole(who); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.chatrp.Conn(c)
		if _, err := participate(ctx, q, who, id); err != nil {
			return err
		}
		ms, err = q.ListMessages(ctx, id, p.Normalize())
		return err
	})
	if err != nil {
		ms = nil
	}
	return
}

// Post adds a message of the who participant to the id conversation.
func (uc *UseCase) Post(
	ctx context.Context, who *model.Principal, id uuid.UUID, body string,
) (m *model.Message, err error) {
	if err = cerr.RequireRole(who); err != nil {
		return nil, err
	}
	if uc.sanitizer != nil {
		body = uc.sanitizer.Sanitize(body)
	}
	body = strings.TrimSpace(body)
	if n := utf8.RuneCountInString(body); n == 0 || n > MaxMessageLength {
		return nil, cerr.BadRequest(fmt.Errorf(
			"message length must be in [1, %d]", MaxMessageLength,
		))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.chatrp.Tx(tx)
			if _, err := participate(ctx, q, who, id); err != nil {
				return err
			}
			m, err = q.AddMessage(ctx, &model.Message{
				ConversationID: id,
				SenderID:       who.UserID,
				Body:           body,
			})
			return err
		})
	})
	if err != nil {
		m = nil
	}
	return
}

// MarkRead marks the messages which were sent to the who participant
// in the id conversation as read and returns their count.
func (uc *UseCase) MarkRead(
	ctx context.Context, who *model.Principal, id uuid.UUID,
) (n int64, err error) {
	if err = cerr.RequireRole(who); err != nil {
		return 0, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.chatrp.Conn(c)
		if _, err := participate(ctx, q, who, id); err != nil {
			return err
		}
		n, err = q.MarkRead(ctx, id, who.UserID)
		return err
	})
	return
}
