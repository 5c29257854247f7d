// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package chatrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gConversation struct {
	ID            uuid.UUID `gorm:"primaryKey;type:uuid"`
	ListingID     uuid.UUID `gorm:"type:uuid"`
	DealerID      uuid.UUID `gorm:"type:uuid"`
	DealerUserID  uuid.UUID `gorm:"type:uuid"`
	CustomerID    uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
	LastMessageAt time.Time
}

func (gc *gConversation) TableName() string {
	return "conversations"
}

func (gc *gConversation) Model() *model.Conversation {
	return &model.Conversation{
		ID:            gc.ID,
		ListingID:     gc.ListingID,
		DealerID:      gc.DealerID,
		DealerUserID:  gc.DealerUserID,
		CustomerID:    gc.CustomerID,
		CreatedAt:     gc.CreatedAt,
		LastMessageAt: gc.LastMessageAt,
	}
}

type gMessage struct {
	ID             uuid.UUID `gorm:"primaryKey;type:uuid"`
	ConversationID uuid.UUID `gorm:"type:uuid"`
	SenderID       uuid.UUID `gorm:"type:uuid"`
	Body           string
	ReadAt         *time.Time
	CreatedAt      time.Time
}

func (gm *gMessage) TableName() string {
	return "messages"
}

func (gm *gMessage) Model() *model.Message {
	return &model.Message{
		ID:             gm.ID,
		ConversationID: gm.ConversationID,
		SenderID:       gm.SenderID,
		Body:           gm.Body,
		ReadAt:         gm.ReadAt,
		CreatedAt:      gm.CreatedAt,
	}
}

// Open inserts a conversation for c, ignoring the unique key conflict
// of an existing (listing, customer) pair, and then reads it back.
// Both steps tolerate concurrent openings of the same conversation.
func Open[Q postgres.Queryer](
	ctx context.Context, q Q, c *model.Conversation,
) (*model.Conversation, error) {
	now := time.Now()
	gc := &gConversation{
		ID:            uuid.New(),
		ListingID:     c.ListingID,
		DealerID:      c.DealerID,
		DealerUserID:  c.DealerUserID,
		CustomerID:    c.CustomerID,
		CreatedAt:     now,
		LastMessageAt: now,
	}
	err := q.GORM(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "listing_id"}, {Name: "customer_id"},
		},
		DoNothing: true,
	}).Create(gc).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	var found gConversation
	err = q.GORM(ctx).Where(
		"listing_id=? AND customer_id=?", c.ListingID, c.CustomerID,
	).Take(&found).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	return found.Model(), nil
}

func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.Conversation, error) {
	var gc gConversation
	if err := q.GORM(ctx).Where("id=?", id).Take(&gc).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gc.Model(), nil
}

// ListConversations returns the conversations which userID takes part
// in, either as the customer or as the dealer, most recent first.
func ListConversations[Q postgres.Queryer](
	ctx context.Context, q Q, userID uuid.UUID, p model.Page,
) ([]model.Conversation, error) {
	var gcs []gConversation
	gdb := q.GORM(ctx).Where(
		"customer_id=? OR dealer_user_id=?", userID, userID,
	).Order("last_message_at DESC, id")
	if err := postgres.Paginate(gdb, p).Find(&gcs).Error; err != nil {
		return nil, postgres.Error(err)
	}
	cs := make([]model.Conversation, len(gcs))
	for i := range gcs {
		cs[i] = *gcs[i].Model()
	}
	return cs, nil
}

// ListMessages returns the messages of a conversation in their
// chronological order.
func ListMessages[Q postgres.Queryer](
	ctx context.Context, q Q, conversationID uuid.UUID, p model.Page,
) ([]model.Message, error) {
	var gms []gMessage
	gdb := q.GORM(ctx).Where(
		"conversation_id=?", conversationID,
	).Order("created_at, id")
	if err := postgres.Paginate(gdb, p).Find(&gms).Error; err != nil {
		return nil, postgres.Error(err)
	}
	ms := make([]model.Message, len(gms))
	for i := range gms {
		ms[i] = *gms[i].Model()
	}
	return ms, nil
}

func MarkRead[Q postgres.Queryer](
	ctx context.Context, q Q, conversationID, readerID uuid.UUID,
) (int64, error) {
	tx := q.GORM(ctx).Model(&gMessage{}).Where(
		"conversation_id=? AND sender_id<>? AND read_at IS NULL",
		conversationID, readerID,
	).Update("read_at", time.Now())
	if err := tx.Error; err != nil {
		return 0, postgres.Error(err)
	}
	return tx.RowsAffected, nil
}

func AddMessage(
	ctx context.Context, tx *postgres.Tx, m *model.Message,
) (*model.Message, error) {
	gm := &gMessage{
		ID:             uuid.New(),
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		CreatedAt:      time.Now(),
	}
	gdb := tx.GORM(ctx)
	if err := gdb.Create(gm).Error; err != nil {
		return nil, postgres.Error(err)
	}
	ut := tx.GORM(ctx).Model(&gConversation{}).Where(
		"id=?", m.ConversationID,
	).Update("last_message_at", gm.CreatedAt)
	if err := ut.Error; err != nil {
		return nil, postgres.Error(err)
	}
	if err := postgres.ExpectOne(int(ut.RowsAffected)); err != nil {
		return nil, err
	}
	return gm.Model(), nil
}
