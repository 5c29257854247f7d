// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package notificationsrp is the PostgreSQL adapter of the
// repo.Notifications repository which keeps the admin notifications.
package notificationsrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
	"gorm.io/gorm/clause"
)

type gNotification struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	Kind      string
	Title     string
	Body      string
	Ref       *uuid.UUID `gorm:"type:uuid"`
	Read      bool
	CreatedAt time.Time
}

func (gn *gNotification) TableName() string {
	return "notifications"
}

func (gn *gNotification) Model() *model.Notification {
	return &model.Notification{
		ID:        gn.ID,
		Kind:      model.NotificationKind(gn.Kind),
		Title:     gn.Title,
		Body:      gn.Body,
		Ref:       gn.Ref,
		Read:      gn.Read,
		CreatedAt: gn.CreatedAt,
	}
}

func Create[Q postgres.Queryer](
	ctx context.Context, q Q, n *model.Notification,
) (*model.Notification, error) {
	gn := &gNotification{
		ID:    uuid.New(),
		Kind:  string(n.Kind),
		Title: n.Title,
		Body:  n.Body,
		Ref:   n.Ref,
	}
	if err := q.GORM(ctx).Create(gn).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gn.Model(), nil
}

func List[Q postgres.Queryer](
	ctx context.Context, q Q, unreadOnly bool, p model.Page,
) ([]model.Notification, error) {
	gdb := q.GORM(ctx)
	if unreadOnly {
		gdb = gdb.Where("NOT read")
	}
	var gns []gNotification
	gdb = postgres.Paginate(gdb.Order("created_at DESC, id"), p)
	if err := gdb.Find(&gns).Error; err != nil {
		return nil, postgres.Error(err)
	}
	ns := make([]model.Notification, len(gns))
	for i := range gns {
		ns[i] = *gns[i].Model()
	}
	return ns, nil
}

func MarkRead[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.Notification, error) {
	var gns []gNotification
	tx := q.GORM(ctx).Model(&gns).Clauses(clause.Returning{}).Where(
		"id=?", id,
	).Update("read", true)
	if err := tx.Error; err != nil {
		return nil, postgres.Error(err)
	}
	if err := postgres.ExpectOne(len(gns)); err != nil {
		return nil, err
	}
	return gns[0].Model(), nil
}

func Prune[Q postgres.Queryer](
	ctx context.Context, q Q, before time.Time,
) (int64, error) {
	tx := q.GORM(ctx).Where(
		"read AND created_at<?", before,
	).Delete(&gNotification{})
	if err := tx.Error; err != nil {
		return 0, postgres.Error(err)
	}
	return tx.RowsAffected, nil
}

// Repo represents the notifications repository instance.
type Repo struct {
}

// New instantiates a notifications Repo struct.
func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (ns *Repo) Conn(c repo.Conn) repo.NotificationsConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (ns *Repo) Tx(tx repo.Tx) repo.NotificationsTxQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (nq queryer[Q]) Create(
	ctx context.Context, n *model.Notification,
) (*model.Notification, error) {
	return Create(ctx, nq.q, n)
}

func (nq queryer[Q]) List(
	ctx context.Context, unreadOnly bool, p model.Page,
) ([]model.Notification, error) {
	return List(ctx, nq.q, unreadOnly, p)
}

func (nq queryer[Q]) MarkRead(
	ctx context.Context, id uuid.UUID,
) (*model.Notification, error) {
	return MarkRead(ctx, nq.q, id)
}

func (nq queryer[Q]) Prune(
	ctx context.Context, before time.Time,
) (int64, error) {
	return Prune(ctx, nq.q, before)
}
