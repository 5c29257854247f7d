// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/model"
)

type NotificationsConnQueryer interface {
	NotificationsQueryer
}

type NotificationsTxQueryer interface {
	NotificationsQueryer
}

type NotificationsQueryer interface {
	Create(
		ctx context.Context, n *model.Notification,
	) (*model.Notification, error)

	// List returns notifications, newest first.
	List(
		ctx context.Context, unreadOnly bool, p model.Page,
	) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error)

	// Prune deletes read notifications which were created before
	// the given time and returns their count.
	Prune(ctx context.Context, before time.Time) (int64, error)
}

type Notifications interface {
	Conn(Conn) NotificationsConnQueryer
	Tx(Tx) NotificationsTxQueryer
}
