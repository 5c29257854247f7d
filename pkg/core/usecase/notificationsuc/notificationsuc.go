// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package notificationsuc contains the admin notifications UseCase.
// Notifications are appended by other use cases. Administrators list
// them and mark them as read, while read notifications are pruned
// after a retention period.
package notificationsuc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

// UseCase represents an admin notifications use case.
type UseCase struct {
	pool     repo.Pool
	notifsrp repo.Notifications
	now      func() time.Time
}

// New instantiates an admin notifications use case. A nil now function
// is replaced by time.Now.
func New(p repo.Pool, n repo.Notifications, now func() time.Time) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{pool: p, notifsrp: n, now: now}
}

// List returns the notifications, newest first.
func (uc *UseCase) List(
	ctx context.Context, who *model.Principal, unreadOnly bool, p model.Page,
) (ns []model.Notification, err error) {
	if err = cerr.RequireRole(who, model.RoleAdmin); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ns, err = uc.notifsrp.Conn(c).List(ctx, unreadOnly, p.Normalize())
		return err
	})
	if err != nil {
		ns = nil
	}
	return
}

// MarkRead marks the id notification as read.
func (uc *UseCase) MarkRead(
	ctx context.Context, who *model.Principal, id uuid.UUID,
) (n *model.Notification, err error) {
	if err = cerr.RequireRole(who, model.RoleAdmin); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		n, err = uc.notifsrp.Conn(c).MarkRead(ctx, id)
		return err
	})
	if err != nil {
		n = nil
	}
	return
}

// Prune deletes the read notifications which are older than the
// retention period and returns their count.
func (uc *UseCase) Prune(
	ctx context.Context, retention time.Duration,
) (n int64, err error) {
	if retention <= 0 {
		return 0, fmt.Errorf("retention (%v) is not positive", retention)
	}
	before := uc.now().Add(-retention)
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		n, err = uc.notifsrp.Conn(c).Prune(ctx, before)
		return err
	})
	return
}
