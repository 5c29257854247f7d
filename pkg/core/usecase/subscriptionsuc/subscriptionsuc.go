// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package subscriptionsuc contains the dealer subscriptions UseCase.
// Approved dealers request plan changes and administrators approve or
// reject them. An approval changes the dealer plan in the same
// transaction which decides the request.
package subscriptionsuc

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/notify"
	"github.com/momeni/car-market/pkg/core/repo"
)

// MaxNoteLength is the maximum length of request and decision notes.
const MaxNoteLength = 500

// UseCase represents a subscriptions use case.
type UseCase struct {
	pool      repo.Pool
	subsrp    repo.Subscriptions
	dealersrp repo.Dealers
	notifsrp  repo.Notifications
	mailer    notify.Mailer
	publisher notify.Publisher
}

// New instantiates a subscriptions use case.
func New(
	p repo.Pool,
	s repo.Subscriptions,
	d repo.Dealers,
	n repo.Notifications,
	mailer notify.Mailer,
	publisher notify.Publisher,
) *UseCase {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &UseCase{
		pool:      p,
		subsrp:    s,
		dealersrp: d,
		notifsrp:  n,
		mailer:    mailer,
		publisher: publisher,
	}
}

func checkNote(note string) (string, error) {
	note = strings.TrimSpace(note)
	if len(note) > MaxNoteLength {
		return "", cerr.BadRequest(fmt.Errorf(
			"note length must not exceed %d", MaxNoteLength,
		))
	}
	return note, nil
}

// Request asks to move the who dealer to the given plan. A dealer may
// have at most one pending request.
func (uc *UseCase) Request(
	ctx context.Context, who *model.Principal, plan model.Plan, note string,
) (r *model.SubscriptionRequest, err error) {
	if err = cerr.RequireRole(who, model.RoleDealer); err != nil {
		return nil, err
	}
	if err = plan.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	if note, err = checkNote(note); err != nil {
		return nil, err
	}
	var n *model.Notification
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			d, err := uc.dealersrp.Tx(tx).LockByUser(ctx, who.UserID)
			if err != nil {
				return fmt.Errorf("finding dealer: %w", err)
			}
			if d.Status != model.DealerApproved {
				return cerr.Authorization(fmt.Errorf(
					"dealer is %s, not approved", d.Status,
				))
			}
			if d.Plan == plan {
				return cerr.BadRequest(fmt.Errorf(
					"dealer is already on the %s plan", plan,
				))
			}
			r, err = uc.subsrp.Tx(tx).Create(ctx, &model.SubscriptionRequest{
				DealerID:      d.ID,
				CurrentPlan:   d.Plan,
				RequestedPlan: plan,
				Status:        model.RequestPending,
				Note:          note,
			})
			if err != nil {
				return fmt.Errorf("creating request: %w", err)
			}
			n, err = uc.notifsrp.Tx(tx).Create(ctx, &model.Notification{
				Kind:  model.NotifySubscriptionRequest,
				Title: "Subscription change request",
				Body: fmt.Sprintf(
					"%s asks to move from %s to %s", d.BusinessName,
					d.Plan, plan,
				),
				Ref: &r.ID,
			})
			if err != nil {
				return fmt.Errorf("creating notification: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.publisher.Publish(n)
	return r, nil
}

// List returns the subscription requests. Administrators see all
// requests, optionally filtered by status, while dealers only see
// their own requests.
func (uc *UseCase) List(
	ctx context.Context,
	who *model.Principal,
	status *model.RequestStatus,
	p model.Page,
) (rs []model.SubscriptionRequest, err error) {
	if err = cerr.RequireRole(
		who, model.RoleDealer, model.RoleAdmin,
	); err != nil {
		return nil, err
	}
	p = p.Normalize()
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var dealerID *uuid.UUID
		if !who.IsAdmin() {
			d, err := uc.dealersrp.Conn(c).GetByUser(ctx, who.UserID)
			if err != nil {
				return fmt.Errorf("finding dealer: %w", err)
			}
			dealerID = &d.ID
		}
		rs, err = uc.subsrp.Conn(c).List(ctx, dealerID, status, p)
		return err
	})
	if err != nil {
		rs = nil
	}
	return
}

// Decide approves or rejects the id pending request on behalf of an
// administrator. Approval changes the dealer plan atomically.
func (uc *UseCase) Decide(
	ctx context.Context,
	who *model.Principal,
	id uuid.UUID,
	approve bool,
	note string,
) (r *model.SubscriptionRequest, err error) {
	if err = cerr.RequireRole(who, model.RoleAdmin); err != nil {
		return nil, err
	}
	if note, err = checkNote(note); err != nil {
		return nil, err
	}
	status := model.RequestRejected
	if approve {
		status = model.RequestApproved
	}
	var d *model.Dealer
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.subsrp.Tx(tx)
			cur, err := q.Get(ctx, id)
			if err != nil {
				return err
			}
			if cur.Status != model.RequestPending {
				return cerr.Conflict(fmt.Errorf(
					"request is already %s", cur.Status,
				))
			}
			r, err = q.Decide(ctx, id, status, note)
			if cerr.IsNotFound(err) {
				return cerr.Conflict(fmt.Errorf(
					"request was decided concurrently: %w", err,
				))
			} else if err != nil {
				return err
			}
			dq := uc.dealersrp.Tx(tx)
			if approve {
				d, err = dq.UpdatePlan(ctx, r.DealerID, r.RequestedPlan)
			} else {
				d, err = dq.Get(ctx, r.DealerID)
			}
			if err != nil {
				return fmt.Errorf("dealer of the request: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	notify.Mail(ctx, uc.mailer, &model.Mail{
		To:       d.Email,
		Subject:  fmt.Sprintf("Your subscription request is %s", status),
		Template: model.MailSubscriptionDecision,
		Data: map[string]any{
			"Dealer":  d,
			"Request": r,
		},
	})
	return r, nil
}
