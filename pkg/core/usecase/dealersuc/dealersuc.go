// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dealersuc contains the dealers UseCase which supports the
// dealer registration and the administrative review of dealers.
// A dealer starts as pending and may be approved or rejected by an
// administrator. Approved dealers may be suspended and reinstated.
package dealersuc

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/notify"
	"github.com/momeni/car-market/pkg/core/repo"
)

// UseCase represents a dealers use case. Registrations raise admin
// notifications and review decisions are emailed to the dealers.
type UseCase struct {
	pool      repo.Pool
	dealersrp repo.Dealers
	notifsrp  repo.Notifications
	mailer    notify.Mailer
	publisher notify.Publisher
}

// New instantiates a dealers use case. The mailer may be nil in order
// to disable emails.
func New(
	p repo.Pool,
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
		dealersrp: d,
		notifsrp:  n,
		mailer:    mailer,
		publisher: publisher,
	}
}

func validate(d *model.Dealer) error {
	fields := []struct {
		name, value string
		minl, maxl  int
	}{
		{"business_name", d.BusinessName, 2, 128},
		{"email", d.Email, 3, 254},
		{"phone", d.Phone, 0, 32},
		{"city", d.City, 1, 64},
		{"address", d.Address, 0, 256},
	}
	for _, f := range fields {
		n := utf8.RuneCountInString(strings.TrimSpace(f.value))
		if n < f.minl || n > f.maxl {
			return cerr.BadRequest(fmt.Errorf(
				"%s length must be in [%d, %d]", f.name, f.minl, f.maxl,
			))
		}
	}
	if !strings.Contains(d.Email, "@") {
		return cerr.BadRequest(fmt.Errorf("invalid email: %q", d.Email))
	}
	return nil
}

// Register creates a pending dealer for the who principal on the free
// plan. Each user may register one dealer.
func (uc *UseCase) Register(
	ctx context.Context, who *model.Principal, d *model.Dealer,
) (dealer *model.Dealer, err error) {
	if err = cerr.RequireRole(who, model.RoleDealer); err != nil {
		return nil, err
	}
	if err = validate(d); err != nil {
		return nil, err
	}
	dd := *d
	dd.UserID = who.UserID
	dd.Status = model.DealerPending
	dd.Plan = model.PlanFree
	dd.RejectionReason = ""
	var n *model.Notification
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			dealer, err = uc.dealersrp.Tx(tx).Create(ctx, &dd)
			if err != nil {
				return fmt.Errorf("creating dealer: %w", err)
			}
			n, err = uc.notifsrp.Tx(tx).Create(ctx, &model.Notification{
				Kind:  model.NotifyDealerRegistered,
				Title: "New dealer registration",
				Body: fmt.Sprintf(
					"%s (%s) asks for approval", dealer.BusinessName,
					dealer.City,
				),
				Ref: &dealer.ID,
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
	return dealer, nil
}

// Mine returns the dealer of the who principal.
func (uc *UseCase) Mine(
	ctx context.Context, who *model.Principal,
) (d *model.Dealer, err error) {
	if err = cerr.RequireRole(who, model.RoleDealer); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		d, err = uc.dealersrp.Conn(c).GetByUser(ctx, who.UserID)
		return err
	})
	if err != nil {
		d = nil
	}
	return
}

// Get returns the id dealer. Only approved dealers are public, while
// administrators and the dealer owner may see it in any status.
func (uc *UseCase) Get(
	ctx context.Context, who *model.Principal, id uuid.UUID,
) (d *model.Dealer, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		d, err = uc.dealersrp.Conn(c).Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	visible := d.Status == model.DealerApproved ||
		(who != nil && (who.IsAdmin() || who.UserID == d.UserID))
	if !visible {
		return nil, cerr.NotFound(fmt.Errorf("dealer %s not found", id))
	}
	return d, nil
}

// List returns the dealers, optionally filtered by their status.
// It is only available to administrators.
func (uc *UseCase) List(
	ctx context.Context,
	who *model.Principal,
	status *model.DealerStatus,
	p model.Page,
) (ds []model.Dealer, err error) {
	if err = cerr.RequireRole(who, model.RoleAdmin); err != nil {
		return nil, err
	}
	if status != nil {
		if err = status.Validate(); err != nil {
			return nil, cerr.BadRequest(err)
		}
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ds, err = uc.dealersrp.Conn(c).List(ctx, status, p.Normalize())
		return err
	})
	if err != nil {
		ds = nil
	}
	return
}

// Transition moves the id dealer to the `to` status on behalf of an
// administrator. Rejections need a reason. Moves which are not allowed
// from the current status of the dealer are reported as conflicts,
// including the concurrent transitions of the same dealer.
func (uc *UseCase) Transition(
	ctx context.Context,
	who *model.Principal,
	id uuid.UUID,
	to model.DealerStatus,
	reason string,
) (d *model.Dealer, err error) {
	if err = cerr.RequireRole(who, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err = to.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	reason = strings.TrimSpace(reason)
	if to == model.DealerRejected && reason == "" {
		return nil, cerr.BadRequest(fmt.Errorf("rejection needs a reason"))
	}
	if to != model.DealerRejected {
		reason = ""
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.dealersrp.Conn(c)
		cur, err := q.Get(ctx, id)
		if err != nil {
			return err
		}
		if !cur.Status.CanBecome(to) {
			return cerr.Conflict(fmt.Errorf(
				"dealer may not become %s while %s", to, cur.Status,
			))
		}
		d, err = q.UpdateStatus(ctx, id, cur.Status, to, reason)
		if cerr.IsNotFound(err) {
			return cerr.Conflict(fmt.Errorf(
				"dealer status was changed concurrently: %w", err,
			))
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	switch to {
	case model.DealerApproved:
		notify.Mail(ctx, uc.mailer, &model.Mail{
			To:       d.Email,
			Subject:  "Your dealership is approved",
			Template: model.MailDealerApproved,
			Data:     map[string]any{"Dealer": d},
		})
	case model.DealerRejected:
		notify.Mail(ctx, uc.mailer, &model.Mail{
			To:       d.Email,
			Subject:  "Your dealership registration was declined",
			Template: model.MailDealerRejected,
			Data:     map[string]any{"Dealer": d, "Reason": reason},
		})
	}
	return d, nil
}
