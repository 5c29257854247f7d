// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package inquiriesuc contains the test-drive inquiries UseCase.
//
// A customer books a test-drive on an active listing. The inquiry is
// pending until its dealer confirms it, and a confirmed inquiry may be
// completed by the dealer. Both the customer and the dealer may cancel
// a pending or confirmed inquiry. Completed and cancelled inquiries are
// final. New inquiries are emailed to the dealer and raise an admin
// notification, while status changes are emailed to the customer.
package inquiriesuc

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/log"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/notify"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/momeni/car-market/pkg/core/sanitizer"
)

// Inquiry fields limits.
const (
	MaxMessageLength = 1000
	MaxPhoneLength   = 32
)

// Repos groups the repositories which are used by inquiries use case.
type Repos struct {
	Inquiries     repo.Inquiries
	Listings      repo.Listings
	Dealers       repo.Dealers
	Profiles      repo.Profiles
	Notifications repo.Notifications
}

// UseCase represents a test-drive inquiries use case.
type UseCase struct {
	pool      repo.Pool
	repos     Repos
	sanitizer sanitizer.Sanitizer
	mailer    notify.Mailer
	publisher notify.Publisher

	now func() time.Time
}

// New instantiates an inquiries use case. A nil now function is
// replaced by time.Now.
func New(
	p repo.Pool,
	r Repos,
	s sanitizer.Sanitizer,
	mailer notify.Mailer,
	publisher notify.Publisher,
	now func() time.Time,
) *UseCase {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	if now == nil {
		now = time.Now
	}
	return &UseCase{
		pool:      p,
		repos:     r,
		sanitizer: s,
		mailer:    mailer,
		publisher: publisher,
		now:       now,
	}
}

// Book creates a pending test-drive inquiry of the who customer for
// the in.ListingID listing at the in.PreferredAt time.
func (uc *UseCase) Book(
	ctx context.Context, who *model.Principal, in *model.Inquiry,
) (inq *model.Inquiry, err error) {
	if err = cerr.RequireRole(who, model.RoleCustomer); err != nil {
		return nil, err
	}
	msg := strings.TrimSpace(in.Message)
	if uc.sanitizer != nil {
		msg = uc.sanitizer.Sanitize(msg)
	}
	if utf8.RuneCountInString(msg) > MaxMessageLength {
		return nil, cerr.BadRequest(fmt.Errorf(
			"message length must not exceed %d", MaxMessageLength,
		))
	}
	if len(in.Phone) > MaxPhoneLength {
		return nil, cerr.BadRequest(fmt.Errorf(
			"phone length must not exceed %d", MaxPhoneLength,
		))
	}
	if !in.PreferredAt.After(uc.now()) {
		return nil, cerr.BadRequest(fmt.Errorf(
			"preferred time must be in the future",
		))
	}
	var (
		dealer *model.Dealer
		n      *model.Notification
	)
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			l, err := uc.repos.Listings.Tx(tx).Get(ctx, in.ListingID)
			if err != nil {
				return err
			}
			if l.Status != model.ListingActive {
				return cerr.BadRequest(fmt.Errorf("listing is %s", l.Status))
			}
			dealer, err = uc.repos.Dealers.Tx(tx).Get(ctx, l.DealerID)
			if err != nil {
				return fmt.Errorf("finding dealer: %w", err)
			}
			inq, err = uc.repos.Inquiries.Tx(tx).Create(ctx, &model.Inquiry{
				ListingID:   l.ID,
				DealerID:    l.DealerID,
				CustomerID:  who.UserID,
				PreferredAt: in.PreferredAt.UTC(),
				Phone:       strings.TrimSpace(in.Phone),
				Message:     msg,
				Status:      model.InquiryPending,
			})
			if err != nil {
				return fmt.Errorf("creating inquiry: %w", err)
			}
			n, err = uc.repos.Notifications.Tx(tx).Create(
				ctx, &model.Notification{
					Kind:  model.NotifyInquiryCreated,
					Title: "New test-drive inquiry",
					Body: fmt.Sprintf(
						"%d %s %s at %s", l.Year, l.Make, l.Model,
						dealer.BusinessName,
					),
					Ref: &inq.ID,
				},
			)
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
	notify.Mail(ctx, uc.mailer, &model.Mail{
		To:       dealer.Email,
		Subject:  "New test-drive inquiry",
		Template: model.MailInquiryReceived,
		Data: map[string]any{
			"Dealer":  dealer,
			"Inquiry": inq,
		},
	})
	return inq, nil
}

// Get returns the id inquiry if the who principal is its customer,
// the owner of its dealer, or an administrator.
func (uc *UseCase) Get(
	ctx context.Context, who *model.Principal, id uuid.UUID,
) (inq *model.Inquiry, err error) {
	if err = cerr.RequireRole(who); err != nil {
		return nil, err
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		inq, err = uc.repos.Inquiries.Conn(c).Get(ctx, id)
		if err != nil {
			return err
		}
		if who.IsAdmin() || inq.CustomerID == who.UserID {
			return nil
		}
		if _, err = uc.ownDealer(ctx, c, who, inq); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		inq = nil
	}
	return
}

// ownDealer returns the dealer of inq if the who principal owns it.
func (uc *UseCase) ownDealer(
	ctx context.Context,
	c repo.Conn,
	who *model.Principal,
	inq *model.Inquiry,
) (*model.Dealer, error) {
	if who.Role != model.RoleDealer {
		return nil, cerr.NotFound(fmt.Errorf("inquiry %s not found", inq.ID))
	}
	d, err := uc.repos.Dealers.Conn(c).GetByUser(ctx, who.UserID)
	if err != nil || d.ID != inq.DealerID {
		return nil, cerr.NotFound(fmt.Errorf("inquiry %s not found", inq.ID))
	}
	return d, nil
}

// List returns the inquiries of the who customer, or the inquiries
// of the who dealer filtered by their optional status.
func (uc *UseCase) List(
	ctx context.Context,
	who *model.Principal,
	status *model.InquiryStatus,
	p model.Page,
) (is []model.Inquiry, err error) {
	if err = cerr.RequireRole(
		who, model.RoleCustomer, model.RoleDealer,
	); err != nil {
		return nil, err
	}
	if status != nil {
		if err = status.Validate(); err != nil {
			return nil, cerr.BadRequest(err)
		}
	}
	p = p.Normalize()
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.repos.Inquiries.Conn(c)
		if who.Role == model.RoleCustomer {
			is, err = q.ListByCustomer(ctx, who.UserID, p)
			return err
		}
		d, err := uc.repos.Dealers.Conn(c).GetByUser(ctx, who.UserID)
		if err != nil {
			return fmt.Errorf("finding dealer: %w", err)
		}
		is, err = q.ListByDealer(ctx, d.ID, status, p)
		return err
	})
	if err != nil {
		is = nil
	}
	return
}

// Transition moves the id inquiry to the `to` status. Only the dealer
// may confirm or complete an inquiry, while both of the customer and
// the dealer may cancel it.
func (uc *UseCase) Transition(
	ctx context.Context,
	who *model.Principal,
	id uuid.UUID,
	to model.InquiryStatus,
) (inq *model.Inquiry, err error) {
	if err = cerr.RequireRole(
		who, model.RoleCustomer, model.RoleDealer,
	); err != nil {
		return nil, err
	}
	if err = to.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := uc.repos.Inquiries.Conn(c)
		cur, err := q.Get(ctx, id)
		if err != nil {
			return err
		}
		if cur.CustomerID == who.UserID {
			if to != model.InquiryCancelled {
				return cerr.Authorization(fmt.Errorf(
					"customers may only cancel their inquiries",
				))
			}
		} else if _, err = uc.ownDealer(ctx, c, who, cur); err != nil {
			return err
		}
		if !cur.Status.CanBecome(to) {
			return cerr.Conflict(fmt.Errorf(
				"inquiry may not become %s while %s", to, cur.Status,
			))
		}
		inq, err = q.UpdateStatus(ctx, id, cur.Status, to)
		if cerr.IsNotFound(err) {
			return cerr.Conflict(fmt.Errorf(
				"inquiry status was changed concurrently: %w", err,
			))
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.mailCustomer(ctx, inq)
	return inq, nil
}

// mailCustomer emails the new status of inq to its customer.
// Failures are logged because the transition is already committed.
func (uc *UseCase) mailCustomer(ctx context.Context, inq *model.Inquiry) {
	if uc.mailer == nil {
		return
	}
	var customer *model.Profile
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var err error
		customer, err = uc.repos.Profiles.Conn(c).Get(ctx, inq.CustomerID)
		return err
	})
	if err != nil {
		log.Warn(
			ctx, "failed to find inquiry customer",
			log.ID("inquiry", inq.ID),
			log.Err("err", err),
		)
		return
	}
	if customer.Email == "" {
		return
	}
	notify.Mail(ctx, uc.mailer, &model.Mail{
		To:       customer.Email,
		Subject:  fmt.Sprintf("Your test-drive inquiry is %s", inq.Status),
		Template: model.MailInquiryStatus,
		Data: map[string]any{
			"Customer": customer,
			"Inquiry":  inq,
		},
	})
}
