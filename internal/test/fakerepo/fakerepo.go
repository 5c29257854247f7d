// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fakerepo provides in-memory repositories for the use cases
// unit tests. They are used together with the fakedb package, ignore
// the passed connections and transactions, and report missing rows
// with the same cerr.NotFound errors as the postgres repositories.
// Rows are not rolled back when a fake transaction fails.
package fakerepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
)

func notFound(kind string, id uuid.UUID) error {
	return cerr.NotFound(fmt.Errorf("%s %s not found", kind, id))
}

func window[T any](items []T, p model.Page) []T {
	p = p.Normalize()
	if p.Offset >= len(items) {
		return nil
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}

// Dealers is an in-memory dealers repository.
type Dealers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Dealer
}

// NewDealers creates an empty dealers repository.
func NewDealers() *Dealers {
	return &Dealers{rows: make(map[uuid.UUID]model.Dealer)}
}

func (r *Dealers) Conn(repo.Conn) repo.DealersConnQueryer { return r }

func (r *Dealers) Tx(repo.Tx) repo.DealersTxQueryer { return r }

// Put stores d as is and returns it, so tests can seed dealers in any
// status.
func (r *Dealers) Put(d model.Dealer) *model.Dealer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.rows[d.ID] = d
	return &d
}

func (r *Dealers) Create(
	_ context.Context, d *model.Dealer,
) (*model.Dealer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dd := range r.rows {
		if dd.UserID == d.UserID {
			return nil, cerr.Conflict(errors.New("dealer already exists"))
		}
	}
	dd := *d
	dd.ID = uuid.New()
	dd.CreatedAt = time.Now()
	dd.UpdatedAt = dd.CreatedAt
	r.rows[dd.ID] = dd
	return &dd, nil
}

func (r *Dealers) Get(_ context.Context, id uuid.UUID) (*model.Dealer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[id]
	if !ok {
		return nil, notFound("dealer", id)
	}
	return &d, nil
}

func (r *Dealers) GetByUser(
	_ context.Context, userID uuid.UUID,
) (*model.Dealer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.rows {
		if d.UserID == userID {
			return &d, nil
		}
	}
	return nil, notFound("dealer of user", userID)
}

func (r *Dealers) LockByUser(
	ctx context.Context, userID uuid.UUID,
) (*model.Dealer, error) {
	return r.GetByUser(ctx, userID)
}

func (r *Dealers) List(
	_ context.Context, status *model.DealerStatus, p model.Page,
) ([]model.Dealer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ds []model.Dealer
	for _, d := range r.rows {
		if status == nil || d.Status == *status {
			ds = append(ds, d)
		}
	}
	sort.Slice(ds, func(i, j int) bool {
		return ds[i].CreatedAt.After(ds[j].CreatedAt)
	})
	return window(ds, p), nil
}

func (r *Dealers) UpdateStatus(
	_ context.Context,
	id uuid.UUID,
	from, to model.DealerStatus,
	reason string,
) (*model.Dealer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[id]
	if !ok || d.Status != from {
		return nil, notFound("dealer", id)
	}
	d.Status = to
	d.RejectionReason = reason
	d.UpdatedAt = time.Now()
	r.rows[id] = d
	return &d, nil
}

func (r *Dealers) UpdatePlan(
	_ context.Context, id uuid.UUID, plan model.Plan,
) (*model.Dealer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[id]
	if !ok {
		return nil, notFound("dealer", id)
	}
	d.Plan = plan
	r.rows[id] = d
	return &d, nil
}

// Listings is an in-memory listings repository. Its Search supports
// the make, city, and status filters and sorts by price ascending.
type Listings struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Listing
}

// NewListings creates an empty listings repository.
func NewListings() *Listings {
	return &Listings{rows: make(map[uuid.UUID]model.Listing)}
}

func (r *Listings) Conn(repo.Conn) repo.ListingsConnQueryer { return r }

func (r *Listings) Tx(repo.Tx) repo.ListingsTxQueryer { return r }

func (r *Listings) Create(
	_ context.Context, l *model.Listing,
) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ll := *l
	ll.ID = uuid.New()
	ll.CreatedAt = time.Now()
	ll.UpdatedAt = ll.CreatedAt
	r.rows[ll.ID] = ll
	return &ll, nil
}

func (r *Listings) Get(
	_ context.Context, id uuid.UUID,
) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.rows[id]
	if !ok {
		return nil, notFound("listing", id)
	}
	return &l, nil
}

func (r *Listings) GetMany(
	_ context.Context, ids []uuid.UUID,
) ([]model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ls := make([]model.Listing, 0, len(ids))
	for _, id := range ids {
		l, ok := r.rows[id]
		if !ok || l.Status != model.ListingActive {
			return nil, notFound("listing", id)
		}
		ls = append(ls, l)
	}
	return ls, nil
}

func (r *Listings) View(
	_ context.Context, id uuid.UUID,
) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.rows[id]
	if !ok || l.Status != model.ListingActive {
		return nil, notFound("listing", id)
	}
	l.Views++
	r.rows[id] = l
	return &l, nil
}

func (r *Listings) Update(
	_ context.Context, id, dealerID uuid.UUID, p *model.ListingPatch,
) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.rows[id]
	if !ok || l.DealerID != dealerID {
		return nil, notFound("listing", id)
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Mileage != nil {
		l.Mileage = *p.Mileage
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.City != nil {
		l.City = *p.City
	}
	if p.Images != nil {
		l.Images = p.Images
	}
	if p.Variant != nil {
		l.Variant = *p.Variant
	}
	if p.Color != nil {
		l.Color = *p.Color
	}
	if p.Featured != nil {
		l.Featured = *p.Featured
	}
	if p.Transmission != nil {
		l.Transmission = *p.Transmission
	}
	l.UpdatedAt = time.Now()
	r.rows[id] = l
	return &l, nil
}

func (r *Listings) Delete(_ context.Context, id, dealerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.rows[id]
	if !ok || l.DealerID != dealerID {
		return notFound("listing", id)
	}
	delete(r.rows, id)
	return nil
}

func (r *Listings) Search(
	_ context.Context, f *model.ListingFilter, p model.Page,
) (*model.ListingPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ls []model.Listing
	for _, l := range r.rows {
		switch {
		case f.Status != "" && l.Status != f.Status:
		case f.DealerID != nil && l.DealerID != *f.DealerID:
		case f.Make != "" && !strings.EqualFold(l.Make, f.Make):
		case f.City != "" && !strings.EqualFold(l.City, f.City):
		default:
			ls = append(ls, l)
		}
	}
	sort.Slice(ls, func(i, j int) bool { return ls[i].Price < ls[j].Price })
	return &model.ListingPage{
		Items: window(ls, p),
		Total: int64(len(ls)),
	}, nil
}

func (r *Listings) CountActive(
	_ context.Context, dealerID uuid.UUID,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.rows {
		if l.DealerID == dealerID && l.Status == model.ListingActive {
			n++
		}
	}
	return n, nil
}

func (r *Listings) Makes(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var makes []string
	for _, l := range r.rows {
		if l.Status == model.ListingActive && !seen[l.Make] {
			seen[l.Make] = true
			makes = append(makes, l.Make)
		}
	}
	sort.Strings(makes)
	return makes, nil
}

// Notifications is an in-memory notifications repository.
type Notifications struct {
	mu   sync.Mutex
	rows []model.Notification
}

func (r *Notifications) Conn(repo.Conn) repo.NotificationsConnQueryer {
	return r
}

func (r *Notifications) Tx(repo.Tx) repo.NotificationsTxQueryer {
	return r
}

// All returns a copy of the stored notifications in their creation
// order.
func (r *Notifications) All() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.rows...)
}

func (r *Notifications) Create(
	_ context.Context, n *model.Notification,
) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	nn := *n
	nn.ID = uuid.New()
	nn.CreatedAt = time.Now()
	r.rows = append(r.rows, nn)
	return &nn, nil
}

func (r *Notifications) List(
	_ context.Context, unreadOnly bool, p model.Page,
) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ns []model.Notification
	for i := len(r.rows) - 1; i >= 0; i-- {
		if !unreadOnly || !r.rows[i].Read {
			ns = append(ns, r.rows[i])
		}
	}
	return window(ns, p), nil
}

func (r *Notifications) MarkRead(
	_ context.Context, id uuid.UUID,
) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Read = true
			n := r.rows[i]
			return &n, nil
		}
	}
	return nil, notFound("notification", id)
}

func (r *Notifications) Prune(
	_ context.Context, before time.Time,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	var n int64
	for _, nn := range r.rows {
		if nn.Read && nn.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, nn)
	}
	r.rows = kept
	return n, nil
}

// Inquiries is an in-memory test-drive inquiries repository.
type Inquiries struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Inquiry
}

// NewInquiries creates an empty inquiries repository.
func NewInquiries() *Inquiries {
	return &Inquiries{rows: make(map[uuid.UUID]model.Inquiry)}
}

func (r *Inquiries) Conn(repo.Conn) repo.InquiriesConnQueryer { return r }

func (r *Inquiries) Tx(repo.Tx) repo.InquiriesTxQueryer { return r }

func (r *Inquiries) Create(
	_ context.Context, i *model.Inquiry,
) (*model.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ii := *i
	ii.ID = uuid.New()
	ii.CreatedAt = time.Now()
	ii.UpdatedAt = ii.CreatedAt
	r.rows[ii.ID] = ii
	return &ii, nil
}

func (r *Inquiries) Get(
	_ context.Context, id uuid.UUID,
) (*model.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.rows[id]
	if !ok {
		return nil, notFound("inquiry", id)
	}
	return &i, nil
}

func (r *Inquiries) list(keep func(i *model.Inquiry) bool) []model.Inquiry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var is []model.Inquiry
	for _, i := range r.rows {
		if keep(&i) {
			is = append(is, i)
		}
	}
	sort.Slice(is, func(a, b int) bool {
		return is[a].PreferredAt.Before(is[b].PreferredAt)
	})
	return is
}

func (r *Inquiries) ListByCustomer(
	_ context.Context, customerID uuid.UUID, p model.Page,
) ([]model.Inquiry, error) {
	return window(r.list(func(i *model.Inquiry) bool {
		return i.CustomerID == customerID
	}), p), nil
}

func (r *Inquiries) ListByDealer(
	_ context.Context,
	dealerID uuid.UUID,
	status *model.InquiryStatus,
	p model.Page,
) ([]model.Inquiry, error) {
	return window(r.list(func(i *model.Inquiry) bool {
		return i.DealerID == dealerID &&
			(status == nil || i.Status == *status)
	}), p), nil
}

func (r *Inquiries) UpdateStatus(
	_ context.Context, id uuid.UUID, from, to model.InquiryStatus,
) (*model.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.rows[id]
	if !ok || i.Status != from {
		return nil, notFound("inquiry", id)
	}
	i.Status = to
	i.UpdatedAt = time.Now()
	r.rows[id] = i
	return &i, nil
}

// Chat is an in-memory conversations and messages repository.
type Chat struct {
	mu    sync.Mutex
	convs map[uuid.UUID]model.Conversation
	msgs  []model.Message
}

// NewChat creates an empty chat repository.
func NewChat() *Chat {
	return &Chat{convs: make(map[uuid.UUID]model.Conversation)}
}

func (r *Chat) Conn(repo.Conn) repo.ChatConnQueryer { return r }

func (r *Chat) Tx(repo.Tx) repo.ChatTxQueryer { return r }

func (r *Chat) Open(
	_ context.Context, c *model.Conversation,
) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cc := range r.convs {
		if cc.ListingID == c.ListingID && cc.CustomerID == c.CustomerID {
			return &cc, nil
		}
	}
	cc := *c
	cc.ID = uuid.New()
	cc.CreatedAt = time.Now()
	cc.LastMessageAt = cc.CreatedAt
	r.convs[cc.ID] = cc
	return &cc, nil
}

func (r *Chat) Get(
	_ context.Context, id uuid.UUID,
) (*model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return nil, notFound("conversation", id)
	}
	return &c, nil
}

func (r *Chat) ListConversations(
	_ context.Context, userID uuid.UUID, p model.Page,
) ([]model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cs []model.Conversation
	for _, c := range r.convs {
		if c.HasParticipant(userID) {
			cs = append(cs, c)
		}
	}
	sort.Slice(cs, func(i, j int) bool {
		return cs[i].LastMessageAt.After(cs[j].LastMessageAt)
	})
	return window(cs, p), nil
}

func (r *Chat) ListMessages(
	_ context.Context, conversationID uuid.UUID, p model.Page,
) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ms []model.Message
	for _, m := range r.msgs {
		if m.ConversationID == conversationID {
			ms = append(ms, m)
		}
	}
	return window(ms, p), nil
}

func (r *Chat) MarkRead(
	_ context.Context, conversationID, readerID uuid.UUID,
) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var n int64
	for i := range r.msgs {
		m := &r.msgs[i]
		if m.ConversationID == conversationID &&
			m.SenderID != readerID && m.ReadAt == nil {
			m.ReadAt = &now
			n++
		}
	}
	return n, nil
}

func (r *Chat) AddMessage(
	_ context.Context, m *model.Message,
) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[m.ConversationID]
	if !ok {
		return nil, notFound("conversation", m.ConversationID)
	}
	mm := *m
	mm.ID = uuid.New()
	mm.CreatedAt = time.Now()
	r.msgs = append(r.msgs, mm)
	c.LastMessageAt = mm.CreatedAt
	r.convs[c.ID] = c
	return &mm, nil
}

// Profiles is an in-memory profiles repository.
type Profiles struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Profile
}

// NewProfiles creates an empty profiles repository.
func NewProfiles() *Profiles {
	return &Profiles{rows: make(map[uuid.UUID]model.Profile)}
}

func (r *Profiles) Conn(repo.Conn) repo.ProfilesConnQueryer { return r }

func (r *Profiles) Tx(repo.Tx) repo.ProfilesTxQueryer { return r }

func (r *Profiles) Get(
	_ context.Context, id uuid.UUID,
) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, notFound("profile", id)
	}
	return &p, nil
}

func (r *Profiles) Upsert(
	_ context.Context, p *model.Profile,
) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pp := *p
	now := time.Now()
	if old, ok := r.rows[p.ID]; ok {
		pp.CreatedAt = old.CreatedAt
	} else {
		pp.CreatedAt = now
	}
	pp.UpdatedAt = now
	r.rows[pp.ID] = pp
	return &pp, nil
}

// Mailer records the sent emails. Err is returned by Send if set.
type Mailer struct {
	mu    sync.Mutex
	Err   error
	mails []model.Mail
}

func (m *Mailer) Send(_ context.Context, mail *model.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.mails = append(m.mails, *mail)
	return nil
}

// Sent returns a copy of the sent emails.
func (m *Mailer) Sent() []model.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Mail(nil), m.mails...)
}

// Publisher records the published notifications.
type Publisher struct {
	mu     sync.Mutex
	notifs []model.Notification
}

func (p *Publisher) Publish(n *model.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifs = append(p.notifs, *n)
}

// Published returns a copy of the published notifications.
func (p *Publisher) Published() []model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Notification(nil), p.notifs...)
}
