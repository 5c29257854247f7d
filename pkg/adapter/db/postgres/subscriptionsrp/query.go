// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package subscriptionsrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gRequest struct {
	ID            uuid.UUID `gorm:"primaryKey;type:uuid"`
	DealerID      uuid.UUID `gorm:"type:uuid"`
	CurrentPlan   string
	RequestedPlan string
	Status        string
	Note          string
	CreatedAt     time.Time
	DecidedAt     *time.Time
}

func (gr *gRequest) TableName() string {
	return "subscription_requests"
}

func (gr *gRequest) Model() *model.SubscriptionRequest {
	return &model.SubscriptionRequest{
		ID:            gr.ID,
		DealerID:      gr.DealerID,
		CurrentPlan:   model.Plan(gr.CurrentPlan),
		RequestedPlan: model.Plan(gr.RequestedPlan),
		Status:        model.RequestStatus(gr.Status),
		Note:          gr.Note,
		CreatedAt:     gr.CreatedAt,
		DecidedAt:     gr.DecidedAt,
	}
}

func Create[Q postgres.Queryer](
	ctx context.Context, q Q, r *model.SubscriptionRequest,
) (*model.SubscriptionRequest, error) {
	gr := &gRequest{
		ID:            uuid.New(),
		DealerID:      r.DealerID,
		CurrentPlan:   string(r.CurrentPlan),
		RequestedPlan: string(r.RequestedPlan),
		Status:        string(model.RequestPending),
		Note:          r.Note,
	}
	if err := q.GORM(ctx).Create(gr).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gr.Model(), nil
}

func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.SubscriptionRequest, error) {
	var gr gRequest
	if err := q.GORM(ctx).Where("id=?", id).Take(&gr).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gr.Model(), nil
}

func List[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	dealerID *uuid.UUID,
	status *model.RequestStatus,
	p model.Page,
) ([]model.SubscriptionRequest, error) {
	gdb := q.GORM(ctx)
	if dealerID != nil {
		gdb = gdb.Where("dealer_id=?", *dealerID)
	}
	if status != nil {
		gdb = gdb.Where("status=?", string(*status))
	}
	var grs []gRequest
	gdb = postgres.Paginate(gdb.Order("created_at DESC, id"), p)
	if err := gdb.Find(&grs).Error; err != nil {
		return nil, postgres.Error(err)
	}
	rs := make([]model.SubscriptionRequest, len(grs))
	for i := range grs {
		rs[i] = *grs[i].Model()
	}
	return rs, nil
}

func Decide(
	ctx context.Context,
	tx *postgres.Tx,
	id uuid.UUID,
	status model.RequestStatus,
	note string,
) (*model.SubscriptionRequest, error) {
	var grs []gRequest
	gdb := tx.GORM(ctx).Model(&grs).Clauses(clause.Returning{}).Where(
		"id=? AND status=?", id, string(model.RequestPending),
	).Updates(map[string]any{
		"status":     string(status),
		"note":       note,
		"decided_at": time.Now(),
	})
	if err := gdb.Error; err != nil {
		return nil, postgres.Error(err)
	}
	if err := postgres.ExpectOne(len(grs)); err != nil {
		return nil, err
	}
	return grs[0].Model(), nil
}
