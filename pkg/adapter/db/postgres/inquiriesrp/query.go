// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package inquiriesrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gInquiry struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	ListingID   uuid.UUID `gorm:"type:uuid"`
	DealerID    uuid.UUID `gorm:"type:uuid"`
	CustomerID  uuid.UUID `gorm:"type:uuid"`
	PreferredAt time.Time
	Phone       string
	Message     string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (gi *gInquiry) TableName() string {
	return "test_drive_inquiries"
}

func (gi *gInquiry) Model() *model.Inquiry {
	return &model.Inquiry{
		ID:          gi.ID,
		ListingID:   gi.ListingID,
		DealerID:    gi.DealerID,
		CustomerID:  gi.CustomerID,
		PreferredAt: gi.PreferredAt,
		Phone:       gi.Phone,
		Message:     gi.Message,
		Status:      model.InquiryStatus(gi.Status),
		CreatedAt:   gi.CreatedAt,
		UpdatedAt:   gi.UpdatedAt,
	}
}

func models(gis []gInquiry) []model.Inquiry {
	is := make([]model.Inquiry, len(gis))
	for i := range gis {
		is[i] = *gis[i].Model()
	}
	return is
}

func Create[Q postgres.Queryer](
	ctx context.Context, q Q, i *model.Inquiry,
) (*model.Inquiry, error) {
	gi := &gInquiry{
		ID:          uuid.New(),
		ListingID:   i.ListingID,
		DealerID:    i.DealerID,
		CustomerID:  i.CustomerID,
		PreferredAt: i.PreferredAt,
		Phone:       i.Phone,
		Message:     i.Message,
		Status:      string(i.Status),
	}
	if err := q.GORM(ctx).Create(gi).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gi.Model(), nil
}

func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.Inquiry, error) {
	var gi gInquiry
	if err := q.GORM(ctx).Where("id=?", id).Take(&gi).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gi.Model(), nil
}

func ListByCustomer[Q postgres.Queryer](
	ctx context.Context, q Q, customerID uuid.UUID, p model.Page,
) ([]model.Inquiry, error) {
	var gis []gInquiry
	gdb := q.GORM(ctx).Where("customer_id=?", customerID)
	gdb = postgres.Paginate(gdb.Order("created_at DESC, id"), p)
	if err := gdb.Find(&gis).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return models(gis), nil
}

func ListByDealer[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	dealerID uuid.UUID,
	status *model.InquiryStatus,
	p model.Page,
) ([]model.Inquiry, error) {
	var gis []gInquiry
	gdb := q.GORM(ctx).Where("dealer_id=?", dealerID)
	if status != nil {
		gdb = gdb.Where("status=?", string(*status))
	}
	gdb = postgres.Paginate(gdb.Order("created_at DESC, id"), p)
	if err := gdb.Find(&gis).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return models(gis), nil
}

func UpdateStatus[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID, from, to model.InquiryStatus,
) (*model.Inquiry, error) {
	var gis []gInquiry
	tx := q.GORM(ctx).Model(&gis).Clauses(clause.Returning{}).Where(
		"id=? AND status=?", id, string(from),
	).Updates(map[string]any{
		"status":     string(to),
		"updated_at": time.Now(),
	})
	if err := tx.Error; err != nil {
		return nil, postgres.Error(err)
	}
	if err := postgres.ExpectOne(len(gis)); err != nil {
		return nil, err
	}
	return gis[0].Model(), nil
}
