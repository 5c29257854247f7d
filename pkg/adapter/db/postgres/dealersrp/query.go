// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package dealersrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gDealer struct {
	ID              uuid.UUID `gorm:"primaryKey;type:uuid"`
	UserID          uuid.UUID `gorm:"type:uuid"`
	BusinessName    string
	Email           string
	Phone           string
	City            string
	Address         string
	Status          string
	Plan            string
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (gd *gDealer) TableName() string {
	return "dealers"
}

func (gd *gDealer) Model() *model.Dealer {
	return &model.Dealer{
		ID:              gd.ID,
		UserID:          gd.UserID,
		BusinessName:    gd.BusinessName,
		Email:           gd.Email,
		Phone:           gd.Phone,
		City:            gd.City,
		Address:         gd.Address,
		Status:          model.DealerStatus(gd.Status),
		Plan:            model.Plan(gd.Plan),
		RejectionReason: gd.RejectionReason,
		CreatedAt:       gd.CreatedAt,
		UpdatedAt:       gd.UpdatedAt,
	}
}

func Create[Q postgres.Queryer](
	ctx context.Context, q Q, d *model.Dealer,
) (*model.Dealer, error) {
	gd := &gDealer{
		ID:              uuid.New(),
		UserID:          d.UserID,
		BusinessName:    d.BusinessName,
		Email:           d.Email,
		Phone:           d.Phone,
		City:            d.City,
		Address:         d.Address,
		Status:          string(d.Status),
		Plan:            string(d.Plan),
		RejectionReason: d.RejectionReason,
	}
	if err := q.GORM(ctx).Create(gd).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gd.Model(), nil
}

func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.Dealer, error) {
	var gd gDealer
	if err := q.GORM(ctx).Where("id=?", id).Take(&gd).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gd.Model(), nil
}

func GetByUser[Q postgres.Queryer](
	ctx context.Context, q Q, userID uuid.UUID,
) (*model.Dealer, error) {
	var gd gDealer
	err := q.GORM(ctx).Where("user_id=?", userID).Take(&gd).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	return gd.Model(), nil
}

// LockByUser finds the dealer of the userID profile and locks its
// row until the end of the tx transaction, so the listings quota
// checks of that dealer are serialized.
func LockByUser(
	ctx context.Context, tx *postgres.Tx, userID uuid.UUID,
) (*model.Dealer, error) {
	var gd gDealer
	err := tx.ForUpdate(ctx).Where("user_id=?", userID).Take(&gd).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	return gd.Model(), nil
}

func List[Q postgres.Queryer](
	ctx context.Context, q Q, status *model.DealerStatus, p model.Page,
) ([]model.Dealer, error) {
	gdb := q.GORM(ctx)
	if status != nil {
		gdb = gdb.Where("status=?", string(*status))
	}
	var gds []gDealer
	gdb = postgres.Paginate(gdb.Order("created_at DESC, id"), p)
	if err := gdb.Find(&gds).Error; err != nil {
		return nil, postgres.Error(err)
	}
	ds := make([]model.Dealer, len(gds))
	for i := range gds {
		ds[i] = *gds[i].Model()
	}
	return ds, nil
}

// UpdateStatus moves the id dealer from the `from` status to the `to`
// status, recording the reason. It fails with a not found error if
// the dealer is missing or its status is not `from` anymore.
func UpdateStatus[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	id uuid.UUID,
	from, to model.DealerStatus,
	reason string,
) (*model.Dealer, error) {
	var gds []gDealer
	tx := q.GORM(ctx).Model(&gds).Clauses(clause.Returning{}).Where(
		"id=? AND status=?", id, string(from),
	).Updates(map[string]any{
		"status":           string(to),
		"rejection_reason": reason,
		"updated_at":       time.Now(),
	})
	if err := tx.Error; err != nil {
		return nil, postgres.Error(err)
	}
	if err := postgres.ExpectOne(len(gds)); err != nil {
		return nil, err
	}
	return gds[0].Model(), nil
}

func UpdatePlan(
	ctx context.Context, tx *postgres.Tx, id uuid.UUID, plan model.Plan,
) (*model.Dealer, error) {
	var gds []gDealer
	gdb := tx.GORM(ctx).Model(&gds).Clauses(clause.Returning{}).Where(
		"id=?", id,
	).Updates(map[string]any{
		"plan":       string(plan),
		"updated_at": time.Now(),
	})
	if err := gdb.Error; err != nil {
		return nil, postgres.Error(err)
	}
	if err := postgres.ExpectOne(len(gds)); err != nil {
		return nil, err
	}
	return gds[0].Model(), nil
}
