// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package alertsrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/listingsrp"
	"github.com/momeni/car-market/pkg/core/model"
)

type gAlert struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	CustomerID  uuid.UUID `gorm:"type:uuid"`
	ListingID   uuid.UUID `gorm:"type:uuid"`
	TargetPrice float64
	Active      bool
	TriggeredAt *time.Time
	CreatedAt   time.Time
}

func (ga *gAlert) TableName() string {
	return "price_alerts"
}

func (ga *gAlert) Model() *model.PriceAlert {
	return &model.PriceAlert{
		ID:          ga.ID,
		CustomerID:  ga.CustomerID,
		ListingID:   ga.ListingID,
		TargetPrice: ga.TargetPrice,
		Active:      ga.Active,
		TriggeredAt: ga.TriggeredAt,
		CreatedAt:   ga.CreatedAt,
	}
}

func Create[Q postgres.Queryer](
	ctx context.Context, q Q, a *model.PriceAlert,
) (*model.PriceAlert, error) {
	ga := &gAlert{
		ID:          uuid.New(),
		CustomerID:  a.CustomerID,
		ListingID:   a.ListingID,
		TargetPrice: a.TargetPrice,
		Active:      true,
	}
	if err := q.GORM(ctx).Create(ga).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return ga.Model(), nil
}

func ListByCustomer[Q postgres.Queryer](
	ctx context.Context, q Q, customerID uuid.UUID,
) ([]model.PriceAlert, error) {
	var gas []gAlert
	err := q.GORM(ctx).Where("customer_id=?", customerID).Order(
		"created_at DESC, id",
	).Find(&gas).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	as := make([]model.PriceAlert, len(gas))
	for i := range gas {
		as[i] = *gas[i].Model()
	}
	return as, nil
}

func Delete[Q postgres.Queryer](
	ctx context.Context, q Q, id, customerID uuid.UUID,
) error {
	tx := q.GORM(ctx).Where(
		"id=? AND customer_id=?", id, customerID,
	).Delete(&gAlert{})
	if err := tx.Error; err != nil {
		return postgres.Error(err)
	}
	return postgres.ExpectOne(int(tx.RowsAffected))
}

// triggerSQL deactivates the matching alerts in one statement, so an
// alert which is returned once may not be returned again, even if
// many evaluations run concurrently. Only active listings may fire.
const triggerSQL = `UPDATE price_alerts a
SET active=FALSE, triggered_at=now()
FROM listings l
WHERE a.listing_id=l.id AND a.active AND l.status='active'
  AND l.price <= a.target_price`

type email struct {
	ID    uuid.UUID
	Email string
}

// Trigger fires the active alerts whose listing prices are at most
// their target prices. If listingID is non-nil, only the alerts of
// that listing are considered. The fired alerts are joined with
// their listings and customer email addresses.
func Trigger(
	ctx context.Context, tx *postgres.Tx, listingID *uuid.UUID,
) ([]model.TriggeredAlert, error) {
	var gas []gAlert
	gdb := tx.GORM(ctx)
	stmt, args := triggerSQL, []any{}
	if listingID != nil {
		stmt += " AND a.listing_id=?"
		args = append(args, *listingID)
	}
	stmt += " RETURNING a.*"
	if err := gdb.Raw(stmt, args...).Scan(&gas).Error; err != nil {
		return nil, postgres.Error(err)
	}
	if len(gas) == 0 {
		return nil, nil
	}
	lids := make([]uuid.UUID, 0, len(gas))
	cids := make([]uuid.UUID, 0, len(gas))
	for i := range gas {
		lids = append(lids, gas[i].ListingID)
		cids = append(cids, gas[i].CustomerID)
	}
	var gls []listingsrp.Listing
	err := gdb.Where("id IN ?", lids).Find(&gls).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	listings := make(map[uuid.UUID]*model.Listing, len(gls))
	for i := range gls {
		listings[gls[i].ID] = gls[i].ToModel()
	}
	var emails []email
	err = tx.GORM(ctx).Table("profiles").Select("id, email").Where(
		"id IN ?", cids,
	).Scan(&emails).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	addrs := make(map[uuid.UUID]string, len(emails))
	for _, e := range emails {
		addrs[e.ID] = e.Email
	}
	ts := make([]model.TriggeredAlert, 0, len(gas))
	for i := range gas {
		l, ok := listings[gas[i].ListingID]
		if !ok {
			continue
		}
		ts = append(ts, model.TriggeredAlert{
			Alert:         *gas[i].Model(),
			CustomerEmail: addrs[gas[i].CustomerID],
			Listing:       *l,
		})
	}
	return ts, nil
}
