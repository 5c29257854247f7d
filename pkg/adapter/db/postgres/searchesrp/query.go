// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package searchesrp

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
)

type gSearch struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid"`
	CustomerID uuid.UUID `gorm:"type:uuid"`
	Name       string
	Criteria   []byte `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (gs *gSearch) TableName() string {
	return "saved_searches"
}

func (gs *gSearch) Model() (*model.SavedSearch, error) {
	s := &model.SavedSearch{
		ID:         gs.ID,
		CustomerID: gs.CustomerID,
		Name:       gs.Name,
		CreatedAt:  gs.CreatedAt,
	}
	if err := json.Unmarshal(gs.Criteria, &s.Criteria); err != nil {
		return nil, fmt.Errorf("unmarshaling criteria of %v: %w", gs.ID, err)
	}
	return s, nil
}

func Create[Q postgres.Queryer](
	ctx context.Context, q Q, s *model.SavedSearch,
) (*model.SavedSearch, error) {
	c, err := json.Marshal(s.Criteria)
	if err != nil {
		return nil, fmt.Errorf("marshaling criteria: %w", err)
	}
	gs := &gSearch{
		ID:         uuid.New(),
		CustomerID: s.CustomerID,
		Name:       s.Name,
		Criteria:   c,
	}
	if err := q.GORM(ctx).Create(gs).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gs.Model()
}

func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id, customerID uuid.UUID,
) (*model.SavedSearch, error) {
	var gs gSearch
	err := q.GORM(ctx).Where(
		"id=? AND customer_id=?", id, customerID,
	).Take(&gs).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	return gs.Model()
}

func List[Q postgres.Queryer](
	ctx context.Context, q Q, customerID uuid.UUID,
) ([]model.SavedSearch, error) {
	var gss []gSearch
	err := q.GORM(ctx).Where("customer_id=?", customerID).Order(
		"created_at DESC, id",
	).Find(&gss).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	ss := make([]model.SavedSearch, len(gss))
	for i := range gss {
		s, err := gss[i].Model()
		if err != nil {
			return nil, err
		}
		ss[i] = *s
	}
	return ss, nil
}

func Delete[Q postgres.Queryer](
	ctx context.Context, q Q, id, customerID uuid.UUID,
) error {
	tx := q.GORM(ctx).Where(
		"id=? AND customer_id=?", id, customerID,
	).Delete(&gSearch{})
	if err := tx.Error; err != nil {
		return postgres.Error(err)
	}
	return postgres.ExpectOne(int(tx.RowsAffected))
}
