// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package profilesrp is the PostgreSQL adapter of the repo.Profiles
// repository.
package profilesrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
	"gorm.io/gorm/clause"
)

type gProfile struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	Email     string
	FullName  string
	Phone     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (gp *gProfile) TableName() string {
	return "profiles"
}

func (gp *gProfile) Model() *model.Profile {
	return &model.Profile{
		ID:        gp.ID,
		Email:     gp.Email,
		FullName:  gp.FullName,
		Phone:     gp.Phone,
		Role:      model.Role(gp.Role),
		CreatedAt: gp.CreatedAt,
		UpdatedAt: gp.UpdatedAt,
	}
}

func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.Profile, error) {
	var gp gProfile
	if err := q.GORM(ctx).Where("id=?", id).Take(&gp).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gp.Model(), nil
}

// Upsert inserts the p profile or updates all of its columns, but
// created_at, if it exists already.
func Upsert[Q postgres.Queryer](
	ctx context.Context, q Q, p *model.Profile,
) (*model.Profile, error) {
	gp := &gProfile{
		ID:       p.ID,
		Email:    p.Email,
		FullName: p.FullName,
		Phone:    p.Phone,
		Role:     string(p.Role),
	}
	err := q.GORM(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"email", "full_name", "phone", "role", "updated_at",
			}),
		},
		clause.Returning{},
	).Create(gp).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	return gp.Model(), nil
}

// Repo represents the profiles repository instance.
type Repo struct {
}

// New instantiates a profiles Repo struct.
func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

// Conn wraps the given *postgres.Conn as a repo.ProfilesConnQueryer.
func (profiles *Repo) Conn(c repo.Conn) repo.ProfilesConnQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

// Tx wraps the given *postgres.Tx as a repo.ProfilesTxQueryer.
func (profiles *Repo) Tx(tx repo.Tx) repo.ProfilesTxQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (pq queryer[Q]) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Profile, error) {
	return Get(ctx, pq.q, id)
}

func (pq queryer[Q]) Upsert(
	ctx context.Context, p *model.Profile,
) (*model.Profile, error) {
	return Upsert(ctx, pq.q, p)
}
