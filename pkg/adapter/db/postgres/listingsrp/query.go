// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsrp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Listing is the gorm model of the listings table. It is exported
// because the alertsrp package joins listings too.
type Listing struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	DealerID     uuid.UUID `gorm:"type:uuid"`
	Make         string
	Model        string
	Variant      string
	Year         int
	Price        float64
	Mileage      int
	Fuel         string
	Transmission string
	BodyType     string
	Color        string
	City         string
	Description  string
	Images       pq.StringArray `gorm:"type:text[]"`
	Status       string
	Featured     bool
	Views        int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (gl *Listing) TableName() string {
	return "listings"
}

// ToModel converts gl to its model.Listing counterpart.
func (gl *Listing) ToModel() *model.Listing {
	images := []string(gl.Images)
	if images == nil {
		images = []string{}
	}
	return &model.Listing{
		ID:           gl.ID,
		DealerID:     gl.DealerID,
		Make:         gl.Make,
		Model:        gl.Model,
		Variant:      gl.Variant,
		Year:         gl.Year,
		Price:        gl.Price,
		Mileage:      gl.Mileage,
		Fuel:         gl.Fuel,
		Transmission: gl.Transmission,
		BodyType:     gl.BodyType,
		Color:        gl.Color,
		City:         gl.City,
		Description:  gl.Description,
		Images:       images,
		Status:       model.ListingStatus(gl.Status),
		Featured:     gl.Featured,
		Views:        gl.Views,
		CreatedAt:    gl.CreatedAt,
		UpdatedAt:    gl.UpdatedAt,
	}
}

func fromModel(l *model.Listing) *Listing {
	return &Listing{
		ID:           l.ID,
		DealerID:     l.DealerID,
		Make:         l.Make,
		Model:        l.Model,
		Variant:      l.Variant,
		Year:         l.Year,
		Price:        l.Price,
		Mileage:      l.Mileage,
		Fuel:         l.Fuel,
		Transmission: l.Transmission,
		BodyType:     l.BodyType,
		Color:        l.Color,
		City:         l.City,
		Description:  l.Description,
		Images:       pq.StringArray(l.Images),
		Status:       string(l.Status),
		Featured:     l.Featured,
	}
}

// Models converts a slice of gorm rows to their model counterparts.
func Models(gls []Listing) []model.Listing {
	ls := make([]model.Listing, len(gls))
	for i := range gls {
		ls[i] = *gls[i].ToModel()
	}
	return ls
}

func Create[Q postgres.Queryer](
	ctx context.Context, q Q, l *model.Listing,
) (*model.Listing, error) {
	gl := fromModel(l)
	gl.ID = uuid.New()
	if gl.Images == nil {
		gl.Images = pq.StringArray{}
	}
	if err := q.GORM(ctx).Create(gl).Error; err != nil {
		return nil, postgres.Error(err)
	}
	return gl.ToModel(), nil
}

func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.Listing, error) {
	var gl Listing
	err := q.GORM(ctx).Where("id=?", id).Take(&gl).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	return gl.ToModel(), nil
}

func GetMany[Q postgres.Queryer](
	ctx context.Context, q Q, ids []uuid.UUID,
) ([]model.Listing, error) {
	var gls []Listing
	err := q.GORM(ctx).Where(
		"id IN ? AND status=?", ids, model.ListingActive,
	).Find(&gls).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	byID := make(map[uuid.UUID]*Listing, len(gls))
	for i := range gls {
		byID[gls[i].ID] = &gls[i]
	}
	ls := make([]model.Listing, 0, len(ids))
	for _, id := range ids {
		gl, ok := byID[id]
		if !ok {
			return nil, cerr.NotFound(fmt.Errorf("listing %s", id))
		}
		ls = append(ls, *gl.ToModel())
	}
	return ls, nil
}

func View[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.Listing, error) {
	var gls []Listing
	tx := q.GORM(ctx).Model(&gls).Clauses(clause.Returning{}).Where(
		"id=? AND status=?", id, model.ListingActive,
	).UpdateColumn("views", gorm.Expr("views + 1"))
	if err := tx.Error; err != nil {
		return nil, postgres.Error(err)
	}
	if err := postgres.ExpectOne(len(gls)); err != nil {
		return nil, err
	}
	return gls[0].ToModel(), nil
}

func Update[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	id, dealerID uuid.UUID,
	p *model.ListingPatch,
) (*model.Listing, error) {
	cols := map[string]any{"updated_at": time.Now()}
	if p.Variant != nil {
		cols["variant"] = *p.Variant
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Mileage != nil {
		cols["mileage"] = *p.Mileage
	}
	if p.Color != nil {
		cols["color"] = *p.Color
	}
	if p.City != nil {
		cols["city"] = *p.City
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Images != nil {
		cols["images"] = pq.StringArray(p.Images)
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Featured != nil {
		cols["featured"] = *p.Featured
	}
	if p.Transmission != nil {
		cols["transmission"] = *p.Transmission
	}
	var gls []Listing
	tx := q.GORM(ctx).Model(&gls).Clauses(clause.Returning{}).Where(
		"id=? AND dealer_id=?", id, dealerID,
	).Updates(cols)
	if err := tx.Error; err != nil {
		return nil, postgres.Error(err)
	}
	if err := postgres.ExpectOne(len(gls)); err != nil {
		return nil, err
	}
	return gls[0].ToModel(), nil
}

func Delete[Q postgres.Queryer](
	ctx context.Context, q Q, id, dealerID uuid.UUID,
) error {
	tx := q.GORM(ctx).Where(
		"id=? AND dealer_id=?", id, dealerID,
	).Delete(&Listing{})
	if err := tx.Error; err != nil {
		return postgres.Error(err)
	}
	return postgres.ExpectOne(int(tx.RowsAffected))
}

// orders maps each sort option to its ORDER BY clause. The id column
// makes the order total, so pages never overlap.
var orders = map[model.ListingSort]string{
	model.SortNewest:     "created_at DESC, id",
	model.SortPriceAsc:   "price ASC, id",
	model.SortPriceDesc:  "price DESC, id",
	model.SortYearDesc:   "year DESC, created_at DESC, id",
	model.SortMileageAsc: "mileage ASC, id",
}

// filter applies the non-empty criteria of f to gdb.
// Text criteria are compared case-insensitively.
func filter(gdb *gorm.DB, f *model.ListingFilter) *gorm.DB {
	if f.Status != "" {
		gdb = gdb.Where("status=?", f.Status)
	}
	if f.DealerID != nil {
		gdb = gdb.Where("dealer_id=?", *f.DealerID)
	}
	if f.Make != "" {
		gdb = gdb.Where("lower(make)=?", strings.ToLower(f.Make))
	}
	if f.Model != "" {
		gdb = gdb.Where(
			"model ILIKE ?", escapeLike(f.Model)+"%",
		)
	}
	if f.MinPrice != nil {
		gdb = gdb.Where("price>=?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		gdb = gdb.Where("price<=?", *f.MaxPrice)
	}
	if f.MinYear != nil {
		gdb = gdb.Where("year>=?", *f.MinYear)
	}
	if f.MaxYear != nil {
		gdb = gdb.Where("year<=?", *f.MaxYear)
	}
	if f.MaxMileage != nil {
		gdb = gdb.Where("mileage<=?", *f.MaxMileage)
	}
	if f.Fuel != "" {
		gdb = gdb.Where("fuel=?", f.Fuel)
	}
	if f.Transmission != "" {
		gdb = gdb.Where("transmission=?", f.Transmission)
	}
	if f.BodyType != "" {
		gdb = gdb.Where("body_type=?", f.BodyType)
	}
	if f.City != "" {
		gdb = gdb.Where("lower(city)=?", strings.ToLower(f.City))
	}
	return gdb
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func Search[Q postgres.Queryer](
	ctx context.Context, q Q, f *model.ListingFilter, p model.Page,
) (*model.ListingPage, error) {
	var total int64
	err := filter(q.GORM(ctx).Model(&Listing{}), f).Count(&total).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	lp := &model.ListingPage{Items: []model.Listing{}, Total: total}
	if total == 0 {
		return lp, nil
	}
	order, ok := orders[f.Sort]
	if !ok {
		return nil, cerr.BadRequest(fmt.Errorf("unknown sort: %q", f.Sort))
	}
	var gls []Listing
	gdb := filter(q.GORM(ctx), f).Order(order)
	err = postgres.Paginate(gdb, p).Find(&gls).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	lp.Items = Models(gls)
	return lp, nil
}

func CountActive[Q postgres.Queryer](
	ctx context.Context, q Q, dealerID uuid.UUID,
) (int64, error) {
	var n int64
	err := q.GORM(ctx).Model(&Listing{}).Where(
		"dealer_id=? AND status=?", dealerID, model.ListingActive,
	).Count(&n).Error
	if err != nil {
		return 0, postgres.Error(err)
	}
	return n, nil
}

func Makes[Q postgres.Queryer](
	ctx context.Context, q Q,
) ([]string, error) {
	var makes []string
	err := q.GORM(ctx).Model(&Listing{}).Where(
		"status=?", model.ListingActive,
	).Distinct("make").Order("make").Pluck("make", &makes).Error
	if err != nil {
		return nil, postgres.Error(err)
	}
	return makes, nil
}
