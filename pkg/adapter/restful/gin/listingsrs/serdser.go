// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package listingsrs

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/model"
)

type searchReq struct {
	Make         string   `form:"make" binding:"max=64"`
	Model        string   `form:"model" binding:"max=64"`
	MinPrice     *float64 `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice     *float64 `form:"max_price" binding:"omitempty,min=0"`
	MinYear      *int     `form:"min_year"`
	MaxYear      *int     `form:"max_year"`
	MaxMileage   *int     `form:"max_mileage" binding:"omitempty,min=0"`
	Fuel         string   `form:"fuel" binding:"omitempty,oneof=petrol diesel cng electric hybrid"`
	Transmission string   `form:"transmission" binding:"omitempty,oneof=manual automatic"`
	BodyType     string   `form:"body_type" binding:"omitempty,oneof=hatchback sedan suv muv coupe convertible pickup van"`
	City         string   `form:"city" binding:"max=64"`
	Sort         string   `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc year_desc mileage_asc"`

	serdser.PageQuery
}

func (rs *resource) DserSearchReq(
	c *gin.Context,
) (*model.ListingFilter, model.Page, bool) {
	req := &searchReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return nil, model.Page{}, false
	}
	f := &model.ListingFilter{
		Make:         req.Make,
		Model:        req.Model,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		MinYear:      req.MinYear,
		MaxYear:      req.MaxYear,
		MaxMileage:   req.MaxMileage,
		Fuel:         req.Fuel,
		Transmission: req.Transmission,
		BodyType:     req.BodyType,
		City:         req.City,
	}
	if req.Sort != "newest" {
		f.Sort = model.ListingSort(req.Sort)
	}
	return f, req.PageQuery.Model(), true
}

type createReq struct {
	Make         string   `json:"make" binding:"required,max=64"`
	Model        string   `json:"model" binding:"required,max=64"`
	Variant      string   `json:"variant" binding:"max=64"`
	Year         int      `json:"year" binding:"required,caryear"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	Mileage      int      `json:"mileage" binding:"min=0"`
	Fuel         string   `json:"fuel" binding:"required,oneof=petrol diesel cng electric hybrid"`
	Transmission string   `json:"transmission" binding:"required,oneof=manual automatic"`
	BodyType     string   `json:"body_type" binding:"required,oneof=hatchback sedan suv muv coupe convertible pickup van"`
	Color        string   `json:"color" binding:"max=64"`
	City         string   `json:"city" binding:"required,max=64"`
	Description  string   `json:"description" binding:"max=5000"`
	Images       []string `json:"images" binding:"max=20,dive,url"`
}

func (rs *resource) DserCreateReq(c *gin.Context) *model.Listing {
	req := &createReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return nil
	}
	return &model.Listing{
		Make:         req.Make,
		Model:        req.Model,
		Variant:      req.Variant,
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		Fuel:         req.Fuel,
		Transmission: req.Transmission,
		BodyType:     req.BodyType,
		Color:        req.Color,
		City:         req.City,
		Description:  req.Description,
		Images:       req.Images,
	}
}

func (rs *resource) DserUpdateReq(c *gin.Context) *model.ListingPatch {
	req := &model.ListingPatch{}
	if !serdser.Bind(c, req, binding.JSON) {
		return nil
	}
	return req
}

func (rs *resource) DserCompareReq(c *gin.Context) ([]uuid.UUID, bool) {
	var errs map[string][]string
	var ids []uuid.UUID
	for _, s := range strings.Split(c.Query("ids"), ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if !serdser.Assert(&errs, err == nil, "ids", s+" is not UUID.") {
			continue
		}
		ids = append(ids, id)
	}
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil, false
	}
	return ids, true
}

type inventoryReq struct {
	Status string `form:"status" binding:"omitempty,oneof=active sold archived"`

	serdser.PageQuery
}

func (rs *resource) DserInventoryReq(
	c *gin.Context,
) (model.ListingStatus, model.Page, bool) {
	req := &inventoryReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return "", model.Page{}, false
	}
	return model.ListingStatus(req.Status), req.PageQuery.Model(), true
}
