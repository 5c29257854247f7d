// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package alertsrs realizes the price alerts resource and the saved
// searches resource of customers.
package alertsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/usecase/alertsuc"
	"github.com/momeni/car-market/pkg/core/usecase/searchesuc"
)

type resource struct {
	alerts   *alertsuc.UseCase
	searches *searchesuc.UseCase
}

// Register adds the following routes:
//  1. POST, GET /alerts and DELETE /alerts/:id for price alerts,
//  2. POST, GET /searches and DELETE /searches/:id for saved searches,
//  3. GET /searches/:id/listings for running a saved search.
func Register(
	r *gin.RouterGroup,
	alerts *alertsuc.UseCase,
	searches *searchesuc.UseCase,
) {
	rs := &resource{alerts: alerts, searches: searches}
	r.POST("alerts", rs.CreateAlert)
	r.GET("alerts", rs.ListAlerts)
	r.DELETE("alerts/:id", rs.DeleteAlert)
	r.POST("searches", rs.CreateSearch)
	r.GET("searches", rs.ListSearches)
	r.DELETE("searches/:id", rs.DeleteSearch)
	r.GET("searches/:id/listings", rs.RunSearch)
}

type alertReq struct {
	ListingID   uuid.UUID `json:"listing_id" binding:"required"`
	TargetPrice float64   `json:"target_price" binding:"required,gt=0"`
}

func (rs *resource) CreateAlert(c *gin.Context) {
	req := &alertReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	a, err := rs.alerts.Create(
		c, middleware.Principal(c), req.ListingID, req.TargetPrice,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (rs *resource) ListAlerts(c *gin.Context) {
	as, err := rs.alerts.List(c, middleware.Principal(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": as})
}

func (rs *resource) DeleteAlert(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	if err := rs.alerts.Delete(c, middleware.Principal(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type searchReq struct {
	Name     string              `json:"name" binding:"required,max=64"`
	Criteria model.ListingFilter `json:"criteria"`
}

func (rs *resource) CreateSearch(c *gin.Context) {
	req := &searchReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	s, err := rs.searches.Create(
		c, middleware.Principal(c), req.Name, &req.Criteria,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (rs *resource) ListSearches(c *gin.Context) {
	ss, err := rs.searches.List(c, middleware.Principal(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": ss})
}

func (rs *resource) DeleteSearch(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	if err := rs.searches.Delete(c, middleware.Principal(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) RunSearch(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	p, ok := serdser.Page(c)
	if !ok {
		return
	}
	lp, err := rs.searches.Run(c, middleware.Principal(c), id, p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, lp)
}
