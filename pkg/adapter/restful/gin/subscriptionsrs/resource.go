// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package subscriptionsrs realizes the dealer subscription requests
// resource.
package subscriptionsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/usecase/subscriptionsuc"
)

type resource struct {
	subs *subscriptionsuc.UseCase
}

// Register adds the following routes:
//  1. POST /subscriptions for requesting a plan change,
//  2. GET /subscriptions for listing the requests,
//  3. PATCH /admin/subscriptions/:id for deciding on a request.
func Register(r *gin.RouterGroup, subs *subscriptionsuc.UseCase) {
	rs := &resource{subs: subs}
	r.POST("subscriptions", rs.Request)
	r.GET("subscriptions", rs.List)
	r.PATCH("admin/subscriptions/:id", rs.Decide)
}

type requestReq struct {
	Plan string `json:"plan" binding:"required,oneof=free basic premium"`
	Note string `json:"note" binding:"max=512"`
}

func (rs *resource) Request(c *gin.Context) {
	req := &requestReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	sr, err := rs.subs.Request(
		c, middleware.Principal(c), model.Plan(req.Plan), req.Note,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, sr)
}

type listReq struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`

	serdser.PageQuery
}

func (rs *resource) List(c *gin.Context) {
	req := &listReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return
	}
	var status *model.RequestStatus
	if req.Status != "" {
		s := model.RequestStatus(req.Status)
		status = &s
	}
	srs, err := rs.subs.List(
		c, middleware.Principal(c), status, req.PageQuery.Model(),
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": srs})
}

type decideReq struct {
	Approve *bool  `json:"approve" binding:"required"`
	Note    string `json:"note" binding:"max=512"`
}

func (rs *resource) Decide(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	req := &decideReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	sr, err := rs.subs.Decide(
		c, middleware.Principal(c), id, *req.Approve, req.Note,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sr)
}
