// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package inquiriesrs realizes the test-drive inquiries resource.
package inquiriesrs

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/usecase/inquiriesuc"
)

type resource struct {
	inquiries *inquiriesuc.UseCase
}

// Register adds the inquiries routes. Booking passes through the
// limit handlers, so customers cannot flood the dealers.
//  1. POST /listings/:id/inquiries books a test drive,
//  2. GET /inquiries lists the inquiries of the caller,
//  3. GET /inquiries/:id returns one inquiry,
//  4. PATCH /inquiries/:id changes the status of an inquiry.
func Register(
	r *gin.RouterGroup,
	inquiries *inquiriesuc.UseCase,
	limit ...gin.HandlerFunc,
) {
	rs := &resource{inquiries: inquiries}
	r.POST("listings/:id/inquiries", append(limit, rs.Book)...)
	r.GET("inquiries", rs.List)
	r.GET("inquiries/:id", rs.Get)
	r.PATCH("inquiries/:id", rs.Transition)
}

type bookReq struct {
	PreferredAt time.Time `json:"preferred_at" binding:"required"`
	Phone       string    `json:"phone" binding:"max=32"`
	Message     string    `json:"message" binding:"max=1000"`
}

func (rs *resource) Book(c *gin.Context) {
	listingID, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	req := &bookReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	inq, err := rs.inquiries.Book(c, middleware.Principal(c), &model.Inquiry{
		ListingID:   listingID,
		PreferredAt: req.PreferredAt,
		Phone:       req.Phone,
		Message:     req.Message,
	})
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, inq)
}

type listReq struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`

	serdser.PageQuery
}

func (rs *resource) List(c *gin.Context) {
	req := &listReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return
	}
	var status *model.InquiryStatus
	if req.Status != "" {
		s := model.InquiryStatus(req.Status)
		status = &s
	}
	is, err := rs.inquiries.List(
		c, middleware.Principal(c), status, req.PageQuery.Model(),
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": is})
}

func (rs *resource) Get(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	inq, err := rs.inquiries.Get(c, middleware.Principal(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, inq)
}

type transitionReq struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed cancelled"`
}

func (rs *resource) Transition(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	req := &transitionReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	inq, err := rs.inquiries.Transition(
		c, middleware.Principal(c), id, model.InquiryStatus(req.Status),
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, inq)
}
