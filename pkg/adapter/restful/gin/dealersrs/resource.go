// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dealersrs realizes the dealers resource, including the
// dealer registration and the admin approval APIs.
package dealersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/usecase/dealersuc"
)

type resource struct {
	dealers *dealersuc.UseCase
}

// Register adds the following routes:
//  1. POST /dealers registers the dealer of the caller,
//  2. GET /me/dealer returns the dealer of the caller,
//  3. GET /dealers/:id returns an approved dealer,
//  4. GET /admin/dealers?status=... lists the dealers,
//  5. PATCH /admin/dealers/:id moves a dealer to a new status.
func Register(r *gin.RouterGroup, dealers *dealersuc.UseCase) {
	rs := &resource{dealers: dealers}
	r.POST("dealers", rs.Register)
	r.GET("me/dealer", rs.Mine)
	r.GET("dealers/:id", rs.Get)
	r.GET("admin/dealers", rs.List)
	r.PATCH("admin/dealers/:id", rs.Transition)
}

type registerReq struct {
	BusinessName string `json:"business_name" binding:"required,max=128"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required,max=32"`
	City         string `json:"city" binding:"required,max=64"`
	Address      string `json:"address" binding:"max=256"`
}

func (rs *resource) Register(c *gin.Context) {
	req := &registerReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	d, err := rs.dealers.Register(c, middleware.Principal(c), &model.Dealer{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Phone:        req.Phone,
		City:         req.City,
		Address:      req.Address,
	})
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (rs *resource) Mine(c *gin.Context) {
	d, err := rs.dealers.Mine(c, middleware.Principal(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (rs *resource) Get(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	d, err := rs.dealers.Get(c, middleware.Principal(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type listReq struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected suspended"`

	serdser.PageQuery
}

func (rs *resource) List(c *gin.Context) {
	req := &listReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return
	}
	var status *model.DealerStatus
	if req.Status != "" {
		s := model.DealerStatus(req.Status)
		status = &s
	}
	ds, err := rs.dealers.List(
		c, middleware.Principal(c), status, req.PageQuery.Model(),
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": ds})
}

type transitionReq struct {
	Status string `json:"status" binding:"required,oneof=approved rejected suspended"`
	Reason string `json:"reason" binding:"max=512"`
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
	d, err := rs.dealers.Transition(
		c, middleware.Principal(c), id,
		model.DealerStatus(req.Status), req.Reason,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
