// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package listingsrs realizes the listings resource, including the
// public browsing APIs and the dealer inventory management APIs.
package listingsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/usecase/appuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the listings use case
// with the relevant REST APIs including:
//  1. GET /listings for searching the active listings,
//  2. GET /listings/:id for viewing one listing,
//  3. POST /listings, PATCH and DELETE /listings/:id for the dealers,
//  4. GET /compare?ids=... for comparing listings side by side,
//  5. GET /makes?q=... for the make suggestions,
//  6. GET /me/dealer/listings for the dealer inventory.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.GET("listings", rs.Search)
	r.GET("listings/:id", rs.View)
	r.POST("listings", rs.Create)
	r.PATCH("listings/:id", rs.Update)
	r.DELETE("listings/:id", rs.Delete)
	r.GET("compare", rs.Compare)
	r.GET("makes", rs.Suggest)
	r.GET("me/dealer/listings", rs.Inventory)
}

func (rs *resource) Search(c *gin.Context) {
	f, p, ok := rs.DserSearchReq(c)
	if !ok {
		return
	}
	lp, err := rs.app.ListingsUseCase().Search(c, f, p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, lp)
}

func (rs *resource) View(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	l, err := rs.app.ListingsUseCase().View(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (rs *resource) Create(c *gin.Context) {
	l := rs.DserCreateReq(c)
	if l == nil {
		return
	}
	l, err := rs.app.ListingsUseCase().Create(c, middleware.Principal(c), l)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (rs *resource) Update(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	patch := rs.DserUpdateReq(c)
	if patch == nil {
		return
	}
	l, err := rs.app.ListingsUseCase().Update(
		c, middleware.Principal(c), id, patch,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (rs *resource) Delete(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	err := rs.app.ListingsUseCase().Delete(c, middleware.Principal(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) Compare(c *gin.Context) {
	ids, ok := rs.DserCompareReq(c)
	if !ok {
		return
	}
	cmp, err := rs.app.ListingsUseCase().Compare(c, ids)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (rs *resource) Suggest(c *gin.Context) {
	makes, err := rs.app.ListingsUseCase().Suggest(c, c.Query("q"))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"makes": makes})
}

func (rs *resource) Inventory(c *gin.Context) {
	status, p, ok := rs.DserInventoryReq(c)
	if !ok {
		return
	}
	lp, err := rs.app.ListingsUseCase().Inventory(
		c, middleware.Principal(c), status, p,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, lp)
}
