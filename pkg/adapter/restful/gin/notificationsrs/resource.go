// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package notificationsrs realizes the admin back office resources,
// that is, the notifications feed and the analytics dashboards.
package notificationsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/usecase/analyticsuc"
	"github.com/momeni/car-market/pkg/core/usecase/notificationsuc"
)

type resource struct {
	notifs    *notificationsuc.UseCase
	analytics *analyticsuc.UseCase
}

// Register adds the following routes:
//  1. GET /admin/notifications?unread=true lists the notifications,
//  2. PATCH /admin/notifications/:id marks a notification as read,
//  3. GET /admin/notifications/stream upgrades to a websocket which
//     receives the new notifications, served by the stream handler,
//  4. GET /admin/analytics returns the admin dashboard,
//  5. GET /me/dealer/analytics returns the dashboard of the caller.
func Register(
	r *gin.RouterGroup,
	notifs *notificationsuc.UseCase,
	analytics *analyticsuc.UseCase,
	stream http.Handler,
) {
	rs := &resource{notifs: notifs, analytics: analytics}
	r.GET("admin/notifications", rs.List)
	r.PATCH("admin/notifications/:id", rs.MarkRead)
	r.GET(
		"admin/notifications/stream",
		middleware.RequireRole(model.RoleAdmin),
		gin.WrapH(stream),
	)
	r.GET("admin/analytics", rs.AdminDashboard)
	r.GET("me/dealer/analytics", rs.DealerDashboard)
}

type listReq struct {
	Unread bool `form:"unread"`

	serdser.PageQuery
}

func (rs *resource) List(c *gin.Context) {
	req := &listReq{}
	if !serdser.Bind(c, req, binding.Query) {
		return
	}
	ns, err := rs.notifs.List(
		c, middleware.Principal(c), req.Unread, req.PageQuery.Model(),
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": ns})
}

func (rs *resource) MarkRead(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	n, err := rs.notifs.MarkRead(c, middleware.Principal(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (rs *resource) AdminDashboard(c *gin.Context) {
	d, err := rs.analytics.Admin(c, middleware.Principal(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (rs *resource) DealerDashboard(c *gin.Context) {
	d, err := rs.analytics.Dealer(c, middleware.Principal(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
