// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package profilesrs realizes the profile resource of the
// authenticated caller.
package profilesrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/usecase/profilesuc"
)

type resource struct {
	profiles *profilesuc.UseCase
}

// Register adds the GET and PUT /me routes.
func Register(r *gin.RouterGroup, profiles *profilesuc.UseCase) {
	rs := &resource{profiles: profiles}
	r.GET("me", rs.Me)
	r.PUT("me", rs.UpdateMe)
}

type updateReq struct {
	FullName string `json:"full_name" binding:"required,max=128"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
}

func (rs *resource) Me(c *gin.Context) {
	p, err := rs.profiles.Me(c, middleware.Principal(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (rs *resource) UpdateMe(c *gin.Context) {
	req := &updateReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	p, err := rs.profiles.Update(
		c, middleware.Principal(c), req.FullName, req.Phone,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
