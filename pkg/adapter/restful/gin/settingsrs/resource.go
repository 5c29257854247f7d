// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settingsrs serves the marketplace settings, including the
// default finance rates, to the admin panel and estimator forms.
package settingsrs

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

// Register adds these routes to r:
//
//	GET settings  # visible settings with their bounds
//	PUT settings  # admins only; recreates the dependent use cases
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.PUT("settings", rs.UpdateSettings)
	r.GET("settings", rs.FetchSettings)
}

func (rs *resource) UpdateSettings(c *gin.Context) {
	req, ok := rs.DserUpdateSettingsReq(c)
	if !ok {
		return
	}
	vs, minb, maxb, err := rs.app.UpdateSettings(
		c, middleware.Principal(c), req,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, SettingsResp{
		Settings:  vs,
		MinBounds: minb,
		MaxBounds: maxb,
	})
}

func (rs *resource) FetchSettings(c *gin.Context) {
	vs := rs.app.Settings()
	minb, maxb := rs.app.Bounds()
	c.JSON(http.StatusOK, SettingsResp{
		Settings:  &vs,
		MinBounds: minb,
		MaxBounds: maxb,
	})
}
