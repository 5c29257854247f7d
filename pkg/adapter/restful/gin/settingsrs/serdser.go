// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settingsrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/model"
)

// DserUpdateSettingsReq deserializes the mutable settings. Immutable
// settings are dropped, even if they were sent by the client.
func (rs *resource) DserUpdateSettingsReq(
	c *gin.Context,
) (*model.Settings, bool) {
	req := &model.Settings{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil, false
	}
	req.ImmutableSettings = nil
	return req, true
}

// SettingsResp is returned by both GET and PUT of the settings endpoint.
// Bounds which a setting does not have are reported as null, so the
// admin panel can render its own input limits.
type SettingsResp struct {
	Settings  *model.VisibleSettings `json:"settings"`
	MinBounds *model.Settings        `json:"min_bounds"`
	MaxBounds *model.Settings        `json:"max_bounds"`
}
