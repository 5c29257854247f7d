// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestRecorder records the handled requests.
type RequestRecorder interface {
	RecordRequest(method, route string, status int, d time.Duration)
}

// Metrics records each request with its matched route template.
// Unmatched requests are recorded with the "unmatched" route.
func Metrics(rec RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.RecordRequest(
			c.Request.Method, route, c.Writer.Status(), time.Since(start),
		)
	}
}
