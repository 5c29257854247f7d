// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gin wraps the gin-gonic engine so other adapters may create
// and configure it without importing the gin-gonic package directly.
// The resource packages live in its sub-packages and are registered
// by the routes package.
package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
)

// HandlerFunc is a gin-gonic request handler or middleware.
type HandlerFunc = gin.HandlerFunc

// Engine is the gin-gonic engine.
type Engine = gin.Engine

// New instantiates an engine, registers the custom binding validators,
// and uses the given middlewares for all routes. It panics if the
// validators cannot be registered since that indicates a programming
// error.
func New(middlewares ...HandlerFunc) *Engine {
	if err := serdser.RegisterValidators(); err != nil {
		panic(err)
	}
	e := gin.New()
	// gin.Context looks up the request context values, such as the
	// logging attributes of the signed in user.
	e.ContextWithFallback = true
	e.Use(middlewares...)
	return e
}

func Logger() HandlerFunc {
	return gin.Logger()
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// SetReleaseMode silences the gin-gonic debug messages.
func SetReleaseMode() {
	gin.SetMode(gin.ReleaseMode)
}
