// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the serialization and deserialization
// helpers which are shared by the resource packages. Request binding
// errors are reported as a map from field names to their messages,
// while use case errors are reported as a {"detail": ...} object.
package serdser

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
)

// Bind deserializes the request into req using the b binding and
// validates it. The 400 response is written if it returns false.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	switch err := c.ShouldBindWith(req, b).(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	(*errs)[name] = append((*errs)[name], msgs...)
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// SerErr writes err as the response. A *cerr.Error determines the
// status code and other errors are reported as internal errors.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": err.Error(),
	})
}

// ID parses the name path parameter as a UUID. The 400 response is
// written if it returns false.
func ID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		var errs map[string][]string
		AddErr(&errs, name, "Path param "+name+" is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return uuid.Nil, false
	}
	return id, true
}

// PageQuery is the pagination part of the listing requests.
type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Model converts pq to a normalized model.Page.
func (pq PageQuery) Model() model.Page {
	return model.Page{Limit: pq.Limit, Offset: pq.Offset}.Normalize()
}

// Page binds the limit and offset query parameters. The 400 response
// is written if it returns false.
func Page(c *gin.Context) (model.Page, bool) {
	var pq PageQuery
	if !Bind(c, &pq, binding.Query) {
		return model.Page{}, false
	}
	return pq.Model(), true
}
