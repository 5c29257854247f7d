// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package chatrs realizes the customer and dealer chat resource.
package chatrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/usecase/chatuc"
)

type resource struct {
	chat *chatuc.UseCase
}

// Register adds the chat routes. Posting messages passes through the
// limit handlers.
//  1. POST /listings/:id/conversations opens a conversation,
//  2. GET /conversations lists the conversations of the caller,
//  3. GET and POST /conversations/:id/messages read and post messages,
//  4. POST /conversations/:id/read marks the received messages as read.
func Register(
	r *gin.RouterGroup, chat *chatuc.UseCase, limit ...gin.HandlerFunc,
) {
	rs := &resource{chat: chat}
	r.POST("listings/:id/conversations", rs.Open)
	r.GET("conversations", rs.Conversations)
	r.GET("conversations/:id/messages", rs.Messages)
	r.POST("conversations/:id/messages", append(limit, rs.Post)...)
	r.POST("conversations/:id/read", rs.MarkRead)
}

func (rs *resource) Open(c *gin.Context) {
	listingID, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	conv, err := rs.chat.Open(c, middleware.Principal(c), listingID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (rs *resource) Conversations(c *gin.Context) {
	p, ok := serdser.Page(c)
	if !ok {
		return
	}
	cs, err := rs.chat.Conversations(c, middleware.Principal(c), p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": cs})
}

func (rs *resource) Messages(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	p, ok := serdser.Page(c)
	if !ok {
		return
	}
	ms, err := rs.chat.Messages(c, middleware.Principal(c), id, p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": ms})
}

type postReq struct {
	Body string `json:"body" binding:"required,max=2000"`
}

func (rs *resource) Post(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	req := &postReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return
	}
	m, err := rs.chat.Post(c, middleware.Principal(c), id, req.Body)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (rs *resource) MarkRead(c *gin.Context) {
	id, ok := serdser.ID(c, "id")
	if !ok {
		return
	}
	n, err := rs.chat.MarkRead(c, middleware.Principal(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}
