// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package financers realizes the financial estimator resource. The
// estimations are public, while saving them as quotes and listing the
// saved quotes need authentication.
package financers

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

// Register instantiates a resource adapting the finance use case with
// the following REST APIs:
//  1. POST /api/cmweb/v1/finance/emi
//  2. POST /api/cmweb/v1/finance/tradein
//  3. POST /api/cmweb/v1/finance/loan
//  4. POST /api/cmweb/v1/finance/breakdown
//  5. GET /api/cmweb/v1/finance/quotes
//
// The finance use case is fetched from app for each request because
// it is replaced whenever the settings change.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	g := r.Group("finance")
	g.POST("emi", rs.EMI)
	g.POST("tradein", rs.TradeIn)
	g.POST("loan", rs.CheckLoan)
	g.POST("breakdown", rs.Breakdown)
	g.GET("quotes", rs.Quotes)
}

func (rs *resource) EMI(c *gin.Context) {
	req := rs.DserEMIReq(c)
	if req == nil {
		return
	}
	q, err := rs.app.FinanceUseCase().EMI(c, middleware.Principal(c), req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (rs *resource) TradeIn(c *gin.Context) {
	req := rs.DserTradeInReq(c)
	if req == nil {
		return
	}
	q, err := rs.app.FinanceUseCase().TradeIn(
		c, middleware.Principal(c), req.TradeInInput, req.Save,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (rs *resource) CheckLoan(c *gin.Context) {
	req := rs.DserLoanReq(c)
	if req == nil {
		return
	}
	q, err := rs.app.FinanceUseCase().CheckLoan(
		c, middleware.Principal(c), req.LoanCheckInput, req.Save,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (rs *resource) Breakdown(c *gin.Context) {
	req := rs.DserBreakdownReq(c)
	if req == nil {
		return
	}
	q, err := rs.app.FinanceUseCase().Breakdown(
		c, middleware.Principal(c), req,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (rs *resource) Quotes(c *gin.Context) {
	p, ok := serdser.Page(c)
	if !ok {
		return
	}
	qs, err := rs.app.FinanceUseCase().Quotes(c, middleware.Principal(c), p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": qs})
}
