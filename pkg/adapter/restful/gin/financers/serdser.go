// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package financers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/finance"
	"github.com/momeni/car-market/pkg/core/usecase/financeuc"
)

// Only the types are checked by the binding tags. The value ranges
// are validated by the finance package, so the API and the CLI report
// the same messages.
type rawEMIReq struct {
	Price       float64    `json:"price" binding:"required"`
	DownPayment float64    `json:"down_payment"`
	AnnualRate  *float64   `json:"annual_rate"`
	TermMonths  *int       `json:"term_months"`
	Schedule    bool       `json:"schedule"`
	Save        bool       `json:"save"`
	ListingID   *uuid.UUID `json:"listing_id"`
}

func (rs *resource) DserEMIReq(c *gin.Context) *financeuc.EMIRequest {
	req := &rawEMIReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return nil
	}
	return &financeuc.EMIRequest{
		Price:       req.Price,
		DownPayment: req.DownPayment,
		AnnualRate:  req.AnnualRate,
		TermMonths:  req.TermMonths,
		Schedule:    req.Schedule,
		Save:        req.Save,
		ListingID:   req.ListingID,
	}
}

type tradeInReq struct {
	finance.TradeInInput
	Save bool `json:"save"`
}

func (rs *resource) DserTradeInReq(c *gin.Context) *tradeInReq {
	req := &tradeInReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return nil
	}
	return req
}

type loanReq struct {
	finance.LoanCheckInput
	Save bool `json:"save"`
}

func (rs *resource) DserLoanReq(c *gin.Context) *loanReq {
	req := &loanReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return nil
	}
	return req
}

type rawBreakdownReq struct {
	ExShowroom       float64    `json:"ex_showroom" binding:"required"`
	RegistrationRate *float64   `json:"registration_rate"`
	InsuranceRate    *float64   `json:"insurance_rate"`
	HandlingFee      *float64   `json:"handling_fee"`
	Save             bool       `json:"save"`
	ListingID        *uuid.UUID `json:"listing_id"`
}

func (rs *resource) DserBreakdownReq(
	c *gin.Context,
) *financeuc.BreakdownRequest {
	req := &rawBreakdownReq{}
	if !serdser.Bind(c, req, binding.JSON) {
		return nil
	}
	return &financeuc.BreakdownRequest{
		ExShowroom:       req.ExShowroom,
		RegistrationRate: req.RegistrationRate,
		InsuranceRate:    req.InsuranceRate,
		HandlingFee:      req.HandlingFee,
		Save:             req.Save,
		ListingID:        req.ListingID,
	}
}
