// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/car-market/internal/test/dbcontainer"
	"github.com/momeni/car-market/internal/test/schema"
	"github.com/momeni/car-market/pkg/adapter/auth"
	"github.com/momeni/car-market/pkg/adapter/config/cfg1"
	"github.com/momeni/car-market/pkg/adapter/db/postgres"
	"github.com/momeni/car-market/pkg/adapter/db/postgres/migration"
	"github.com/momeni/car-market/pkg/adapter/restful/gin"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/routes"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/repo"
	"github.com/stretchr/testify/suite"
)

const secret = "0123456789abcdef0123456789abcdef"

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx    context.Context
	Pg     *sqltestutil.PostgresContainer
	Pool   *postgres.Pool
	Gin    *gin.Engine
	Tokens *auth.Tokens
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, ok := dbcontainer.New(ctx, 60*time.Second, t)
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	m, err := migration.New(igts.Pg.ConnectionString())
	igts.Require().NoError(err, "failed to create migrator")
	igts.Require().NoError(m.Up(igts.Ctx, 0), "failed to migrate up")
	v, dirty, err := m.Version(igts.Ctx)
	igts.Require().NoError(err)
	igts.Require().False(dirty)
	igts.Require().Equal(uint(migration.Latest), v)
	igts.Require().NoError(m.Close())
	err = igts.Pool.Conn(
		igts.Ctx, func(ctx context.Context, c repo.Conn) error {
			schema.NewVerifier(c).VerifySchema(ctx, igts.T(), v)
			return nil
		},
	)
	igts.Require().NoError(err)

	data, err := os.ReadFile("../../config/cfg1/testdata/config.yaml")
	igts.Require().NoError(err, "failed to read config.yaml file")
	c, err := cfg1.Load(data, func(key string) string {
		if key == cfg1.EnvJWTSecret {
			return secret
		}
		return ""
	})
	igts.Require().NoError(err, "failed to load configs")
	igts.Tokens, err = c.Auth.NewTokens()
	igts.Require().NoError(err)

	igts.Gin = gin.New(gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	_, err = routes.Register(
		igts.Ctx, igts.Gin, igts.Pool, c,
		routes.Deps{Tokens: igts.Tokens},
	)
	igts.Require().NoError(err, "failed to register Gin routes")
}

func (igts *IntegrationGinTestSuite) token(role model.Role) string {
	id := uuid.New()
	tok, err := igts.Tokens.Issue(model.Principal{
		UserID: id,
		Role:   role,
		Email:  string(role) + "-" + id.String()[:8] + "@example.com",
	})
	igts.Require().NoError(err, "cannot issue token")
	return tok
}

// send serves a request with the optional JSON body and decodes the
// JSON response into res unless res is nil.
func (igts *IntegrationGinTestSuite) send(
	method, path, token string, body, res any,
) int {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		igts.Require().NoError(err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, routes.BasePath+path, r)
	igts.Require().NoError(err, "cannot create request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	if res != nil {
		igts.NoError(
			json.Unmarshal(w.Body.Bytes(), res), "body is not json",
		)
	}
	return w.Code
}

func (igts *IntegrationGinTestSuite) TestAuthentication() {
	igts.Equal(http.StatusUnauthorized, igts.send(
		http.MethodGet, "/me", "", nil, nil,
	))
	igts.Equal(http.StatusUnauthorized, igts.send(
		http.MethodGet, "/me", "not-a-token", nil, nil,
	))
	me := &model.Profile{}
	igts.Equal(http.StatusOK, igts.send(
		http.MethodGet, "/me", igts.token(model.RoleCustomer), nil, me,
	))
	igts.Equal(model.RoleCustomer, me.Role)
	igts.Equal(http.StatusForbidden, igts.send(
		http.MethodGet, "/admin/analytics",
		igts.token(model.RoleCustomer), nil, nil,
	))
}

func (igts *IntegrationGinTestSuite) TestEMIWithoutSignIn() {
	res := &struct {
		EMI        float64 `json:"emi"`
		AnnualRate float64 `json:"annual_rate"`
	}{}
	code := igts.send(http.MethodPost, "/finance/emi", "", map[string]any{
		"price":        1000000,
		"down_payment": 200000,
		"annual_rate":  9,
		"term_months":  60,
	}, res)
	igts.Equal(http.StatusOK, code)
	igts.InDelta(16606.69, res.EMI, 0.5)
	igts.Equal(9.0, res.AnnualRate)

	detail := &struct{ Detail string }{}
	code = igts.send(http.MethodPost, "/finance/emi", "", map[string]any{
		"price":        1000000,
		"down_payment": 1000000,
	}, detail)
	igts.Equal(http.StatusBadRequest, code)
	igts.NotEmpty(detail.Detail)
}

func (igts *IntegrationGinTestSuite) TestBadRequest() {
	dealer := igts.token(model.RoleDealer)
	for _, tc := range []struct {
		name  string
		body  map[string]any
		field string
		part  string
	}{
		{
			name:  "old year",
			body:  igts.listingBody(map[string]any{"year": 1800}),
			field: "Year",
			part:  "failed on the 'caryear' tag",
		},
		{
			name:  "unknown fuel",
			body:  igts.listingBody(map[string]any{"fuel": "steam"}),
			field: "Fuel",
			part:  "failed on the 'oneof' tag",
		},
		{
			name:  "bad image",
			body:  igts.listingBody(map[string]any{"images": []string{"x"}}),
			field: "Images[0]",
			part:  "failed on the 'url' tag",
		},
	} {
		igts.Run(tc.name, func() {
			res := map[string][]string{}
			code := igts.send(
				http.MethodPost, "/listings", dealer, tc.body, &res,
			)
			igts.Equal(http.StatusBadRequest, code)
			if igts.Len(res[tc.field], 1) {
				igts.Contains(res[tc.field][0], tc.part)
			}
		})
	}
	res := map[string][]string{}
	code := igts.send(
		http.MethodGet, "/listings/not-a-uuid", "", nil, &res,
	)
	igts.Equal(http.StatusBadRequest, code)
	igts.Equal([]string{"Path param id is not UUID."}, res["id"])
}

func (igts *IntegrationGinTestSuite) TestNotFound() {
	res := &struct{ Detail string }{}
	code := igts.send(
		http.MethodGet, "/listings/"+uuid.NewString(), "", nil, res,
	)
	igts.Equal(http.StatusNotFound, code)
	igts.NotEmpty(res.Detail)
}

func (igts *IntegrationGinTestSuite) listingBody(
	overrides map[string]any,
) map[string]any {
	b := map[string]any{
		"make":         "Honda",
		"model":        "City",
		"variant":      "VX",
		"year":         time.Now().Year() - 2,
		"price":        950000,
		"mileage":      18000,
		"fuel":         "petrol",
		"transmission": "manual",
		"body_type":    "sedan",
		"color":        "white",
		"city":         "Pune",
		"description":  "<b>Single</b> owner",
	}
	for k, v := range overrides {
		b[k] = v
	}
	return b
}

func (igts *IntegrationGinTestSuite) approvedDealer() string {
	dealerTok := igts.token(model.RoleDealer)
	d := &model.Dealer{}
	code := igts.send(http.MethodPost, "/dealers", dealerTok, map[string]any{
		"business_name": "Prime Motors",
		"email":         "sales@prime.example.com",
		"phone":         "+91-9800000000",
		"city":          "Pune",
	}, d)
	igts.Require().Equal(http.StatusCreated, code)
	igts.Equal(model.DealerPending, d.Status)

	code = igts.send(
		http.MethodPost, "/listings", dealerTok, igts.listingBody(nil), nil,
	)
	igts.Equal(http.StatusForbidden, code, "pending dealers cannot list")

	code = igts.send(
		http.MethodPatch, "/admin/dealers/"+d.ID.String(),
		igts.token(model.RoleAdmin),
		map[string]any{"status": "approved"}, d,
	)
	igts.Require().Equal(http.StatusOK, code)
	igts.Equal(model.DealerApproved, d.Status)
	return dealerTok
}

func (igts *IntegrationGinTestSuite) TestListingAndInquiryFlow() {
	dealerTok := igts.approvedDealer()
	l := &model.Listing{}
	code := igts.send(
		http.MethodPost, "/listings", dealerTok, igts.listingBody(nil), l,
	)
	igts.Require().Equal(http.StatusCreated, code)
	igts.Equal("Single owner", l.Description, "html must be stripped")

	page := &model.ListingPage{}
	code = igts.send(
		http.MethodGet, "/listings?make=honda&sort=price_asc", "", nil, page,
	)
	igts.Equal(http.StatusOK, code)
	igts.GreaterOrEqual(page.Total, int64(1))

	page = &model.ListingPage{}
	code = igts.send(
		http.MethodGet, "/listings?make=hondaa", "", nil, page,
	)
	igts.Equal(http.StatusOK, code)
	igts.Contains(page.Suggestions, "Honda")

	customer := igts.token(model.RoleCustomer)
	inq := &model.Inquiry{}
	code = igts.send(
		http.MethodPost, "/listings/"+l.ID.String()+"/inquiries", customer,
		map[string]any{
			"preferred_at": time.Now().Add(48 * time.Hour),
			"message":      "Is the price negotiable?",
		}, inq,
	)
	igts.Require().Equal(http.StatusCreated, code)
	igts.Equal(model.InquiryPending, inq.Status)

	code = igts.send(
		http.MethodPatch, "/inquiries/"+inq.ID.String(), dealerTok,
		map[string]any{"status": "confirmed"}, inq,
	)
	igts.Equal(http.StatusOK, code)
	igts.Equal(model.InquiryConfirmed, inq.Status)

	code = igts.send(
		http.MethodPatch, "/inquiries/"+inq.ID.String(), dealerTok,
		map[string]any{"status": "confirmed"}, nil,
	)
	igts.Equal(http.StatusConflict, code, "confirmed twice")

	code = igts.send(
		http.MethodDelete, "/listings/"+l.ID.String(), customer, nil, nil,
	)
	igts.Equal(http.StatusForbidden, code)
}

func (igts *IntegrationGinTestSuite) TestSettings() {
	admin := igts.token(model.RoleAdmin)
	res := &struct {
		Settings struct {
			Finance struct {
				AnnualRate *float64 `json:"annual_rate"`
			} `json:"finance"`
		} `json:"settings"`
	}{}
	code := igts.send(http.MethodPut, "/settings", admin, map[string]any{
		"finance": map[string]any{"annual_rate": 11.25},
	}, res)
	igts.Require().Equal(http.StatusOK, code)
	igts.Require().NotNil(res.Settings.Finance.AnnualRate)
	igts.Equal(11.25, *res.Settings.Finance.AnnualRate)

	emi := &struct {
		AnnualRate float64 `json:"annual_rate"`
	}{}
	code = igts.send(http.MethodPost, "/finance/emi", "", map[string]any{
		"price": 500000,
	}, emi)
	igts.Equal(http.StatusOK, code)
	igts.Equal(11.25, emi.AnnualRate, "reloaded default rate")

	code = igts.send(http.MethodPut, "/settings", admin, map[string]any{
		"finance": map[string]any{"annual_rate": 45},
	}, nil)
	igts.Equal(http.StatusBadRequest, code)
	code = igts.send(
		http.MethodPut, "/settings", igts.token(model.RoleDealer),
		map[string]any{}, nil,
	)
	igts.Equal(http.StatusForbidden, code)
}
