// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/auth"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type profiles struct {
	calls atomic.Int32
	err   error
}

func (p *profiles) Me(
	_ context.Context, who *model.Principal,
) (*model.Profile, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return &model.Profile{ID: who.UserID, Role: who.Role}, nil
}

type recorder struct {
	route  string
	status int
}

func (r *recorder) RecordRequest(
	_, route string, status int, _ time.Duration,
) {
	r.route, r.status = route, status
}

func newTokens(t *testing.T) *auth.Tokens {
	t.Helper()
	tokens, err := auth.New(
		"0123456789abcdef0123456789abcdef", "cmweb", time.Hour,
	)
	require.NoError(t, err)
	return tokens
}

func engine(a *Authenticator, extra ...gin.HandlerFunc) *gin.Engine {
	e := gin.New()
	e.Use(a.Handler())
	e.Use(extra...)
	e.GET("/whoami", func(c *gin.Context) {
		p := Principal(c)
		if p == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": p.UserID, "role": p.Role})
	})
	return e
}

func get(e http.Handler, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	e.ServeHTTP(w, req)
	return w
}

func TestAuthenticatorAcceptsBearerTokens(t *testing.T) {
	tokens := newTokens(t)
	ps := &profiles{}
	e := engine(NewAuthenticator(tokens, ps))
	id := uuid.New()
	token, err := tokens.Issue(model.Principal{
		UserID: id, Role: model.RoleDealer, Email: "d@example.com",
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		w := get(e, "Bearer "+token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id.String(), gjson.Get(w.Body.String(), "user").String())
		assert.Equal(t, "dealer", gjson.Get(w.Body.String(), "role").String())
	}
	assert.Equal(t, int32(1), ps.calls.Load(), "profile must be cached")
}

func TestAuthenticatorAllowsAnonymousRequests(t *testing.T) {
	e := engine(NewAuthenticator(newTokens(t), nil))
	w := get(e, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gjson.Get(w.Body.String(), "anonymous").Bool())
}

func TestAuthenticatorRejectsInvalidCredentials(t *testing.T) {
	e := engine(NewAuthenticator(newTokens(t), nil))
	for _, h := range []string{"Basic abc", "Bearer", "Bearer garbage"} {
		w := get(e, h)
		assert.Equal(t, http.StatusUnauthorized, w.Code, h)
		assert.NotEmpty(t, gjson.Get(w.Body.String(), "detail").String())
	}
}

func TestAuthenticatorReportsProfileFailures(t *testing.T) {
	tokens := newTokens(t)
	ps := &profiles{err: errors.New("db is down")}
	e := engine(NewAuthenticator(tokens, ps))
	token, err := tokens.Issue(model.Principal{
		UserID: uuid.New(), Role: model.RoleCustomer,
	})
	require.NoError(t, err)
	w := get(e, "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireRole(t *testing.T) {
	tokens := newTokens(t)
	e := gin.New()
	e.Use(NewAuthenticator(tokens, nil).Handler())
	e.GET("/admin", RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	call := func(p *model.Principal) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if p != nil {
			token, err := tokens.Issue(*p)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		e.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusUnauthorized, call(nil))
	assert.Equal(t, http.StatusForbidden, call(&model.Principal{
		UserID: uuid.New(), Role: model.RoleCustomer,
	}))
	assert.Equal(t, http.StatusNoContent, call(&model.Principal{
		UserID: uuid.New(), Role: model.RoleAdmin,
	}))
}

func TestRateLimiterHandler(t *testing.T) {
	rl, err := NewRateLimiter(60, 2, time.Minute)
	require.NoError(t, err)
	rec := &recorder{}
	e := engine(
		NewAuthenticator(newTokens(t), nil), Metrics(rec), rl.Handler(),
	)
	assert.Equal(t, http.StatusOK, get(e, "").Code)
	assert.Equal(t, http.StatusOK, get(e, "").Code)
	w := get(e, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "/whoami", rec.route)
	assert.Equal(t, http.StatusTooManyRequests, rec.status)
}

func TestRateLimiterForgetsIdleKeys(t *testing.T) {
	rl, err := NewRateLimiter(60, 1, time.Minute)
	require.NoError(t, err)
	now := time.Now()
	rl.now = func() time.Time { return now }
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, 2, rl.Len())

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("a"), "bucket must be refilled")
	assert.Equal(t, 1, rl.Len(), "idle b key must be swept")
}

func TestNewRateLimiterValidation(t *testing.T) {
	_, err := NewRateLimiter(0, 1, time.Minute)
	assert.Error(t, err)
	_, err = NewRateLimiter(1, 0, time.Minute)
	assert.Error(t, err)
	_, err = NewRateLimiter(1, 1, 0)
	assert.Error(t, err)
}
