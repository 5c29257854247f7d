// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package middleware contains the gin handlers which run before the
// resources. They authenticate the callers, limit their request rates,
// and record the requests metrics.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/log"
	"github.com/momeni/car-market/pkg/core/model"
)

const principalKey = "cmweb.principal"

// TokenParam is the query parameter which may carry the access token
// of websocket clients, since browsers cannot set their headers.
const TokenParam = "access_token"

// ErrMalformedAuthorization is reported for non-bearer credentials.
var ErrMalformedAuthorization = errors.New(
	"authorization header must be a bearer token",
)

// TokenVerifier verifies an access token and returns its principal.
type TokenVerifier interface {
	Verify(token string) (*model.Principal, error)
}

// ProfileEnsurer creates the profile of a principal if it is missing.
type ProfileEnsurer interface {
	Me(ctx context.Context, who *model.Principal) (*model.Profile, error)
}

// Authenticator resolves the principal of each request. Requests
// without credentials proceed anonymously and the use cases decide if
// they need a principal, while invalid credentials are rejected.
type Authenticator struct {
	tokens   TokenVerifier
	profiles ProfileEnsurer

	// ensured holds the user IDs which have a profile already.
	ensured sync.Map
}

// NewAuthenticator creates an Authenticator. The profiles may be nil
// if no profile should be created for the authenticated users.
func NewAuthenticator(t TokenVerifier, p ProfileEnsurer) *Authenticator {
	return &Authenticator{tokens: t, profiles: p}
}

func bearer(c *gin.Context) (string, error) {
	h := c.GetHeader("Authorization")
	if h == "" {
		return c.Query(TokenParam), nil
	}
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrMalformedAuthorization
	}
	return strings.TrimSpace(token), nil
}

// Handler stores the verified principal of the request in the gin
// context, so it can be obtained by the Principal function.
func (a *Authenticator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearer(c)
		if err != nil {
			serdser.SerErr(c, cerr.Authentication(err))
			c.Abort()
			return
		}
		if token == "" {
			c.Next()
			return
		}
		p, err := a.tokens.Verify(token)
		if err != nil {
			serdser.SerErr(c, err)
			c.Abort()
			return
		}
		if err = a.ensureProfile(c, p); err != nil {
			serdser.SerErr(c, err)
			c.Abort()
			return
		}
		c.Set(principalKey, p)
		c.Request = c.Request.WithContext(log.With(
			c.Request.Context(),
			log.ID("user", p.UserID),
			slog.String("role", string(p.Role)),
		))
		c.Next()
	}
}

func (a *Authenticator) ensureProfile(
	ctx context.Context, p *model.Principal,
) error {
	if a.profiles == nil {
		return nil
	}
	if _, ok := a.ensured.Load(p.UserID); ok {
		return nil
	}
	if _, err := a.profiles.Me(ctx, p); err != nil {
		log.Error(ctx, "ensuring profile failed", log.Err("err", err))
		return err
	}
	a.ensured.Store(p.UserID, struct{}{})
	return nil
}

// Forget drops the cached profile existence of the userID user.
func (a *Authenticator) Forget(userID uuid.UUID) {
	a.ensured.Delete(userID)
}

// Principal returns the authenticated principal of c, or nil for
// anonymous requests.
func Principal(c *gin.Context) *model.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*model.Principal)
	return p
}

// RequireRole aborts the requests which are not made by one of the
// given roles. The use cases check the roles again; this handler is
// used for the routes which are not served by a use case, such as the
// notifications stream.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cerr.RequireRole(Principal(c), roles...); err != nil {
			serdser.SerErr(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
