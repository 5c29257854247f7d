// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package auth issues and verifies the HS256 signed bearer tokens
// which identify the callers of the REST API. The subject claim holds
// the user UUID, and the email and app_role claims complete the
// model.Principal of the caller.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/cerr"
	"github.com/momeni/car-market/pkg/core/model"
)

// MinSecretLength is the minimum acceptable HMAC secret length.
const MinSecretLength = 32

// Claims are the JWT claims of an access token.
type Claims struct {
	Email   string     `json:"email,omitempty"`
	AppRole model.Role `json:"app_role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies the access tokens with a shared secret.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// New creates a Tokens instance. The issuer is written in the issued
// tokens and is required from the verified tokens if it is non-empty.
func New(secret, issuer string, ttl time.Duration) (*Tokens, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf(
			"secret must have at least %d bytes", MinSecretLength,
		)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl (%v) is not positive", ttl)
	}
	return &Tokens{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for the p principal.
func (t *Tokens) Issue(p model.Principal) (string, error) {
	if err := p.Role.Validate(); err != nil {
		return "", err
	}
	now := t.now()
	claims := &Claims{
		Email:   p.Email,
		AppRole: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks the signature and expiry of the `token` string and
// returns its principal. All failures are authentication errors.
func (t *Tokens) Verify(token string) (*model.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		opts...,
	)
	if err != nil {
		return nil, cerr.Authentication(fmt.Errorf("invalid token: %w", err))
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, cerr.Authentication(
			fmt.Errorf("invalid subject: %w", err),
		)
	}
	if claims.AppRole == "" {
		claims.AppRole = model.RoleCustomer
	}
	if err := claims.AppRole.Validate(); err != nil {
		return nil, cerr.Authentication(
			errors.Join(errors.New("invalid app_role"), err),
		)
	}
	return &model.Principal{
		UserID: id,
		Role:   claims.AppRole,
		Email:  claims.Email,
	}, nil
}
