// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mail_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/momeni/car-market/pkg/adapter/mail"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var (
	_ notify.Mailer = (*mail.HTTPMailer)(nil)
	_ notify.Mailer = (*mail.LogMailer)(nil)
)

func priceAlert() *model.Mail {
	return &model.Mail{
		To:       "buyer@example.com",
		Subject:  "Price drop",
		Template: model.MailPriceAlert,
		Data: map[string]any{
			"Listing": model.Listing{
				Year: 2019, Make: "Honda", Model: "City <VX>",
				Price: 640000,
			},
			"Target": 650000.0,
		},
	}
}

func TestRenderEscapesData(t *testing.T) {
	r, err := mail.NewRenderer()
	require.NoError(t, err)
	html, err := r.Render(priceAlert())
	require.NoError(t, err)
	assert.Contains(t, html, "2019 Honda City &lt;VX&gt;")
	assert.Contains(t, html, "640000.00")
	assert.Contains(t, html, "650000.00")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := mail.NewRenderer()
	require.NoError(t, err)
	_, err = r.Render(&model.Mail{Template: "missing"})
	assert.Error(t, err)
}

func TestHTTPMailerPostsRenderedEmail(t *testing.T) {
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/emails", r.URL.Path)
			assert.Equal(t, "Bearer k3y", r.Header.Get("Authorization"))
			got, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"msg-1"}`))
		},
	))
	defer srv.Close()
	r, err := mail.NewRenderer()
	require.NoError(t, err)
	hm, err := mail.NewHTTPMailer(
		r, srv.URL+"/", "k3y", "noreply@example.com",
		mail.WithTimeout(time.Second),
	)
	require.NoError(t, err)
	require.NoError(t, hm.Send(context.Background(), priceAlert()))
	assert.Equal(t, "noreply@example.com", gjson.GetBytes(got, "from").String())
	assert.Equal(t, "buyer@example.com", gjson.GetBytes(got, "to.0").String())
	assert.Equal(t, "Price drop", gjson.GetBytes(got, "subject").String())
	assert.Contains(t, gjson.GetBytes(got, "html").String(), "Honda")
}

func TestHTTPMailerReportsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
		},
	))
	defer srv.Close()
	r, err := mail.NewRenderer()
	require.NoError(t, err)
	hm, err := mail.NewHTTPMailer(r, srv.URL, "bad", "noreply@example.com")
	require.NoError(t, err)
	err = hm.Send(context.Background(), priceAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewHTTPMailerValidation(t *testing.T) {
	r, err := mail.NewRenderer()
	require.NoError(t, err)
	_, err = mail.NewHTTPMailer(r, "", "k", "a@b.c")
	assert.Error(t, err)
	_, err = mail.NewHTTPMailer(r, "http://x", "", "a@b.c")
	assert.Error(t, err)
	_, err = mail.NewHTTPMailer(r, "http://x", "k", "a@b.c", mail.WithTimeout(0))
	assert.Error(t, err)
}
