// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/car-market/pkg/core/log"
	"github.com/momeni/car-market/pkg/core/model"
	"github.com/tidwall/gjson"
)

// HTTPMailer posts the rendered emails to the emails endpoint of a
// transactional email HTTP API, authenticating with a bearer key.
type HTTPMailer struct {
	r       *Renderer
	client  *http.Client
	baseURL string
	apiKey  string
	from    string
}

// Option is a functional option for the HTTPMailer.
type Option func(hm *HTTPMailer) error

// WithHTTPClient option replaces the default HTTP client, having the
// default timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(hm *HTTPMailer) error {
		if c == nil {
			return errors.New("http client is nil")
		}
		hm.client = c
		return nil
	}
}

// WithTimeout option configures the timeout of each API request.
func WithTimeout(d time.Duration) Option {
	return func(hm *HTTPMailer) error {
		if d <= 0 {
			return fmt.Errorf("timeout (%v) is not positive", d)
		}
		hm.client = &http.Client{Timeout: d}
		return nil
	}
}

// NewHTTPMailer creates an HTTPMailer. Emails are sent from the `from`
// address by posting them to baseURL/emails.
func NewHTTPMailer(
	r *Renderer, baseURL, apiKey, from string, opts ...Option,
) (*HTTPMailer, error) {
	switch {
	case baseURL == "":
		return nil, errors.New("base URL is empty")
	case apiKey == "":
		return nil, errors.New("api key is empty")
	case from == "":
		return nil, errors.New("sender address is empty")
	}
	hm := &HTTPMailer{
		r:       r,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
	}
	for _, opt := range opts {
		if err := opt(hm); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if hm.client == nil {
		hm.client = &http.Client{Timeout: 10 * time.Second}
	}
	return hm, nil
}

type payload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send renders m and posts it. Non-2xx responses are reported as
// errors, including a prefix of the response body.
func (hm *HTTPMailer) Send(ctx context.Context, m *model.Mail) error {
	if m.To == "" {
		return errors.New("recipient address is empty")
	}
	html, err := hm.r.Render(m)
	if err != nil {
		return err
	}
	b, err := json.Marshal(payload{
		From:    hm.from,
		To:      []string{m.To},
		Subject: m.Subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, hm.baseURL+"/emails", bytes.NewReader(b),
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+hm.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := hm.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting email: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > 256 {
			body = body[:256]
		}
		return fmt.Errorf(
			"email API responded %d: %s", resp.StatusCode, body,
		)
	}
	log.Info(
		ctx, "email is sent",
		slog.String("to", m.To),
		slog.String("template", string(m.Template)),
		slog.String("id", gjson.GetBytes(body, "id").String()),
	)
	return nil
}
