// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package mail implements the notify.Mailer port. Emails are rendered
// from the embedded HTML templates and either posted to a
// transactional email HTTP API or just logged (when email delivery
// is disabled, e.g., in development).
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/momeni/car-market/pkg/core/log"
	"github.com/momeni/car-market/pkg/core/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer renders the transactional email templates.
type Renderer struct {
	t *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing mail templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

// Render executes the m.Template template with the m.Data fields and
// returns the resulting HTML body.
func (r *Renderer) Render(m *model.Mail) (string, error) {
	name := string(m.Template) + ".html"
	if r.t.Lookup(name) == nil {
		return "", fmt.Errorf("unknown mail template %q", m.Template)
	}
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, m.Data); err != nil {
		return "", fmt.Errorf("rendering %q: %w", m.Template, err)
	}
	return buf.String(), nil
}

// LogMailer renders emails and logs them instead of sending.
type LogMailer struct {
	r *Renderer
}

// NewLogMailer creates a LogMailer which renders emails with r.
func NewLogMailer(r *Renderer) *LogMailer {
	return &LogMailer{r: r}
}

// Send renders m so template errors are still reported, and then
// logs its recipient and subject.
func (lm *LogMailer) Send(ctx context.Context, m *model.Mail) error {
	html, err := lm.r.Render(m)
	if err != nil {
		return err
	}
	log.Info(
		ctx, "email delivery is disabled, logging it",
		slog.String("to", m.To),
		slog.String("subject", m.Subject),
		slog.String("template", string(m.Template)),
		slog.Int("size", len(html)),
	)
	return nil
}
