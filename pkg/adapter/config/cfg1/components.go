// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/momeni/car-market/pkg/adapter/auth"
	"github.com/momeni/car-market/pkg/adapter/config/settings"
	"github.com/momeni/car-market/pkg/adapter/jobs"
	"github.com/momeni/car-market/pkg/adapter/mail"
	"github.com/momeni/car-market/pkg/adapter/restful/gin"
	"github.com/momeni/car-market/pkg/adapter/restful/gin/middleware"
	"github.com/momeni/car-market/pkg/core/notify"
	"github.com/robfig/cron/v3"
)

// Gin contains the gin-gonic related configuration settings.
type Gin struct {
	Logger   *bool  // Whether to register the gin.Logger() middleware
	Recovery *bool  // Whether to register the gin.Recovery() middleware
	Address  string `yaml:",omitempty"` // listening address, like :8080
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

func (g *Gin) validateAndNormalize() {
	settings.Nil2Zero(&g.Logger)
	settings.Nil2Zero(&g.Recovery)
	if g.Address == "" {
		g.Address = ":8080"
	}
}

// Auth contains the bearer tokens settings.
type Auth struct {
	// Secret is the HMAC key of tokens. It is usually passed by the
	// CMWEB_JWT_SECRET environment variable instead.
	Secret string `yaml:",omitempty"`

	// Issuer is written in the issued tokens and is expected from the
	// verified tokens if it is not empty.
	Issuer string `yaml:",omitempty"`

	// TokenTTL is the lifetime of the tokens which are issued by the
	// `cmweb token` command.
	TokenTTL *settings.Duration `yaml:"token-ttl,omitempty"`
}

// NewTokens creates the tokens issuer and verifier.
func (a Auth) NewTokens() (*auth.Tokens, error) {
	return auth.New(a.Secret, a.Issuer, time.Duration(*a.TokenTTL))
}

func (a *Auth) validateAndNormalize() error {
	if len(a.Secret) < auth.MinSecretLength {
		return fmt.Errorf(
			"jwt secret must have at least %d bytes",
			auth.MinSecretLength,
		)
	}
	if a.TokenTTL == nil {
		d := settings.Duration(24 * time.Hour)
		a.TokenTTL = &d
	}
	if *a.TokenTTL <= 0 {
		return fmt.Errorf("token-ttl must be positive")
	}
	return nil
}

// Mail contains the transactional email settings.
type Mail struct {
	// Enabled selects the HTTP email API. Otherwise, emails are only
	// rendered and logged.
	Enabled *bool

	BaseURL string `yaml:"base-url,omitempty"`
	From    string `yaml:",omitempty"`

	// APIKey is usually passed by the CMWEB_MAIL_API_KEY environment
	// variable instead.
	APIKey string `yaml:"api-key,omitempty"`

	Timeout *settings.Duration `yaml:",omitempty"`
}

// NewMailer creates the configured mailer.
func (m Mail) NewMailer() (notify.Mailer, error) {
	r, err := mail.NewRenderer()
	if err != nil {
		return nil, err
	}
	if !*m.Enabled {
		return mail.NewLogMailer(r), nil
	}
	return mail.NewHTTPMailer(
		r, m.BaseURL, m.APIKey, m.From,
		mail.WithTimeout(time.Duration(*m.Timeout)),
	)
}

func (m *Mail) validateAndNormalize() error {
	settings.Nil2Zero(&m.Enabled)
	if m.Timeout == nil {
		d := settings.Duration(10 * time.Second)
		m.Timeout = &d
	}
	if !*m.Enabled {
		return nil
	}
	switch {
	case m.BaseURL == "":
		return fmt.Errorf("mail base-url is required")
	case m.From == "":
		return fmt.Errorf("mail sender address is required")
	case m.APIKey == "":
		return fmt.Errorf("mail api-key is required")
	case *m.Timeout <= 0:
		return fmt.Errorf("mail timeout must be positive")
	}
	return nil
}

// RateLimit contains the per-client request rate limits.
type RateLimit struct {
	PerMinute *int `yaml:"per-minute,omitempty"`
	Burst     *int `yaml:",omitempty"`
}

// NewLimiter creates the rate limiting middleware state.
func (r RateLimit) NewLimiter() (*middleware.RateLimiter, error) {
	return middleware.NewRateLimiter(*r.PerMinute, *r.Burst, 10*time.Minute)
}

func (r *RateLimit) validateAndNormalize() error {
	if r.PerMinute == nil {
		n := 120
		r.PerMinute = &n
	}
	if r.Burst == nil {
		n := 40
		r.Burst = &n
	}
	if *r.PerMinute < 1 || *r.Burst < 1 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}

// Jobs contains the background jobs schedules in the cron format.
type Jobs struct {
	AlertsSchedule string             `yaml:"alerts-schedule,omitempty"`
	PruneSchedule  string             `yaml:"prune-schedule,omitempty"`
	Retention      *settings.Duration `yaml:",omitempty"`
}

// Config converts the `j` settings to the scheduler settings.
func (j Jobs) Config() jobs.Config {
	return jobs.Config{
		AlertsSchedule: j.AlertsSchedule,
		PruneSchedule:  j.PruneSchedule,
		Retention:      time.Duration(*j.Retention),
	}
}

func (j *Jobs) validateAndNormalize() error {
	if j.AlertsSchedule == "" {
		j.AlertsSchedule = "@every 15m"
	}
	if j.PruneSchedule == "" {
		j.PruneSchedule = "@daily"
	}
	if j.Retention == nil {
		d := settings.Duration(30 * 24 * time.Hour)
		j.Retention = &d
	}
	for _, s := range []string{j.AlertsSchedule, j.PruneSchedule} {
		if _, err := cron.ParseStandard(s); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", s, err)
		}
	}
	if *j.Retention <= 0 {
		return fmt.Errorf("notifications retention must be positive")
	}
	return nil
}

// Logger contains the structured logging settings.
type Logger struct {
	Format string `yaml:",omitempty"` // json (default) or text
	Level  string `yaml:",omitempty"` // debug, info (default), warn, error
}

// NewHandler creates a slog.Handler which writes to w.
func (l Logger) NewHandler(w io.Writer) (slog.Handler, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	opts := &slog.HandlerOptions{AddSource: true, Level: level}
	switch l.Format {
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	case "text":
		return slog.NewTextHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %q", l.Format)
	}
}

func (l *Logger) validateAndNormalize() error {
	l.Format = strings.ToLower(l.Format)
	if l.Format == "" {
		l.Format = "json"
	}
	if l.Level == "" {
		l.Level = "info"
	}
	_, err := l.NewHandler(io.Discard)
	return err
}
