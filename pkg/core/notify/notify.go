// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package notify defines the outgoing notification ports of the use
// cases. Transactional emails are sent by a Mailer and freshly created
// admin notifications are pushed to live subscribers by a Publisher.
//
// Both ports are invoked after the relevant database transaction is
// committed. Their failures are logged by the use cases and never roll
// back a committed operation.
package notify

import (
	"context"
	"log/slog"

	"github.com/momeni/car-market/pkg/core/log"
	"github.com/momeni/car-market/pkg/core/model"
)

// Mailer sends transactional emails.
type Mailer interface {
	Send(ctx context.Context, m *model.Mail) error
}

// Publisher pushes admin notifications to the live subscribers.
// Publish must not block on slow subscribers.
type Publisher interface {
	Publish(n *model.Notification)
}

// Mail sends m using mailer and logs a warning if it fails.
// A nil mailer disables email delivery.
func Mail(ctx context.Context, mailer Mailer, m *model.Mail) {
	if mailer == nil {
		return
	}
	if err := mailer.Send(ctx, m); err != nil {
		log.Warn(
			ctx, "failed to send email",
			slog.String("template", string(m.Template)),
			slog.String("to", m.To),
			log.Err("err", err),
		)
	}
}

// Nop is a Publisher which drops all notifications.
type Nop struct{}

// Publish ignores n.
func (Nop) Publish(*model.Notification) {}
