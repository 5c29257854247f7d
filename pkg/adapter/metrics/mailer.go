// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package metrics

import (
	"context"

	"github.com/momeni/car-market/pkg/core/model"
	"github.com/momeni/car-market/pkg/core/notify"
)

type countingMailer struct {
	notify.Mailer
	c *Collector
}

// Mailer wraps m and counts its successful and failed deliveries.
func (c *Collector) Mailer(m notify.Mailer) notify.Mailer {
	return countingMailer{Mailer: m, c: c}
}

func (cm countingMailer) Send(ctx context.Context, m *model.Mail) error {
	err := cm.Mailer.Send(ctx, m)
	cm.c.RecordMail(string(m.Template), err)
	return err
}
