// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/model"
)

type InquiriesConnQueryer interface {
	InquiriesQueryer
}

type InquiriesTxQueryer interface {
	InquiriesQueryer
}

type InquiriesQueryer interface {
	Create(ctx context.Context, i *model.Inquiry) (*model.Inquiry, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Inquiry, error)
	ListByCustomer(
		ctx context.Context, customerID uuid.UUID, p model.Page,
	) ([]model.Inquiry, error)
	ListByDealer(
		ctx context.Context,
		dealerID uuid.UUID,
		status *model.InquiryStatus,
		p model.Page,
	) ([]model.Inquiry, error)

	// UpdateStatus is a compare-and-swap of the inquiry status, so
	// concurrent transitions of one inquiry cannot both succeed.
	UpdateStatus(
		ctx context.Context, id uuid.UUID, from, to model.InquiryStatus,
	) (*model.Inquiry, error)
}

type Inquiries interface {
	Conn(Conn) InquiriesConnQueryer
	Tx(Tx) InquiriesTxQueryer
}
