// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QuoteKind identifies the estimator which produced a finance quote.
type QuoteKind string

// Known quote kinds.
const (
	QuoteEMI       QuoteKind = "emi"
	QuoteTradeIn   QuoteKind = "tradein"
	QuoteLoan      QuoteKind = "loan"
	QuoteBreakdown QuoteKind = "breakdown"
)

// FinanceQuote is a saved financial estimator run. Input and Result
// keep the JSON representations of the estimator request and response.
type FinanceQuote struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	ListingID *uuid.UUID      `json:"listing_id,omitempty"`
	Kind      QuoteKind       `json:"kind"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}
