// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"errors"
	"fmt"
	"slices"

	"github.com/momeni/car-market/pkg/core/model"
)

// ErrUnauthenticated indicates that an operation needs a principal.
var ErrUnauthenticated = errors.New("authentication is required")

// RequireRole returns an authentication error if p is nil and an
// authorization error if p has none of the given roles.
// With no roles, any authenticated principal is accepted.
func RequireRole(p *model.Principal, roles ...model.Role) error {
	if p == nil {
		return Authentication(ErrUnauthenticated)
	}
	if len(roles) == 0 || slices.Contains(roles, p.Role) {
		return nil
	}
	return Authorization(fmt.Errorf("role %q is not permitted", p.Role))
}
