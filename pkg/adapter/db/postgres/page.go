// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"github.com/momeni/car-market/pkg/core/model"
	"gorm.io/gorm"
)

// Paginate applies the normalized limit and offset of `p` to gdb.
func Paginate(gdb *gorm.DB, p model.Page) *gorm.DB {
	p = p.Normalize()
	return gdb.Limit(p.Limit).Offset(p.Offset)
}
