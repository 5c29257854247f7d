// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cerr

import (
	"fmt"

	"github.com/momeni/car-market/pkg/core/model"
)

// MismatchingSemVerError reports that the first semantic version was
// expected, but the second one was found. It is returned when stored
// settings belong to another configuration format version.
type MismatchingSemVerError [2]model.SemVer

// Error makes *MismatchingSemVerError an error.
func (msve *MismatchingSemVerError) Error() string {
	return fmt.Sprintf(
		"expected v%s, but got v%s", msve[0].String(), msve[1].String(),
	)
}
