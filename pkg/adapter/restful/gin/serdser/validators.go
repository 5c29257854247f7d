// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package serdser

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/car-market/pkg/core/model"
)

var registerOnce struct {
	sync.Once
	err error
}

// RegisterValidators adds the custom binding tags to the validator
// of gin. It may be called many times.
//
//   - caryear accepts an integer model year of a listing.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerOnce.err = errors.New("gin validator is unknown")
			return
		}
		registerOnce.err = v.RegisterValidation("caryear", carYear)
	})
	return registerOnce.err
}

func carYear(fl validator.FieldLevel) bool {
	y := int(fl.Field().Int())
	return y >= model.MinListingYear && y <= model.MaxListingYear(time.Now())
}
