// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Listing validation bounds.
const (
	MinListingYear    = 1950
	MaxNameLength     = 64
	MaxCityLength     = 64
	MaxDescLength     = 5000
	MaxListingImages  = 20
	MaxImageURLLength = 2048
)

// FieldError reports an invalid field value.
type FieldError struct {
	Field  string
	Reason string
}

// Error returns the string representation of fe.
func (fe *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", fe.Field, fe.Reason)
}

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func checkLength(field, value string, minl, maxl int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n < minl || n > maxl {
		return fieldErr(field, "length must be in [%d, %d]", minl, maxl)
	}
	return nil
}

func checkOneOf(field, value string, valid []string) error {
	if !slices.Contains(valid, value) {
		return fieldErr(field, "%q is not one of %v", value, valid)
	}
	return nil
}

// MaxListingYear returns the latest acceptable model year at now.
// Next year models are sold before the year begins.
func MaxListingYear(now time.Time) int {
	return now.Year() + 1
}

// Validate checks the user provided fields of l, assuming that the
// current time is now.
func (l *Listing) Validate(now time.Time) error {
	if err := checkLength("make", l.Make, 1, MaxNameLength); err != nil {
		return err
	}
	if err := checkLength("model", l.Model, 1, MaxNameLength); err != nil {
		return err
	}
	if err := checkLength("variant", l.Variant, 0, MaxNameLength); err != nil {
		return err
	}
	if maxy := MaxListingYear(now); l.Year < MinListingYear || l.Year > maxy {
		return fieldErr("year", "must be in [%d, %d]", MinListingYear, maxy)
	}
	if !(l.Price > 0) {
		return fieldErr("price", "must be positive")
	}
	if l.Mileage < 0 {
		return fieldErr("mileage", "must not be negative")
	}
	if err := checkOneOf("fuel", l.Fuel, Fuels); err != nil {
		return err
	}
	if err := checkOneOf("transmission", l.Transmission, Transmissions); err != nil {
		return err
	}
	if err := checkOneOf("body_type", l.BodyType, BodyTypes); err != nil {
		return err
	}
	if err := checkLength("city", l.City, 1, MaxCityLength); err != nil {
		return err
	}
	if err := checkLength("color", l.Color, 0, MaxNameLength); err != nil {
		return err
	}
	if err := checkLength("description", l.Description, 0, MaxDescLength); err != nil {
		return err
	}
	return validateImages(l.Images)
}

func validateImages(images []string) error {
	if len(images) > MaxListingImages {
		return fieldErr("images", "at most %d images are accepted", MaxListingImages)
	}
	for _, img := range images {
		if err := checkLength("images", img, 1, MaxImageURLLength); err != nil {
			return err
		}
		if !strings.HasPrefix(img, "https://") && !strings.HasPrefix(img, "http://") {
			return fieldErr("images", "%q is not an http(s) URL", img)
		}
	}
	return nil
}

// Validate checks the non-nil fields of p.
func (p *ListingPatch) Validate() error {
	if p.Variant != nil {
		if err := checkLength("variant", *p.Variant, 0, MaxNameLength); err != nil {
			return err
		}
	}
	if p.Price != nil && !(*p.Price > 0) {
		return fieldErr("price", "must be positive")
	}
	if p.Mileage != nil && *p.Mileage < 0 {
		return fieldErr("mileage", "must not be negative")
	}
	if p.Color != nil {
		if err := checkLength("color", *p.Color, 0, MaxNameLength); err != nil {
			return err
		}
	}
	if p.City != nil {
		if err := checkLength("city", *p.City, 1, MaxCityLength); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := checkLength("description", *p.Description, 0, MaxDescLength); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if err := p.Status.Validate(); err != nil {
			return fieldErr("status", "%v", err)
		}
	}
	if p.Transmission != nil {
		if err := checkOneOf("transmission", *p.Transmission, Transmissions); err != nil {
			return err
		}
	}
	if p.Images != nil {
		return validateImages(p.Images)
	}
	return nil
}

// Validate checks the ranges and enumerated fields of f.
func (f *ListingFilter) Validate() error {
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return fieldErr("min_price", "must not be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fieldErr("min_price", "must not exceed max_price")
	}
	if f.MinYear != nil && f.MaxYear != nil && *f.MinYear > *f.MaxYear {
		return fieldErr("min_year", "must not exceed max_year")
	}
	if f.MaxMileage != nil && *f.MaxMileage < 0 {
		return fieldErr("max_mileage", "must not be negative")
	}
	if f.Fuel != "" {
		if err := checkOneOf("fuel", f.Fuel, Fuels); err != nil {
			return err
		}
	}
	if f.Transmission != "" {
		if err := checkOneOf("transmission", f.Transmission, Transmissions); err != nil {
			return err
		}
	}
	if f.BodyType != "" {
		if err := checkOneOf("body_type", f.BodyType, BodyTypes); err != nil {
			return err
		}
	}
	switch f.Sort {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortYearDesc,
		SortMileageAsc:
		return nil
	default:
		return fieldErr("sort", "unknown order %q", string(f.Sort))
	}
}
