// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package market contains the in-memory computations of the car
// marketplace which do not depend on any storage. It aggregates the
// analytics dashboards, compares listings, and suggests car makes for
// misspelled search terms.
package market

import (
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"github.com/momeni/car-market/pkg/core/model"
)

// DashboardMonths is the number of calendar months, including the
// current one, which are reported in the admin dashboard.
const DashboardMonths = 12

// AdminDashboard aggregates the given grouped counts as an admin
// dashboard. Makes are sorted by their count and only the topN of them
// are kept. The inquiries are reported for the last DashboardMonths
// months up to now, filling the missing months with zero.
func AdminDashboard(
	profiles, dealers, listings, makes []model.Count,
	months []model.MonthCount,
	now time.Time,
	topN int,
) *model.AdminDashboard {
	d := &model.AdminDashboard{
		ProfilesByRole:   toMap(profiles),
		DealersByStatus:  toMap(dealers),
		ListingsByStatus: toMap(listings),
		TopMakes:         topCounts(makes, topN),
	}
	byMonth := make(map[time.Time]int64, len(months))
	for _, mc := range months {
		byMonth[monthOf(mc.Month)] += mc.Count
	}
	first := MonthsSince(now)
	for i := 0; i < DashboardMonths; i++ {
		m := first.AddDate(0, i, 0)
		d.InquiriesPerMonth = append(d.InquiriesPerMonth, model.MonthCount{
			Month: m, Count: byMonth[m],
		})
	}
	return d
}

// MonthsSince returns the first instant of the earliest month which is
// reported in the admin dashboard when it is computed at now.
func MonthsSince(now time.Time) time.Time {
	return monthOf(now).AddDate(0, 1-DashboardMonths, 0)
}

func monthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func toMap(cs []model.Count) map[string]int64 {
	m := make(map[string]int64, len(cs))
	for _, c := range cs {
		m[c.Key] += c.Count
	}
	return m
}

func topCounts(cs []model.Count, n int) []model.Count {
	merged := make(map[string]int64, len(cs))
	for _, c := range cs {
		merged[strings.ToLower(c.Key)] += c.Count
	}
	out := make([]model.Count, 0, len(merged))
	for k, v := range merged {
		out = append(out, model.Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DealerDashboard computes the conversion rate of each listing (as the
// ratio of its inquiries to its views) and summarizes them. The topN
// listings with most views are reported as top listings.
func DealerDashboard(
	stats []model.ListingStats, active int64, topN int,
) *model.DealerDashboard {
	d := &model.DealerDashboard{
		ActiveListings: active,
		Listings:       make([]model.ListingStats, 0, len(stats)),
	}
	for _, s := range stats {
		if s.Views > 0 {
			s.Conversion = float64(s.Inquiries) / float64(s.Views)
		}
		d.TotalViews += s.Views
		d.TotalInquiries += s.Inquiries
		d.Listings = append(d.Listings, s)
	}
	top := make([]model.ListingStats, len(d.Listings))
	copy(top, d.Listings)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Views != top[j].Views {
			return top[i].Views > top[j].Views
		}
		return top[i].Inquiries > top[j].Inquiries
	})
	if topN >= 0 && len(top) > topN {
		top = top[:topN]
	}
	d.TopListings = top
	return d
}

// Compare puts the given listings side by side and highlights the
// cheapest, the least driven, and the newest ones. Ties are broken
// in favor of the earlier listing.
func Compare(ls []model.Listing) *model.Comparison {
	c := &model.Comparison{
		Listings:   ls,
		Highlights: make(map[string]uuid.UUID, 3),
	}
	if len(ls) == 0 {
		return c
	}
	price, mileage, year := 0, 0, 0
	for i := 1; i < len(ls); i++ {
		if ls[i].Price < ls[price].Price {
			price = i
		}
		if ls[i].Mileage < ls[mileage].Mileage {
			mileage = i
		}
		if ls[i].Year > ls[year].Year {
			year = i
		}
	}
	c.Highlights["price"] = ls[price].ID
	c.Highlights["mileage"] = ls[mileage].ID
	c.Highlights["year"] = ls[year].ID
	return c
}

// MaxSuggestionDistance is the maximum edit distance between a search
// term and a suggested make.
const MaxSuggestionDistance = 2

// SuggestMakes returns the known makes which are within the
// MaxSuggestionDistance edit distance of the term, nearest first.
// Comparison is case-insensitive. An exact match yields no suggestion
// because the term needs no correction.
func SuggestMakes(term string, makes []string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	type candidate struct {
		make string
		dist int
	}
	var cs []candidate
	seen := make(map[string]bool, len(makes))
	for _, m := range makes {
		lm := strings.ToLower(m)
		if seen[lm] {
			continue
		}
		seen[lm] = true
		d := levenshtein.ComputeDistance(term, lm)
		if d == 0 {
			return nil
		}
		if d <= MaxSuggestionDistance {
			cs = append(cs, candidate{make: m, dist: d})
		}
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].dist != cs[j].dist {
			return cs[i].dist < cs[j].dist
		}
		return cs[i].make < cs[j].make
	})
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.make)
	}
	return out
}
