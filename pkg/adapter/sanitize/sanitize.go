// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sanitize adapts the bluemonday HTML sanitizer policies to
// the sanitizer.Sanitizer port of the use cases layer.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Policy wraps a bluemonday policy. Policies are safe for concurrent
// use once they are built.
type Policy struct {
	p *bluemonday.Policy
}

// Strict returns a Policy which removes all HTML elements, keeping
// their text contents. It fits chat messages.
func Strict() *Policy {
	return &Policy{p: bluemonday.StrictPolicy()}
}

// Rich returns a Policy which keeps a small set of formatting
// elements for the listing descriptions. Links may only use the
// http(s) schemes and are opened in a new tab without a referrer.
func Rich() *Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "ul", "ol", "li", "strong", "em", "b", "i",
	)
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.AllowRelativeURLs(false)
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &Policy{p: p}
}

// Sanitize returns s without any disallowed markup. Surrounding
// whitespaces are trimmed too.
func (sp *Policy) Sanitize(s string) string {
	return strings.TrimSpace(sp.p.Sanitize(s))
}
