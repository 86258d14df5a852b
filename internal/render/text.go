// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// linkPolicy allows only the anchors produced by messageHTML.
var linkPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}()

// messageHTML renders visitor text for the admin views: the text is escaped,
// bare http(s) URLs become links and the result is passed through linkPolicy.
func messageHTML(s string) template.HTML {
	var sb strings.Builder
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(s, -1) {
		start, end := loc[0], loc[1]
		for end > start && strings.ContainsRune(".,;:!?)", rune(s[end-1])) {
			end--
		}
		sb.WriteString(html.EscapeString(s[last:start]))
		u := html.EscapeString(s[start:end])
		sb.WriteString(`<a href="` + u + `">` + u + `</a>`)
		last = end
	}
	sb.WriteString(html.EscapeString(s[last:]))

	return template.HTML(linkPolicy.Sanitize(sb.String()))
}
