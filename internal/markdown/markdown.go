// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts post bodies from Markdown into sanitized HTML.
// Bodies are author-supplied, so the rendered output is passed through a
// bluemonday UGC policy before it reaches API responses.
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // GitHub-Flavored Markdown: tables, strikethrough, autolinks, task lists
		extension.Typographer, // Smart quotes and dashes
		highlighting.NewHighlighting( // Syntax highlighting for fenced code blocks
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(), // Auto-generate heading IDs for anchors
	),
)

// ugcPolicy allows the formatting tags user content legitimately produces
// and strips everything else. Inline styles are permitted because the
// syntax highlighter emits them.
var ugcPolicy = bluemonday.UGCPolicy().AllowAttrs("style").OnElements("span", "pre", "code")

// ToHTML converts Markdown source into sanitized HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return ugcPolicy.Sanitize(buf.String()), nil
}

// strictPolicy strips all markup, for plain fields such as comment bodies
// that are rendered verbatim by the client.
var strictPolicy = bluemonday.StrictPolicy()

// Sanitize removes all HTML from the given string.
func Sanitize(s string) string {
	return strictPolicy.Sanitize(s)
}
