package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains []string
		excludes []string
	}{
		{
			name:     "heading gets anchor id",
			source:   "# Getting Started",
			contains: []string{"<h1", `id="getting-started"`, "Getting Started"},
		},
		{
			name:     "emphasis and strong",
			source:   "This is *important* and **very important**.",
			contains: []string{"<em>important</em>", "<strong>very important</strong>"},
		},
		{
			name:     "gfm table",
			source:   "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "fenced code keeps code element",
			source:   "```go\nfmt.Println(\"hi\")\n```",
			contains: []string{"<code", "Println"},
		},
		{
			name:     "script tag stripped",
			source:   "hello <script>alert('x')</script> world",
			contains: []string{"hello", "world"},
			excludes: []string{"<script>", "alert"},
		},
		{
			name:     "links survive sanitization",
			source:   "[docs](https://example.com)",
			contains: []string{`href="https://example.com"`, "docs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.source)
			if err != nil {
				t.Fatalf("ToHTML error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("output contains %q, should be stripped:\n%s", bad, got)
				}
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "just a comment", "just a comment"},
		{"tags stripped", "<b>bold</b> move", "bold move"},
		{"script removed entirely", "hi <script>alert(1)</script>", "hi "},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
