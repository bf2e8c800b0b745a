package slug

import "testing"

// TestGenerate exercises the slug generator across typical post and
// category names, punctuation, and boundary inputs.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Typical titles ---
		{
			name:  "simple two words",
			input: "Hello World",
			want:  "hello-world",
		},
		{
			name:  "category with ampersand",
			input: "Health & Wellness",
			want:  "health-wellness",
		},
		{
			name:  "already a slug",
			input: "my-first-post",
			want:  "my-first-post",
		},
		{
			name:  "single word",
			input: "Travel",
			want:  "travel",
		},
		{
			name:  "title with year",
			input: "Best Reads of 2026",
			want:  "best-reads-of-2026",
		},

		// --- Punctuation ---
		{
			name:  "apostrophes and question mark",
			input: "What's New? A Reader's Guide",
			want:  "whats-new-a-readers-guide",
		},
		{
			name:  "colon separated title",
			input: "Notely: Getting Started",
			want:  "notely-getting-started",
		},
		{
			name:  "parentheses",
			input: "Sourdough (Part 2)",
			want:  "sourdough-part-2",
		},
		{
			name:  "hash and dollar",
			input: "Issue #42 costs $100",
			want:  "issue-42-costs-100",
		},
		{
			name:  "version dots collapse",
			input: "Version 2.0.1",
			want:  "version-201",
		},

		// --- Whitespace and hyphens ---
		{
			name:  "surrounding spaces trimmed",
			input: "  hello world  ",
			want:  "hello-world",
		},
		{
			name:  "consecutive spaces collapse",
			input: "A B  C!",
			want:  "a-b-c",
		},
		{
			name:  "existing hyphen preserved",
			input: "well-known fact",
			want:  "well-known-fact",
		},
		{
			name:  "hyphen runs collapse",
			input: "hello---world",
			want:  "hello-world",
		},
		{
			name:  "leading and trailing hyphens trimmed",
			input: "--hello world--",
			want:  "hello-world",
		},

		// --- Degenerate inputs ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "!@#$%^&*()",
			want:  "",
		},
		{
			name:  "only spaces",
			input: "   ",
			want:  "",
		},
		{
			name:  "only hyphens",
			input: "---",
			want:  "",
		},
		{
			name:  "single character",
			input: "A",
			want:  "a",
		},
		{
			name:  "numbers only",
			input: "2026-02-25",
			want:  "2026-02-25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that running the generator over its own
// output changes nothing, so stored slugs can be regenerated safely.
func TestGenerate_Idempotent(t *testing.T) {
	slugs := []string{
		"hello-world",
		"health-wellness",
		"a",
		"123",
	}

	for _, s := range slugs {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result %q", s, got, s)
			}
		})
	}
}

// TestGenerate_ConsistentCase verifies slugs are lowercase regardless of
// input casing, so lookups by slug never depend on how a title was typed.
func TestGenerate_ConsistentCase(t *testing.T) {
	inputs := []string{
		"HELLO WORLD",
		"Hello World",
		"hElLo WoRlD",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if got := Generate(input); got != "hello-world" {
				t.Errorf("Generate(%q) = %q, want %q", input, got, "hello-world")
			}
		})
	}
}
