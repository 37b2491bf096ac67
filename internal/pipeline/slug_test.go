package pipeline

import "testing"

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"words", "Hello World", "hello-world"},
		{"periods dropped", "API v2.0", "api-v20"},
		{"surrounding spaces", "  Leading  ", "leading"},
		{"punctuation collapses", "C++ & Go", "c-go"},
		{"underscore kept", "snake_case name", "snake_case-name"},
		{"hyphens collapse", "a -- b", "a-b"},
		{"japanese kept", "日本語の見出し", "日本語の見出し"},
		{"fullwidth space", "概要　詳細", "概要-詳細"},
		{"accents kept", "Émile Zola", "émile-zola"},
		{"digits", "Step 3: Deploy", "step-3-deploy"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	t.Parallel()

	first := Slugify("Same Heading")
	second := Slugify("Same Heading")
	if first != second {
		t.Errorf("Slugify not deterministic: %q vs %q", first, second)
	}
}
