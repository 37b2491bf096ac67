package book

import (
	"strings"
	"testing"
)

func TestRootPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"README.md", ""},
		{"guide/setup.md", "../"},
		{"a/b/c.md", "../../"},
	}
	for _, tt := range tests {
		if got := RootPrefix(tt.path); got != tt.want {
			t.Errorf("RootPrefix(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestBook_Nav(t *testing.T) {
	t.Parallel()

	dir := writeBook(t, map[string]string{
		"README.md":      "# Home\n",
		"SUMMARY.md":     "* [Home](README.md)\n* [Guide](guide/index.md)\n    * [Setup](guide/setup.md#install)\n\n## More\n\n* Notes\n    * [Site](https://example.com)\n",
		"guide/index.md": "# Guide\n",
		"guide/setup.md": "# Setup\n",
	})
	b, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name         string
		current      string
		wantContains []string
	}{
		{
			name:    "from root",
			current: "README.md",
			wantContains: []string{
				`<li class="chapter active" data-level="1.1" data-path="index.html"><a href="index.html">Home</a></li>`,
				`<li class="chapter expandable" data-level="1.2" data-path="guide/index.html"><a href="guide/index.html">Guide</a>`,
				`<ul class="articles">`,
				`<a href="guide/setup.html#install">Setup</a>`,
				`<li class="divider"></li>`,
				`<li class="header">More</li>`,
				`<span class="chapter-title">Notes</span>`,
				`<a href="https://example.com" target="_blank">Site</a>`,
			},
		},
		{
			name:    "from nested page",
			current: "guide/setup.md",
			wantContains: []string{
				`<a href="../index.html">Home</a>`,
				`<a href="../guide/index.html">Guide</a>`,
				`<li class="chapter active" data-level="1.2.1" data-path="guide/setup.html"><a href="../guide/setup.html#install">Setup</a>`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := b.Nav(tt.current)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Nav(%q) missing %q\ngot: %s", tt.current, want, got)
				}
			}
		})
	}
}

func TestBook_NavEscapesTitles(t *testing.T) {
	t.Parallel()

	dir := writeBook(t, map[string]string{
		"README.md":  "# Home\n",
		"SUMMARY.md": "* [A &lt;b&gt; & C](README.md)\n",
	})
	b, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := b.Nav("README.md"); strings.Contains(got, "<b>") {
		t.Errorf("Nav() did not escape title: %s", got)
	}
}
