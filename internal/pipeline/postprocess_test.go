package pipeline

// Notes:
// - Post-processing works on goldmark output, so inputs are HTML fragments
//   shaped like what the converter produces
// - The scanners do not parse HTML; malformed tags are copied through and
//   not exercised beyond the unterminated case

import "testing"

// ---------------------------------------------------------------------------
// TestFixMarkdownLinks
// ---------------------------------------------------------------------------

func TestFixMarkdownLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"double quoted", `<a href="intro.md">`, `<a href="intro.html">`},
		{"with fragment", `<a href="guide/setup.md#install">`, `<a href="guide/setup.html#install">`},
		{"single quoted", `<a href='intro.md'>`, `<a href='intro.html'>`},
		{"other extension", `<a href="notes.markdown">`, `<a href="notes.markdown">`},
		{"text mention", `<p>edit README.md today</p>`, `<p>edit README.md today</p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FixMarkdownLinks(tt.input); got != tt.want {
				t.Errorf("FixMarkdownLinks(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestAutolinkURLs
// ---------------------------------------------------------------------------

func TestAutolinkURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare url",
			input: "<p>Visit https://example.com today</p>",
			want:  `<p>Visit <a href="https://example.com" target="_blank">https://example.com</a> today</p>`,
		},
		{
			name:  "http url",
			input: "<p>http://example.com/a?b=1</p>",
			want:  `<p><a href="http://example.com/a?b=1" target="_blank">http://example.com/a?b=1</a></p>`,
		},
		{
			name:  "trailing period outside link",
			input: "<p>See https://example.com.</p>",
			want:  `<p>See <a href="https://example.com" target="_blank">https://example.com</a>.</p>`,
		},
		{
			name:  "in parentheses",
			input: "<p>(https://example.com)</p>",
			want:  `<p>(<a href="https://example.com" target="_blank">https://example.com</a>)</p>`,
		},
		{
			name:  "existing link not doubled",
			input: `<p><a href="https://example.com">https://example.com</a></p>`,
			want:  `<p><a href="https://example.com">https://example.com</a></p>`,
		},
		{
			name:  "inline code skipped",
			input: "<p><code>https://example.com</code></p>",
			want:  "<p><code>https://example.com</code></p>",
		},
		{
			name:  "code block skipped",
			input: "<pre><code>curl https://example.com\n</code></pre>",
			want:  "<pre><code>curl https://example.com\n</code></pre>",
		},
		{
			name:  "image src untouched",
			input: `<img src="https://example.com/a.png" alt="x">`,
			want:  `<img src="https://example.com/a.png" alt="x">`,
		},
		{
			name:  "text after code linked",
			input: "<p><code>x</code> https://a.io</p>",
			want:  `<p><code>x</code> <a href="https://a.io" target="_blank">https://a.io</a></p>`,
		},
		{
			name:  "url before tag",
			input: "<td>https://a.io</td>",
			want:  `<td><a href="https://a.io" target="_blank">https://a.io</a></td>`,
		},
		{
			name:  "no url",
			input: "<p>nothing here</p>",
			want:  "<p>nothing here</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AutolinkURLs(tt.input); got != tt.want {
				t.Errorf("AutolinkURLs(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTagName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want string
	}{
		{"<code>", "code"},
		{`<code class="language-go">`, "code"},
		{"</PRE>", "/pre"},
		{"<a href=x>", "a"},
		{"<abbr>", "abbr"},
		{"<br/>", "br"},
		{"</a >", "/a"},
	}

	for _, tt := range tests {
		if got := tagName(tt.tag); got != tt.want {
			t.Errorf("tagName(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestConvertResidualImages
// ---------------------------------------------------------------------------

func TestConvertResidualImages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "inside raw html",
			input: "<div>![logo](img/logo.png)</div>",
			want:  `<div><img src="img/logo.png" alt="logo"></div>`,
		},
		{
			name:  "inside table cell",
			input: "<td>![図](images/図1.png)</td>",
			want:  `<td><img src="images/図1.png" alt="図"></td>`,
		},
		{
			name:  "code skipped",
			input: "<code>![x](y.png)</code>",
			want:  "<code>![x](y.png)</code>",
		},
		{
			name:  "no destination kept",
			input: "<p>![alt] only</p>",
			want:  "<p>![alt] only</p>",
		},
		{
			name:  "unclosed kept",
			input: "<p>![unclosed</p>",
			want:  "<p>![unclosed</p>",
		},
		{
			name:  "unclosed destination kept",
			input: "<p>![a](b</p>",
			want:  "<p>![a](b</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ConvertResidualImages(tt.input); got != tt.want {
				t.Errorf("ConvertResidualImages(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRewriteRootRelativeLinks
// ---------------------------------------------------------------------------

func TestRewriteRootRelativeLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		currentPath string
		want        string
	}{
		{"depth one", `<a href="other.html">`, "guide/page.md", `<a href="../other.html">`},
		{"depth two", `<a href="a/b.html">`, "x/y/page.md", `<a href="../../a/b.html">`},
		{"root page unchanged", `<a href="other.html">`, "README.md", `<a href="other.html">`},
		{"absolute url kept", `<a href="https://x.io">`, "a/p.md", `<a href="https://x.io">`},
		{"fragment kept", `<a href="#top">`, "a/p.md", `<a href="#top">`},
		{"parent kept", `<a href="../x.html">`, "a/p.md", `<a href="../x.html">`},
		{"dot slash kept", `<a href="./x.html">`, "a/p.md", `<a href="./x.html">`},
		{"rooted kept", `<a href="/x.html">`, "a/p.md", `<a href="/x.html">`},
		{"mailto kept", `<a href="mailto:me@x.io">`, "a/p.md", `<a href="mailto:me@x.io">`},
		{"empty kept", `<a href="">`, "a/p.md", `<a href="">`},
		{"src untouched", `<img src="x.png">`, "a/p.md", `<img src="x.png">`},
		{
			name:        "several links",
			input:       `<a href="a.html">A</a> <a href="#b">B</a> <a href="c.html">C</a>`,
			currentPath: "d/p.md",
			want:        `<a href="../a.html">A</a> <a href="#b">B</a> <a href="../c.html">C</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RewriteRootRelativeLinks(tt.input, tt.currentPath); got != tt.want {
				t.Errorf("RewriteRootRelativeLinks(%q, %q) = %q, want %q", tt.input, tt.currentPath, got, tt.want)
			}
		})
	}
}

func TestPathDepth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want int
	}{
		{"", 0},
		{"README.md", 0},
		{"guide/page.md", 1},
		{"a/b/c.md", 2},
		{"/a/b.md", 1},
	}

	for _, tt := range tests {
		if got := PathDepth(tt.path); got != tt.want {
			t.Errorf("PathDepth(%q) = %d, want %d", tt.path, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPostprocessHTML - Ordering
// ---------------------------------------------------------------------------

func TestPostprocessHTML(t *testing.T) {
	t.Parallel()

	post := &BookPostprocessor{}

	tests := []struct {
		name        string
		input       string
		currentPath string
		want        string
	}{
		{
			name:        "md link rebased after rename",
			input:       `<p><a href="intro.md">Intro</a></p>`,
			currentPath: "guide/page.md",
			want:        `<p><a href="../intro.html">Intro</a></p>`,
		},
		{
			name:        "autolink not rebased",
			input:       "<p>https://example.com</p>",
			currentPath: "guide/page.md",
			want:        `<p><a href="https://example.com" target="_blank">https://example.com</a></p>`,
		},
		{
			name:        "footnote anchors kept",
			input:       "<p>x%%FNREF_1%%</p>",
			currentPath: "guide/page.md",
			want:        `<p>x<sup><a href="#fn_1" id="reffn_1">1</a></sup></p>`,
		},
		{
			name:        "empty path skips rebasing",
			input:       `<a href="a/b.md">`,
			currentPath: "",
			want:        `<a href="a/b.html">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := post.PostprocessHTML(tt.input, tt.currentPath); got != tt.want {
				t.Errorf("PostprocessHTML(%q, %q) = %q, want %q", tt.input, tt.currentPath, got, tt.want)
			}
		})
	}
}
