package pipeline

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alnah/go-guidebook/internal/fileutil"
)

// HTMLPostprocessor defines the contract for rewriting rendered HTML.
type HTMLPostprocessor interface {
	PostprocessHTML(htmlContent, currentPath string) string
}

// BookPostprocessor applies the HTML rewrites in a fixed order:
//
//  1. .md links become .html
//  2. bare URLs become links
//  3. markdown images left inside raw HTML become <img>
//  4. footnote sentinels become reference links
//  5. book-root-relative hrefs are rebased on the page depth
type BookPostprocessor struct{}

// PostprocessHTML runs every rewrite. currentPath is the page path relative
// to the book root; when empty the root-relative rewrite is skipped.
func (p *BookPostprocessor) PostprocessHTML(htmlContent, currentPath string) string {
	htmlContent = FixMarkdownLinks(htmlContent)
	htmlContent = AutolinkURLs(htmlContent)
	htmlContent = ConvertResidualImages(htmlContent)
	htmlContent = ResolveFootnotePlaceholders(htmlContent)
	if currentPath != "" {
		htmlContent = RewriteRootRelativeLinks(htmlContent, currentPath)
	}
	return htmlContent
}

// Substring replacement over the whole document, not only inside href.
var markdownLinkReplacer = strings.NewReplacer(
	`.md"`, `.html"`,
	`.md#`, `.html#`,
	`.md'`, `.html'`,
)

// FixMarkdownLinks points links at the generated .html pages.
func FixMarkdownLinks(htmlContent string) string {
	return markdownLinkReplacer.Replace(htmlContent)
}

// Characters trimmed from the end of a bare URL and re-emitted after the link.
const urlTrailingPunctuation = ".,;:)!?"

// tagState tracks whether the scanner sits inside <code>/<pre> or <a>.
type tagState struct {
	inCode   bool
	inAnchor bool
}

// update reads a complete tag such as "<code class=x>" or "</a>".
func (s *tagState) update(tag string) {
	switch tagName(tag) {
	case "code", "pre":
		s.inCode = true
	case "/code", "/pre":
		s.inCode = false
	case "a":
		s.inAnchor = true
	case "/a":
		s.inAnchor = false
	}
}

// tagName returns the lowercased element name of a tag, with a leading '/'
// for closing tags.
func tagName(tag string) string {
	name, closing := strings.CutPrefix(strings.TrimPrefix(tag, "<"), "/")
	end := strings.IndexFunc(name, func(r rune) bool {
		return r == '>' || r == '/' || unicode.IsSpace(r)
	})
	if end >= 0 {
		name = name[:end]
	}
	name = strings.ToLower(name)
	if closing {
		return "/" + name
	}
	return name
}

// nextTag returns the tag starting at s[i] (which must be '<'), up to and
// including the closing '>', or the rest of s when unterminated.
func nextTag(s string, i int) string {
	end := strings.IndexByte(s[i:], '>')
	if end < 0 {
		return s[i:]
	}
	return s[i : i+end+1]
}

// AutolinkURLs wraps bare http:// and https:// URLs in
// <a href="URL" target="_blank">. Tags are copied as-is, and text inside
// <code>, <pre> or an existing <a> is never linked.
func AutolinkURLs(htmlContent string) string {
	var b strings.Builder
	b.Grow(len(htmlContent))

	var state tagState
	for i := 0; i < len(htmlContent); {
		c := htmlContent[i]
		if c == '<' {
			tag := nextTag(htmlContent, i)
			b.WriteString(tag)
			state.update(tag)
			i += len(tag)
			continue
		}

		if state.inCode || state.inAnchor || !fileutil.IsURL(htmlContent[i:]) || insideAttribute(&b) {
			b.WriteByte(c)
			i++
			continue
		}

		end := urlEnd(htmlContent, i)
		url := strings.TrimRight(htmlContent[i:end], urlTrailingPunctuation)
		fmt.Fprintf(&b, `<a href="%s" target="_blank">%s</a>`, url, url)
		b.WriteString(htmlContent[i+len(url) : end])
		i = end
	}

	return b.String()
}

func insideAttribute(b *strings.Builder) bool {
	out := b.String()
	return strings.HasSuffix(out, `href="`) || strings.HasSuffix(out, `src="`)
}

// urlEnd returns the index just past a URL starting at start. A URL ends at
// whitespace, '<', '>', '"' or '\''.
func urlEnd(s string, start int) int {
	i := start
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsSpace(r) || strings.ContainsRune(`<>"'`, r) {
			break
		}
		i += size
	}
	return i
}

// ConvertResidualImages converts ![alt](url) that goldmark left untouched,
// typically inside raw HTML blocks, to <img src="url" alt="alt">. Code is
// skipped. "![alt]" without a destination and unbalanced brackets are copied
// through.
func ConvertResidualImages(htmlContent string) string {
	if !strings.Contains(htmlContent, "![") {
		return htmlContent
	}

	var b strings.Builder
	b.Grow(len(htmlContent))

	var state tagState
	for i := 0; i < len(htmlContent); {
		c := htmlContent[i]
		if c == '<' {
			tag := nextTag(htmlContent, i)
			b.WriteString(tag)
			state.update(tag)
			i += len(tag)
			continue
		}

		if state.inCode || !strings.HasPrefix(htmlContent[i:], "![") {
			b.WriteByte(c)
			i++
			continue
		}

		altEnd, ok := matchClosing(htmlContent, i+2, '[', ']')
		if !ok {
			b.WriteString(htmlContent[i:])
			break
		}
		alt := htmlContent[i+2 : altEnd]

		if altEnd+1 >= len(htmlContent) || htmlContent[altEnd+1] != '(' {
			b.WriteString(htmlContent[i : altEnd+1])
			i = altEnd + 1
			continue
		}
		urlEnd, ok := matchClosing(htmlContent, altEnd+2, '(', ')')
		if !ok {
			b.WriteString(htmlContent[i : altEnd+1])
			i = altEnd + 1
			continue
		}

		url := htmlContent[altEnd+2 : urlEnd]
		fmt.Fprintf(&b, `<img src="%s" alt="%s">`, url, alt)
		i = urlEnd + 1
	}

	return b.String()
}

// Prefixes of href values that RewriteRootRelativeLinks leaves alone.
var nonRootRelativePrefixes = []string{
	"http://", "https://", "#", "../", "./", "/", "mailto:", "javascript:",
}

// RewriteRootRelativeLinks prefixes book-root-relative hrefs with one "../"
// per directory of currentPath, so "a/b.html" linked from
// "x/y/page.md" becomes "../../a/b.html".
func RewriteRootRelativeLinks(htmlContent, currentPath string) string {
	depth := PathDepth(currentPath)
	if depth == 0 {
		return htmlContent
	}
	prefix := strings.Repeat("../", depth)

	const attr = `href="`
	var b strings.Builder
	b.Grow(len(htmlContent))

	rest := htmlContent
	for {
		pos := strings.Index(rest, attr)
		if pos < 0 {
			break
		}
		valueStart := pos + len(attr)
		valueLen := strings.IndexByte(rest[valueStart:], '"')
		if valueLen < 0 {
			break
		}
		value := rest[valueStart : valueStart+valueLen]

		b.WriteString(rest[:valueStart])
		if isRootRelative(value) {
			b.WriteString(prefix)
		}
		b.WriteString(value)
		b.WriteByte('"')
		rest = rest[valueStart+valueLen+1:]
	}
	b.WriteString(rest)

	return b.String()
}

func isRootRelative(href string) bool {
	if href == "" {
		return false
	}
	for _, p := range nonRootRelativePrefixes {
		if strings.HasPrefix(href, p) {
			return false
		}
	}
	return true
}

// PathDepth returns the number of directories above a book-root-relative
// path: 0 for "README.md", 2 for "a/b/page.md".
func PathDepth(p string) int {
	dir := path.Dir(strings.TrimPrefix(filepath.ToSlash(p), "/"))
	if dir == "." || dir == "/" {
		return 0
	}
	return strings.Count(dir, "/") + 1
}
