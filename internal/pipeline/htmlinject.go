package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
)

// ErrCoverRender indicates the PDF cover template failed to execute.
var ErrCoverRender = errors.New("cover template rendering failed")

// insertAfterBody inserts fragment right after the opening <body ...> tag,
// or prepends it when the document has none.
func insertAfterBody(htmlContent, fragment string) string {
	lower := strings.ToLower(htmlContent)
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			pos := idx + closeIdx + 1
			return htmlContent[:pos] + fragment + htmlContent[pos:]
		}
	}
	return fragment + htmlContent
}

// insertBeforeBodyEnd inserts fragment before the last </body>, or appends it
// when the document has none.
func insertBeforeBodyEnd(htmlContent, fragment string) string {
	if idx := strings.LastIndex(strings.ToLower(htmlContent), "</body>"); idx != -1 {
		return htmlContent[:idx] + fragment + htmlContent[idx:]
	}
	return htmlContent + fragment
}

// CSSInjection injects the book stylesheet as a <style> block.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, after <body>, or at the
// start of the document, in that order of preference. "</" inside the CSS is
// escaped so it cannot close the element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	if idx := strings.Index(strings.ToLower(htmlContent), "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	return insertAfterBody(htmlContent, styleBlock)
}

func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// liveReloadScript polls the dev server once per second and reloads the page
// when the build version moves past the one the page was served with.
const liveReloadScript = `<script>
(function() {
  var version = %d;
  setInterval(function() {
    fetch('/__livereload?v=' + version)
      .then(function(r) { return r.json(); })
      .then(function(data) {
        if (data.reload) { location.reload(); }
      })
      .catch(function() {});
  }, 1000);
})();
</script>
`

// InjectLiveReload inserts the reload poller, seeded with version, before the
// closing </body> tag.
func InjectLiveReload(htmlContent string, version uint64) string {
	return insertBeforeBodyEnd(htmlContent, fmt.Sprintf(liveReloadScript, version))
}

// CoverData holds the PDF cover page fields, taken from the book config.
type CoverData struct {
	Title       string
	Author      string
	Description string
	Language    string
}

// CoverInjection renders the cover template at the top of the PDF document.
type CoverInjection struct {
	tmpl *template.Template
}

// NewCoverInjection parses the cover template.
func NewCoverInjection(tmplContent string) (*CoverInjection, error) {
	tmpl, err := template.New("cover").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing cover template: %w", err)
	}
	return &CoverInjection{tmpl: tmpl}, nil
}

// InjectCover renders data and inserts it after <body>. A nil data leaves
// the document unchanged.
func (c *CoverInjection) InjectCover(ctx context.Context, htmlContent string, data *CoverData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCoverRender, err)
	}
	return insertAfterBody(htmlContent, buf.String()), nil
}

// TOCData selects the headings listed in the PDF table of contents.
type TOCData struct {
	Title    string
	MinDepth int
	MaxDepth int
}

// headingPattern matches h1-h6 with an id attribute.
// Captures: 1=level, 2=id, 3=inner HTML.
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Marker the cover template closes with; the TOC goes right after it.
var coverEndPattern = regexp.MustCompile(`(?i)<span[^>]*data-cover-end[^>]*>\s*</span>`)

// stripHTMLTags returns the decoded text of an HTML fragment, so it is not
// escaped twice when written into the TOC.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// extractHTMLHeadings returns the headings of a rendered document between
// minDepth and maxDepth. Headings without an id are skipped.
func extractHTMLHeadings(htmlContent string, minDepth, maxDepth int) []Heading {
	var headings []Heading
	for _, m := range headingPattern.FindAllStringSubmatch(htmlContent, -1) {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth || m[2] == "" {
			continue
		}
		headings = append(headings, Heading{Level: level, ID: m[2], Text: stripHTMLTags(m[3])})
	}
	return headings
}

// numberingState produces "1.", "1.2.", ... for successive headings. The
// shallowest level seen first becomes depth 1 and skipped levels nest only
// one step deeper than their parent.
type numberingState struct {
	counters     [6]int
	minLevelSeen int
	lastDepth    int
}

func (n *numberingState) next(level int) (number string, depth int) {
	if n.minLevelSeen == 0 {
		n.minLevelSeen = level
	}

	depth = max(level-n.minLevelSeen+1, 1)
	if n.lastDepth > 0 && depth > n.lastDepth+1 {
		depth = n.lastDepth + 1
	}

	for i := depth; i < len(n.counters); i++ {
		n.counters[i] = 0
	}
	n.counters[depth-1]++
	n.lastDepth = depth

	parts := make([]string, depth)
	for i := range depth {
		parts[i] = strconv.Itoa(n.counters[i])
	}
	return strings.Join(parts, ".") + ".", depth
}

// generateNumberedTOC renders headings as a flat list of indented <div>s.
func generateNumberedTOC(headings []Heading, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(`<nav class="toc">`)
	if title != "" {
		fmt.Fprintf(&buf, `<h1 class="toc-title">%s</h1>`, html.EscapeString(title))
	}
	buf.WriteString(`<div class="toc-list">`)

	var numbering numberingState
	for _, h := range headings {
		num, depth := numbering.next(h.Level)
		buf.WriteString(`<div class="toc-item"`)
		if depth > 1 {
			fmt.Fprintf(&buf, ` style="padding-left:%.1fem"`, float64(depth-1)*1.5)
		}
		fmt.Fprintf(&buf, `><a href="#%s">%s %s</a></div>`,
			html.EscapeString(h.ID), num, html.EscapeString(h.Text))
	}

	buf.WriteString(`</div></nav>`)
	return buf.String()
}

// TOCInjection builds the numbered PDF table of contents.
type TOCInjection struct{}

// InjectTOC lists the document headings after the cover marker, or after
// <body> when there is no cover. A nil data or a document without headings
// is returned unchanged.
func (t *TOCInjection) InjectTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tocHTML := generateNumberedTOC(extractHTMLHeadings(htmlContent, data.MinDepth, data.MaxDepth), data.Title)
	if tocHTML == "" {
		return htmlContent, nil
	}

	if loc := coverEndPattern.FindStringIndex(htmlContent); loc != nil {
		return htmlContent[:loc[1]] + tocHTML + htmlContent[loc[1]:], nil
	}
	return insertAfterBody(htmlContent, tocHTML), nil
}
