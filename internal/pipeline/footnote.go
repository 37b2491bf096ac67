package pipeline

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

// FootnoteSentinelPrefix starts the token that stands in for a footnote
// reference between preprocessing and HTML post-processing. The text
// "%%FNREF_" is reserved: book content must not contain it.
const FootnoteSentinelPrefix = "%%FNREF_"

const footnoteSentinelSuffix = "%%"

// footnoteIndent is prepended to footnote continuation lines.
const footnoteIndent = "    "

// footnoteRenderer renders the continuation lines of a footnote definition
// through a reduced grammar: tables and strikethrough only.
type footnoteRenderer struct {
	soft goldmark.Markdown
	hard goldmark.Markdown
}

func newFootnoteRenderer() *footnoteRenderer {
	return &footnoteRenderer{
		soft: newContinuationMarkdown(false),
		hard: newContinuationMarkdown(true),
	}
}

func newContinuationMarkdown(hardWraps bool) goldmark.Markdown {
	opts := []goldmark.Option{
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	}
	if hardWraps {
		opts = append(opts, goldmark.WithRendererOptions(goldhtml.WithUnsafe(), goldhtml.WithHardWraps()))
	} else {
		opts = append(opts, goldmark.WithRendererOptions(goldhtml.WithUnsafe()))
	}
	return goldmark.New(opts...)
}

// IndentFootnoteContinuations indents every line that follows a footnote
// definition start ("[^label]: ...") by four spaces, so lists written flush
// left still belong to the footnote. A blank line, another definition or a
// heading ends the footnote region.
func IndentFootnoteContinuations(content string) string {
	lines := strings.Split(content, "\n")
	inFootnote := false

	for i, line := range lines {
		if strings.HasPrefix(line, "[^") && strings.Contains(line, "]:") {
			inFootnote = true
			continue
		}
		if !inFootnote {
			continue
		}

		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			inFootnote = false
		case isDefinitionLine(trimmed):
		default:
			lines[i] = footnoteIndent + line
		}
	}

	return strings.Join(lines, "\n")
}

// InlineDefinitions replaces every footnote definition, in place, with a
// blockquote anchored at fn_<label>. The first line is kept verbatim and
// followed by a back-link to the reference; continuation lines are rendered
// through the reduced grammar and appended after it.
func (f *footnoteRenderer) InlineDefinitions(content string, hardbreaks bool) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		label, first, ok := parseDefinitionStart(lines[i])
		if !ok {
			out = append(out, lines[i])
			i++
			continue
		}
		first = strings.TrimRightFunc(first, unicode.IsSpace)

		i++
		var continuation []string
		for ; i < len(lines); i++ {
			if endsFootnote(lines[i]) {
				break
			}
			continuation = append(continuation, lines[i])
		}

		backLink := fmt.Sprintf(`<a href="#reffn_%s" title="Jump back to footnote [%s] in the text."> ↩</a>`, label, label)
		if len(continuation) == 0 {
			out = append(out, fmt.Sprintf(`<blockquote id="fn_%s"><sup>%s</sup>. %s%s</blockquote>`, label, label, first, backLink))
		} else {
			body := f.renderContinuation(continuation, hardbreaks)
			out = append(out, fmt.Sprintf("<blockquote id=\"fn_%s\"><sup>%s</sup>. %s%s\n%s</blockquote>", label, label, first, backLink, body))
		}

		// The fragment opens an HTML block that only a blank line closes; a
		// heading ending the region must not be swallowed by it.
		if i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			out = append(out, "")
		}
	}

	return strings.Join(out, "\n")
}

// renderContinuation dedents the lines by their common indentation and
// renders them. Relative indentation, such as nested lists, survives.
func (f *footnoteRenderer) renderContinuation(lines []string, hardbreaks bool) string {
	source := strings.Join(dedent(lines), "\n")

	md := f.soft
	if hardbreaks {
		md = f.hard
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return html.EscapeString(source)
	}
	return strings.TrimSpace(buf.String())
}

func dedent(lines []string) []string {
	minIndent := -1
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		if indent := len(line) - len(trimmed); minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return lines
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= minIndent && strings.TrimSpace(line[:minIndent]) == "" {
			out[i] = line[minIndent:]
		} else {
			out[i] = strings.TrimLeftFunc(line, unicode.IsSpace)
		}
	}
	return out
}

// parseDefinitionStart splits "[^label]: content" into its label and the
// content after the colon. Leading whitespace before the bracket is allowed.
func parseDefinitionStart(line string) (label, content string, ok bool) {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	rest, ok := strings.CutPrefix(trimmed, "[^")
	if !ok {
		return "", "", false
	}
	label, content, ok = strings.Cut(rest, "]:")
	if !ok {
		return "", "", false
	}
	return label, strings.TrimLeftFunc(content, unicode.IsSpace), true
}

func isDefinitionLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "[^") && strings.Contains(trimmed, "]:")
}

func endsFootnote(line string) bool {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	return trimmed == "" || isDefinitionLine(trimmed) || strings.HasPrefix(trimmed, "#")
}

// ProtectFootnoteReferences replaces each "[^label]" reference with a
// sentinel before parsing, so "[A][^1]" is not read as a reference-style
// link. A label must be non-empty letters and digits, and a following ':'
// marks a definition, which is left alone.
func ProtectFootnoteReferences(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	for i := 0; i < len(content); {
		label, n, ok := footnoteReferenceAt(content[i:])
		if !ok {
			b.WriteByte(content[i])
			i++
			continue
		}
		b.WriteString(footnoteSentinel(label))
		i += n
	}

	return b.String()
}

// footnoteReferenceAt reports whether s starts with a footnote reference and
// returns its label and byte length.
func footnoteReferenceAt(s string) (label string, n int, ok bool) {
	rest, found := strings.CutPrefix(s, "[^")
	if !found {
		return "", 0, false
	}
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return "", 0, false
	}
	label = rest[:end]
	if strings.HasPrefix(rest[end+1:], ":") || !isFootnoteLabel(label) {
		return "", 0, false
	}
	return label, len("[^") + end + 1, true
}

func isFootnoteLabel(label string) bool {
	if label == "" {
		return false
	}
	for _, r := range label {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func footnoteSentinel(label string) string {
	return FootnoteSentinelPrefix + label + footnoteSentinelSuffix
}

// BlankFootnoteDefinitions replaces each footnote definition region, found
// the way InlineDefinitions finds it, with one blank line. The heading
// extractor parses the result, so definitions never turn into link
// reference definitions and headings after them stay headings.
func BlankFootnoteDefinitions(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		if _, _, ok := parseDefinitionStart(lines[i]); !ok {
			out = append(out, lines[i])
			i++
			continue
		}
		i++
		for i < len(lines) && !endsFootnote(lines[i]) {
			i++
		}
		out = append(out, "")
	}

	return strings.Join(out, "\n")
}

// stripFootnoteReferences removes footnote sentinels and raw "[^label]"
// references from heading text, so both heading passes see the same text.
func stripFootnoteReferences(s string) string {
	if !strings.Contains(s, "%%") && !strings.Contains(s, "[^") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if _, n, ok := footnoteReferenceAt(s[i:]); ok {
			i += n
			continue
		}
		if rest, ok := strings.CutPrefix(s[i:], FootnoteSentinelPrefix); ok {
			if end := strings.Index(rest, footnoteSentinelSuffix); end >= 0 {
				i += len(FootnoteSentinelPrefix) + end + len(footnoteSentinelSuffix)
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// ResolveFootnotePlaceholders turns each sentinel back into a superscript
// link to fn_<label>, anchored at reffn_<label>. Repeated references to one
// label produce repeated ids.
func ResolveFootnotePlaceholders(htmlContent string) string {
	if !strings.Contains(htmlContent, FootnoteSentinelPrefix) {
		return htmlContent
	}

	var b strings.Builder
	b.Grow(len(htmlContent))

	rest := htmlContent
	for {
		start := strings.Index(rest, FootnoteSentinelPrefix)
		if start < 0 {
			break
		}
		after := rest[start+len(FootnoteSentinelPrefix):]
		end := strings.Index(after, footnoteSentinelSuffix)
		if end < 0 {
			break
		}
		label := after[:end]
		b.WriteString(rest[:start])
		fmt.Fprintf(&b, `<sup><a href="#fn_%s" id="reffn_%s">%s</a></sup>`, label, label, label)
		rest = after[end+len(footnoteSentinelSuffix):]
	}
	b.WriteString(rest)

	return b.String()
}
