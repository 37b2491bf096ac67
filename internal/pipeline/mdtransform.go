package pipeline

import (
	"regexp"
	"strings"
	"unicode"
)

// fullwidthSpace is the ideographic space that Japanese input methods insert
// after heading markers. CommonMark does not accept it as the separator.
const fullwidthSpace = '　'

// Line ending normalization.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(content string, hardbreaks bool) string
}

// BookPreprocessor rewrites book markdown into something goldmark parses the
// way the book toolchain expects. Each step is a text-to-text function and the
// order is fixed:
//
//  0. line ending normalization
//  1. fullwidth heading-space fix
//  2. image-path space escaping
//  3. multiline footnote indentation
//  4. footnote definition inlining
//  5. footnote reference placeholders
type BookPreprocessor struct {
	footnotes *footnoteRenderer
}

// NewBookPreprocessor creates a BookPreprocessor with its footnote
// continuation renderer.
func NewBookPreprocessor() *BookPreprocessor {
	return &BookPreprocessor{footnotes: newFootnoteRenderer()}
}

// PreprocessMarkdown applies all rewrites in order.
func (p *BookPreprocessor) PreprocessMarkdown(content string, hardbreaks bool) string {
	content = normalizeLineEndings(content)
	content = FixFullwidthHeadingSpaces(content)
	content = EscapeImagePathSpaces(content)
	content = IndentFootnoteContinuations(content)
	content = p.footnotes.InlineDefinitions(content, hardbreaks)
	content = ProtectFootnoteReferences(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// FixFullwidthHeadingSpaces turns "##　見出し" into "## 見出し" so the line is
// recognized as a heading. Leading whitespace and the heading text are kept.
func FixFullwidthHeadingSpaces(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = fixHeadingLine(line)
	}
	return strings.Join(lines, "\n")
}

func fixHeadingLine(line string) string {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	hashes := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
	if hashes == 0 || hashes > 6 {
		return line
	}

	rest, ok := strings.CutPrefix(trimmed[hashes:], string(fullwidthSpace))
	if !ok {
		return line
	}
	lead := line[:len(line)-len(trimmed)]
	return lead + trimmed[:hashes] + " " + rest
}

// EscapeImagePathSpaces wraps image destinations that contain spaces in angle
// brackets: ![alt](a b.png) becomes ![alt](<a b.png>). Alt text may nest
// brackets and the destination may nest parentheses. Unbalanced syntax is
// copied through untouched.
func EscapeImagePathSpaces(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	for i := 0; i < len(content); {
		if !strings.HasPrefix(content[i:], "![") {
			b.WriteByte(content[i])
			i++
			continue
		}

		altEnd, ok := matchClosing(content, i+2, '[', ']')
		if !ok {
			b.WriteString(content[i:])
			break
		}
		b.WriteString(content[i : altEnd+1])
		i = altEnd + 1

		if i >= len(content) || content[i] != '(' {
			continue
		}
		urlEnd, ok := matchClosing(content, i+1, '(', ')')
		if !ok {
			continue
		}

		url := content[i+1 : urlEnd]
		if strings.Contains(url, " ") && !strings.HasPrefix(url, "<") {
			url = "<" + url + ">"
		}
		b.WriteByte('(')
		b.WriteString(url)
		b.WriteByte(')')
		i = urlEnd + 1
	}

	return b.String()
}

// matchClosing returns the index of the delimiter closing the one opened just
// before start, honoring nesting.
func matchClosing(s string, start int, open, closing byte) (int, bool) {
	depth := 1
	for j := start; j < len(s); j++ {
		switch s[j] {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return j, true
			}
		}
	}
	return -1, false
}
