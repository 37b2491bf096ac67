package pipeline

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading levels listed in a page table of contents.
const (
	MinTOCLevel = 2
	MaxTOCLevel = 4
)

// Heading is one entry of a page table of contents.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// HeadingExtractor lists the level 2 to 4 headings of a markdown page with
// the same ids the converter assigns.
type HeadingExtractor struct {
	md goldmark.Markdown
}

// NewHeadingExtractor creates a HeadingExtractor. Only the parser is used.
func NewHeadingExtractor() *HeadingExtractor {
	return &HeadingExtractor{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.TaskList,
			),
			goldmark.WithParserOptions(parser.WithHeadingAttribute()),
		),
	}
}

// Extract returns the headings in document order. Headings inside block
// quotes and lists count too. Levels 1, 5 and 6 are skipped.
func (e *HeadingExtractor) Extract(content string) []Heading {
	source := headingSource(content)
	doc := e.md.Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level >= MinTOCLevel && h.Level <= MaxTOCLevel {
			title := headingText(h, source)
			headings = append(headings, Heading{
				Level: h.Level,
				Text:  title,
				ID:    Slugify(title),
			})
		}
		return ast.WalkSkipChildren, nil
	})

	return headings
}

// Title returns the text of the first level 1 heading, or "" when the page
// has none.
func (e *HeadingExtractor) Title(content string) string {
	source := headingSource(content)
	doc := e.md.Parser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			if h.Level == 1 {
				title = headingText(h, source)
				return ast.WalkStop, nil
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// headingSource applies the text rewrites that decide what a heading
// contains in the render pass: heading markers, image paths and footnote
// definitions. References are left for headingText to strip.
func headingSource(content string) []byte {
	content = FixFullwidthHeadingSpaces(normalizeLineEndings(content))
	content = EscapeImagePathSpaces(content)
	return []byte(BlankFootnoteDefinitions(content))
}
