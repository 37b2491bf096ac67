package guidebook

import (
	"fmt"

	"github.com/alnah/go-guidebook/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.BookPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.HTMLPostprocessor    = (*pipeline.BookPostprocessor)(nil)
)

// Renderer turns book markdown into HTML fragments. It is immutable after
// construction and safe for concurrent use.
type Renderer struct {
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	postprocessor pipeline.HTMLPostprocessor
	extractor     *pipeline.HeadingExtractor
}

// NewRenderer creates a Renderer. Only WithHighlighting applies.
func NewRenderer(opts ...Option) *Renderer {
	o := newOptions(opts)

	var convOpts []pipeline.ConverterOption
	if o.highlightStyle != "" {
		convOpts = append(convOpts, pipeline.WithHighlighting(o.highlightStyle))
	}

	return &Renderer{
		preprocessor:  pipeline.NewBookPreprocessor(),
		htmlConverter: pipeline.NewGoldmarkConverter(convOpts...),
		postprocessor: &pipeline.BookPostprocessor{},
		extractor:     pipeline.NewHeadingExtractor(),
	}
}

// Render converts one page. Links are rebased on the depth of doc.Path, so
// the fragment works when served from that path. The rendering itself never
// fails on malformed markdown; an error means the HTML could not be written.
func (r *Renderer) Render(doc Document) (string, error) {
	content := r.preprocessor.PreprocessMarkdown(doc.Markdown, doc.Hardbreaks)

	htmlContent, err := r.htmlConverter.ToHTML(content, doc.Hardbreaks)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrPageRender, doc.Path, err)
	}

	return r.postprocessor.PostprocessHTML(htmlContent, doc.Path), nil
}

// ExtractHeadings lists the level 2 to 4 headings of a page, in document
// order, with the ids Render gives them.
func (r *Renderer) ExtractHeadings(content string) []Heading {
	return toHeadings(r.extractor.Extract(content))
}

// Render converts content with a new default Renderer. currentPath is the
// book-root-relative page path, or "" when unknown. Callers rendering many
// pages should keep one Renderer instead.
func Render(content, currentPath string, hardbreaks bool) (string, error) {
	return NewRenderer().Render(Document{Markdown: content, Path: currentPath, Hardbreaks: hardbreaks})
}

// ExtractHeadings lists the level 2 to 4 headings of content with a new
// default Renderer.
func ExtractHeadings(content string) []Heading {
	return NewRenderer().ExtractHeadings(content)
}
