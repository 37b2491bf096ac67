package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(content string, hardbreaks bool) (string, error)
}

// ConverterOption configures a GoldmarkConverter.
type ConverterOption func(*converterConfig)

type converterConfig struct {
	highlightStyle string
}

// WithHighlighting enables chroma syntax highlighting for fenced code blocks
// using the named style (e.g. "github", "monokai"). Mermaid blocks are never
// highlighted.
func WithHighlighting(style string) ConverterOption {
	return func(c *converterConfig) {
		c.highlightStyle = style
	}
}

// GoldmarkConverter converts preprocessed book markdown to an HTML fragment.
// It holds one goldmark instance per line break mode; both are immutable, so
// a converter may be shared between goroutines.
type GoldmarkConverter struct {
	soft goldmark.Markdown
	hard goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with tables,
// strikethrough, task lists, heading attributes, raw HTML pass-through,
// heading ids and mermaid diagrams.
func NewGoldmarkConverter(opts ...ConverterOption) *GoldmarkConverter {
	var cfg converterConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GoldmarkConverter{
		soft: newBookMarkdown(cfg, false),
		hard: newBookMarkdown(cfg, true),
	}
}

func newBookMarkdown(cfg converterConfig, hardWraps bool) goldmark.Markdown {
	extensions := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		&bookExtension{},
	}
	if cfg.highlightStyle != "" {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.highlightStyle),
			highlighting.WithFormatOptions(
				chromahtml.TabWidth(4),
			),
		))
	}

	// Raw HTML must pass through: footnote blockquotes are injected as HTML
	// blocks before parsing.
	rendererOpts := []renderer.Option{html.WithUnsafe()}
	if hardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(parser.WithHeadingAttribute()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

// ToHTML converts markdown to an HTML fragment. With hardbreaks set, every
// soft line break becomes <br>.
func (c *GoldmarkConverter) ToHTML(content string, hardbreaks bool) (string, error) {
	md := c.soft
	if hardbreaks {
		md = c.hard
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return buf.String(), nil
}
