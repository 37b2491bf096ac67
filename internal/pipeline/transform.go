package pipeline

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// mermaidLanguage marks fenced code blocks rendered client-side as diagrams.
const mermaidLanguage = "mermaid"

// KindMermaidBlock is the node kind of a MermaidBlock.
var KindMermaidBlock = ast.NewNodeKind("MermaidBlock")

// MermaidBlock replaces a fenced code block tagged mermaid. It carries the
// diagram source verbatim.
type MermaidBlock struct {
	ast.BaseBlock
	Source []byte
}

// NewMermaidBlock returns a MermaidBlock holding source.
func NewMermaidBlock(source []byte) *MermaidBlock {
	return &MermaidBlock{Source: source}
}

// Kind implements ast.Node.
func (n *MermaidBlock) Kind() ast.NodeKind {
	return KindMermaidBlock
}

// Dump implements ast.Node.
func (n *MermaidBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Source": string(n.Source)}, nil)
}

// bookExtension wires the heading id and mermaid handling into goldmark.
type bookExtension struct{}

// Extend implements goldmark.Extender.
func (e *bookExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&bookTransformer{}, 500),
	))
	// Lower than the default HTML renderer (1000) so these functions win.
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&bookNodeRenderer{}, 100),
	))
}

// bookTransformer assigns slug ids to headings once their text is known and
// swaps mermaid code blocks for MermaidBlock nodes.
type bookTransformer struct{}

// Transform implements parser.ASTTransformer.
func (t *bookTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	var diagrams []*ast.FencedCodeBlock

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			node.SetAttributeString("id", []byte(Slugify(headingText(node, source))))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			if isMermaid(node, source) {
				diagrams = append(diagrams, node)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, block := range diagrams {
		parent := block.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, block, NewMermaidBlock(codeBlockSource(block, source)))
	}
}

func isMermaid(n *ast.FencedCodeBlock, source []byte) bool {
	if n.Info == nil {
		return false
	}
	info := bytes.TrimSpace(n.Info.Segment.Value(source))
	return bytes.HasPrefix(info, []byte(mermaidLanguage))
}

// codeBlockSource concatenates the block lines. The final newline is dropped
// so the closing tag sits on the last diagram line.
func codeBlockSource(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// headingText concatenates the plain text inside a heading. Code spans and
// raw HTML are skipped and footnote references removed, so the render pass
// and the heading extractor agree on every id. Labels that are not letters
// and digits are never references and stay in the text in both passes.
func headingText(heading ast.Node, source []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.CodeSpan, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	raw := util.UnescapePunctuations(buf.Bytes())
	raw = util.ResolveNumericReferences(raw)
	raw = util.ResolveEntityNames(raw)
	return strings.TrimSpace(stripFootnoteReferences(string(raw)))
}

// bookNodeRenderer renders headings with their slug id and mermaid blocks
// as <div class="mermaid">.
type bookNodeRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *bookNodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(KindMermaidBlock, r.renderMermaid)
}

// renderHeading emits <hN id="slug">. Attributes parsed from {#id .class}
// are not rendered; the slug is the only id.
func (r *bookNodeRenderer) renderHeading(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	level := "0123456"[n.Level]

	if !entering {
		_, _ = w.WriteString("</h")
		_ = w.WriteByte(level)
		_, _ = w.WriteString(">\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<h")
	_ = w.WriteByte(level)
	_, _ = w.WriteString(` id="`)
	if v, ok := n.AttributeString("id"); ok {
		if id, ok := v.([]byte); ok {
			_, _ = w.Write(util.EscapeHTML(id))
		}
	}
	_, _ = w.WriteString(`">`)
	return ast.WalkContinue, nil
}

func (r *bookNodeRenderer) renderMermaid(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*MermaidBlock)
	_, _ = w.WriteString(`<div class="mermaid">`)
	_, _ = w.Write(util.EscapeHTML(n.Source))
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}
