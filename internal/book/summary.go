package book

import (
	"bytes"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Summary is the parsed table of contents of a book.
type Summary struct {
	Parts []*Part
}

// Part groups top-level articles under an optional title. A "## Title"
// heading or a "---" rule in the summary starts a new part.
type Part struct {
	Title    string
	Articles []*Article
}

// Article is one entry of the table of contents.
type Article struct {
	Title    string
	Level    string // dotted position, "1.2.3"
	Ref      string // link target as written
	Path     string // page path relative to the content root, without fragment
	Anchor   string // fragment of Ref, without "#"
	External bool   // Ref is an absolute URL
	Children []*Article
}

// IsPage reports whether the article links a page of the book.
func (a *Article) IsPage() bool {
	return a.Path != "" && !a.External
}

var summaryParser = goldmark.New().Parser()

// ParseSummary reads a HonKit SUMMARY.md. Bullet items with a link become
// articles, items without one become section titles, and nested lists
// become child articles. The leading "# Summary" title is ignored.
func ParseSummary(content string) *Summary {
	source := []byte(strings.ReplaceAll(content, "\r\n", "\n"))
	doc := summaryParser.Parse(text.NewReader(source))

	s := &Summary{}
	current := &Part{}
	flush := func() {
		if current.Title != "" || len(current.Articles) > 0 {
			s.Parts = append(s.Parts, current)
		}
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 {
				continue
			}
			flush()
			current = &Part{Title: inlineText(node, source)}
		case *ast.ThematicBreak:
			flush()
			current = &Part{}
		case *ast.List:
			current.Articles = append(current.Articles, parseList(node, source)...)
		}
	}
	flush()

	for i, part := range s.Parts {
		numberArticles(part.Articles, strconv.Itoa(i+1))
	}
	return s
}

func parseList(list *ast.List, source []byte) []*Article {
	var articles []*Article
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		if _, ok := item.(*ast.ListItem); !ok {
			continue
		}
		a := &Article{}
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch block := c.(type) {
			case *ast.List:
				a.Children = append(a.Children, parseList(block, source)...)
			case *ast.TextBlock, *ast.Paragraph:
				if a.Title == "" {
					fillArticle(a, block, source)
				}
			}
		}
		if a.Title == "" && a.Ref == "" && len(a.Children) == 0 {
			continue
		}
		articles = append(articles, a)
	}
	return articles
}

// fillArticle takes the title and target from the first link of block, or
// the block text when it has no link.
func fillArticle(a *Article, block ast.Node, source []byte) {
	var link *ast.Link
	_ = ast.Walk(block, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if l, ok := n.(*ast.Link); ok && entering {
			link = l
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if link == nil {
		a.Title = inlineText(block, source)
		return
	}
	a.Title = inlineText(link, source)
	setRef(a, string(link.Destination))
}

func setRef(a *Article, ref string) {
	a.Ref = ref
	if ref == "" {
		return
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "mailto:") {
		a.External = true
		return
	}

	target, anchor, _ := strings.Cut(ref, "#")
	a.Anchor = anchor
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	if target == "" {
		return
	}
	a.Path = strings.TrimPrefix(path.Clean("/"+target), "/")
}

func numberArticles(articles []*Article, prefix string) {
	for i, a := range articles {
		a.Level = prefix + "." + strconv.Itoa(i+1)
		numberArticles(a.Children, a.Level)
	}
}

// inlineText concatenates the text of n's inline descendants.
func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	raw := util.UnescapePunctuations(buf.Bytes())
	raw = util.ResolveNumericReferences(raw)
	raw = util.ResolveEntityNames(raw)
	return strings.TrimSpace(string(raw))
}

// Walk visits every article depth first, in reading order.
func (s *Summary) Walk(fn func(*Article)) {
	var visit func([]*Article)
	visit = func(articles []*Article) {
		for _, a := range articles {
			fn(a)
			visit(a.Children)
		}
	}
	for _, part := range s.Parts {
		visit(part.Articles)
	}
}

// ByPath returns the first article linking the page at p, or nil.
func (s *Summary) ByPath(p string) *Article {
	var found *Article
	s.Walk(func(a *Article) {
		if found == nil && a.IsPage() && a.Path == p {
			found = a
		}
	})
	return found
}
