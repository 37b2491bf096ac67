package book

import (
	"html"
	"path"
	"strings"

	"github.com/alnah/go-guidebook/internal/pipeline"
)

// RootPrefix returns the relative prefix leading from the directory of
// pagePath back to the output root: "" at the root, "../" one level down.
func RootPrefix(pagePath string) string {
	return strings.Repeat("../", pipeline.PathDepth(pagePath))
}

// Nav renders the sidebar list for the page at currentPath. Links are
// relative to that page, the entry of the current page is marked active and
// chapters with children are expandable.
func (b *Book) Nav(currentPath string) string {
	prefix := RootPrefix(currentPath)
	var buf strings.Builder

	buf.WriteString(`<ul class="summary">` + "\n")
	for i, part := range b.Summary.Parts {
		if i > 0 {
			buf.WriteString(`<li class="divider"></li>` + "\n")
		}
		if part.Title != "" {
			buf.WriteString(`<li class="header">` + html.EscapeString(part.Title) + "</li>\n")
		}
		b.writeArticles(&buf, part.Articles, currentPath, prefix)
	}
	buf.WriteString("</ul>\n")
	return buf.String()
}

func (b *Book) writeArticles(buf *strings.Builder, articles []*Article, currentPath, prefix string) {
	for _, a := range articles {
		classes := "chapter"
		if len(a.Children) > 0 {
			classes += " expandable"
		}
		if a.IsPage() && a.Path == currentPath {
			classes += " active"
		}

		buf.WriteString(`<li class="` + classes + `" data-level="` + a.Level + `"`)
		if a.IsPage() {
			buf.WriteString(` data-path="` + html.EscapeString(b.articleOutput(a)) + `"`)
		}
		buf.WriteString(">")

		title := html.EscapeString(a.Title)
		switch {
		case a.External:
			buf.WriteString(`<a href="` + html.EscapeString(a.Ref) + `" target="_blank">` + title + "</a>")
		case a.IsPage():
			href := prefix + b.articleOutput(a)
			if a.Anchor != "" {
				href += "#" + a.Anchor
			}
			buf.WriteString(`<a href="` + html.EscapeString(href) + `">` + title + "</a>")
		default:
			buf.WriteString(`<span class="chapter-title">` + title + "</span>")
		}

		if len(a.Children) > 0 {
			buf.WriteString("\n" + `<ul class="articles">` + "\n")
			b.writeArticles(buf, a.Children, currentPath, prefix)
			buf.WriteString("</ul>\n")
		}
		buf.WriteString("</li>\n")
	}
}

// articleOutput returns the output file an article links to. Pages not
// rendered, such as a linked PDF, keep their own path.
func (b *Book) articleOutput(a *Article) string {
	if p := b.Page(a.Path); p != nil {
		return p.OutputPath()
	}
	if strings.EqualFold(path.Ext(a.Path), ".md") {
		return LinkPath(a.Path)
	}
	return a.Path
}
