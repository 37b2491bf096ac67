package pipeline

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PageAnchor returns the id of the <section> holding a page in the combined
// PDF document. pagePath is book-root-relative, with either the .md or the
// .html extension.
func PageAnchor(pagePath string) string {
	p := filepath.ToSlash(pagePath)
	p = strings.TrimSuffix(strings.TrimSuffix(p, ".md"), ".html")
	return "page-" + Slugify(strings.ReplaceAll(p, "/", " "))
}

// PDFLinkResolver rewrites the links of one rendered page so they work inside
// the single-document PDF export.
type PDFLinkResolver struct {
	// BookRoot is the book source directory. Nothing outside it is linked.
	BookRoot string
	// PagePath is the current page, relative to BookRoot.
	PagePath string
	// Pages holds every exported page by its book-relative .html path.
	Pages map[string]bool
}

// Rewrite applies the resolver to a page fragment or full document:
//
//   - img[src] relative paths become file:// URLs under BookRoot
//   - a[href] to an exported page becomes "#fragment", or the page anchor
//     when the link has no fragment
//   - a[href] to any other local file becomes a file:// URL
//
// URLs, anchors, absolute paths and paths escaping BookRoot are kept.
func (r *PDFLinkResolver) Rewrite(htmlContent string) (string, error) {
	absRoot, err := filepath.Abs(r.BookRoot)
	if err != nil {
		return "", err
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	r.rewriteNode(doc, absRoot)
	return renderHTML(doc, isFragment)
}

// parseHTML parses a full document or a body fragment. Fragments are wrapped
// in a document node and reported so renderHTML can unwrap them.
func parseHTML(content string) (*html.Node, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (r *PDFLinkResolver) rewriteNode(n *html.Node, absRoot string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			r.rewriteAttr(n, "src", absRoot, false)
		case atom.A:
			r.rewriteAttr(n, "href", absRoot, true)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.rewriteNode(c, absRoot)
	}
}

func (r *PDFLinkResolver) rewriteAttr(n *html.Node, key, absRoot string, pageLinks bool) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativePath(attr.Val) {
			continue
		}

		target, fragment, _ := strings.Cut(attr.Val, "#")
		bookPath := path.Join(path.Dir(filepath.ToSlash(r.PagePath)), target)

		if pageLinks && r.Pages[bookPath] {
			if fragment != "" {
				n.Attr[i].Val = "#" + fragment
			} else {
				n.Attr[i].Val = "#" + PageAnchor(bookPath)
			}
			continue
		}

		absPath := filepath.Join(absRoot, filepath.FromSlash(bookPath))
		if !isPathUnderDir(absPath, absRoot) {
			continue
		}
		n.Attr[i].Val = pathToFileURL(absPath)
	}
}

// isRelativePath reports whether a src or href points at a local relative
// file.
func isRelativePath(p string) bool {
	if p == "" || strings.HasPrefix(p, "#") || filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return false
	}
	for _, prefix := range []string{"http://", "https://", "file://", "data:", "mailto:", "javascript:", "//"} {
		if strings.HasPrefix(p, prefix) {
			return false
		}
	}
	return true
}

// isPathUnderDir reports whether absPath lies inside dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
