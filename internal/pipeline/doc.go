// Package pipeline turns one book page of markdown into an HTML fragment.
//
// The stages run in a fixed order:
//   - markdown preprocessing (line endings, fullwidth heading spaces, image
//     path escaping, footnote inlining and reference sentinels)
//   - goldmark conversion with slug heading ids and mermaid diagram blocks
//   - HTML post-processing (.md links, bare URL autolinks, residual images,
//     footnote references, depth-relative links)
//
// The package also extracts page headings for the table of contents and
// holds the HTML injections used around a page: the dev server reload
// poller, and the CSS, cover and numbered TOC of the PDF export, whose link
// rewriting lives in pathrewrite.go.
package pipeline
