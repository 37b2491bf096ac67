// Package guidebook builds HonKit/GitBook-style markdown books into static
// websites and PDF documents.
//
// # Quick Start
//
// Open a book, build it, and report what was skipped:
//
//	bk, err := guidebook.OpenBook("mybook", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := guidebook.NewBuilder().Build(ctx, bk, "mybook/_book")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//	    log.Println(w)
//	}
//
// A book is a directory with a README.md (the introduction, written to
// index.html) and a SUMMARY.md listing the chapters. Every other file is
// copied to the output as it is.
//
// # Rendering Pipeline
//
// Each page goes through these stages:
//
//  1. Markdown preprocessing (line endings, fullwidth heading spaces, image
//     paths with spaces, footnote definitions rendered in place, footnote
//     references protected by %%FNREF_label%% placeholders)
//  2. Markdown to HTML conversion via Goldmark (tables, strikethrough, task
//     lists, heading ids, mermaid blocks, optional syntax highlighting)
//  3. HTML postprocessing (.md links to .html, bare URL autolinks, residual
//     images, footnote references, links rebased on the page depth)
//
// The page table of contents comes from ExtractHeadings, which gives the
// same ids Render puts on the headings.
//
// Render a single page without a book:
//
//	html, err := guidebook.Render(content, "guide/setup.md", false)
//
// # Configuration
//
// The book config is read from book.json, book.yaml or book.yml. Keys the
// package does not know, such as HonKit plugins, are ignored. Functional
// options override it:
//
//	b := guidebook.NewBuilder(
//	    guidebook.WithHighlighting("monokai"),
//	    guidebook.WithTheme("/path/to/theme"),
//	    guidebook.WithWorkers(4),
//	)
//
// # Custom Themes
//
// A theme directory overrides the built-in files it provides:
//
//	theme/
//	├── styles/
//	│   ├── book.css
//	│   └── print.css
//	├── scripts/
//	│   └── book.js
//	└── templates/
//	    ├── page.html
//	    ├── cover.html
//	    └── print.html
//
// # PDF Export
//
// PDFExporter prints the whole book as one document, with a cover page and
// a table of contents:
//
//	e := guidebook.NewPDFExporter(guidebook.WithTimeout(5 * time.Minute))
//	defer e.Close()
//
//	result, err := e.Export(ctx, bk)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("book.pdf", result.PDF, 0644)
//
// # Browser Requirements
//
// PDF export requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package guidebook
