package guidebook

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-guidebook/internal/assets"
	"github.com/alnah/go-guidebook/internal/fileutil"
	"github.com/alnah/go-guidebook/internal/pipeline"
	"github.com/alnah/go-guidebook/internal/process"
)

// PDF table of contents settings: chapter titles and their sections.
const (
	tocTitle    = "Table of Contents"
	tocMinDepth = 1
	tocMaxDepth = 2
)

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, settings *PageSettings) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pdfRenderer = (*rodRenderer)(nil)

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// newRodRenderer creates a rodRenderer with the given timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		killLauncher(l)
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.launcher = l
	return nil
}

// Close releases browser resources and kills the browser process tree.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		killLauncher(r.launcher)
		r.launcher = nil
	}
	return err
}

// killLauncher takes down the browser and its helpers, then removes the
// temporary profile directory.
func killLauncher(l *launcher.Launcher) {
	process.KillTree(l.PID())
	l.Kill()
	l.Cleanup()
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
// Returns explicit errors instead of panicking when browser operations fail.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, settings *PageSettings) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.Context(ctx).PDF(buildPDFOptions(settings))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// buildPDFOptions constructs proto.PagePrintToPDF from page settings.
// A nil settings uses DefaultPageSettings.
func buildPDFOptions(settings *PageSettings) *proto.PagePrintToPDF {
	if settings == nil {
		settings = DefaultPageSettings()
	}
	width, height := settings.dimensions()

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(settings.Margin),
		MarginBottom:    floatPtr(settings.Margin),
		MarginLeft:      floatPtr(settings.Margin),
		MarginRight:     floatPtr(settings.Margin),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// ExportResult holds the exported book.
type ExportResult struct {
	HTML     string // single-document HTML the PDF was printed from
	PDF      []byte
	Pages    int
	Warnings []string
}

// PDFExporter prints a whole book as one PDF through headless Chrome.
// The browser starts on the first export and stays up until Close.
type PDFExporter struct {
	opts     options
	renderer pdfRenderer
}

// NewPDFExporter creates a PDFExporter. WithHighlighting, WithTheme,
// WithWorkers and WithTimeout apply.
func NewPDFExporter(opts ...Option) *PDFExporter {
	o := newOptions(opts)
	return &PDFExporter{opts: o, renderer: newRodRenderer(o.timeout)}
}

// Close releases browser resources.
func (e *PDFExporter) Close() error {
	if e.renderer != nil {
		return e.renderer.Close()
	}
	return nil
}

// Export renders bk into one HTML document and prints it with the page
// settings of the book config.
func (e *PDFExporter) Export(ctx context.Context, bk *Book) (*ExportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.timeout)
	defer cancel()

	settings := pageSettingsFrom(bk.Config())
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	htmlDoc, err := e.ExportHTML(ctx, bk)
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlDoc, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	pdf, err := e.renderer.RenderFromFile(ctx, tmpPath, settings)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		HTML:     htmlDoc,
		PDF:      pdf,
		Pages:    len(bk.book.Pages),
		Warnings: bk.Warnings(),
	}, nil
}

// printPage is one section of the print template.
type printPage struct {
	Anchor  string
	Content template.HTML
}

// printView is the data of the print template.
type printView struct {
	Language   string
	Title      string
	Pages      []printPage
	HasMermaid bool
}

// ExportHTML builds the single document Export prints: every page in
// reading order inside its own section, links between pages turned into
// in-document anchors, local images turned into file:// URLs, then the
// print stylesheet, the cover and the table of contents as configured.
func (e *PDFExporter) ExportHTML(ctx context.Context, bk *Book) (string, error) {
	cfg := bk.Config()

	theme, err := loadTheme(themeDirFor(e.opts, bk))
	if err != nil {
		return "", err
	}
	printTmpl, err := template.New(assets.PrintTemplate).Parse(theme.Print)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	renderer := rendererFor(e.opts, cfg)
	pages := bk.book.Pages
	links := bk.book.LinkPaths()
	sections := make([]printPage, len(pages))

	errs := runJobs(ctx, len(pages), e.opts.workers, func(_ context.Context, i int) error {
		p := pages[i]
		content, err := renderer.Render(Document{Markdown: p.Markdown, Path: p.Path, Hardbreaks: cfg.Hardbreaks})
		if err != nil {
			return err
		}
		resolver := &pipeline.PDFLinkResolver{BookRoot: bk.book.Dir, PagePath: p.Path, Pages: links}
		content, err = resolver.Rewrite(content)
		if err != nil {
			return fmt.Errorf("%w: %s: rewriting links: %v", ErrPageRender, p.Path, err)
		}
		sections[i] = printPage{
			Anchor:  pipeline.PageAnchor(p.Path),
			Content: template.HTML(content), // #nosec G203 -- book markdown may carry raw HTML
		}
		return nil
	})
	for _, err := range errs {
		if err != nil {
			return "", err
		}
	}

	view := printView{
		Language: cfg.Language,
		Title:    bk.Title(),
		Pages:    sections,
	}
	for _, s := range sections {
		if strings.Contains(string(s.Content), `class="mermaid"`) {
			view.HasMermaid = true
			break
		}
	}

	var buf bytes.Buffer
	if err := printTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	htmlDoc := (&pipeline.CSSInjection{}).InjectCSS(ctx, buf.String(), theme.PrintStyle)

	if cfg.PDF.Cover {
		cover, err := pipeline.NewCoverInjection(theme.Cover)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
		}
		htmlDoc, err = cover.InjectCover(ctx, htmlDoc, &pipeline.CoverData{
			Title:       bk.Title(),
			Author:      cfg.Author,
			Description: cfg.Description,
			Language:    cfg.Language,
		})
		if err != nil {
			return "", err
		}
	}

	if cfg.PDF.TOC {
		htmlDoc, err = (&pipeline.TOCInjection{}).InjectTOC(ctx, htmlDoc, &pipeline.TOCData{
			Title:    tocTitle,
			MinDepth: tocMinDepth,
			MaxDepth: tocMaxDepth,
		})
		if err != nil {
			return "", err
		}
	}

	return htmlDoc, nil
}
