package guidebook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-guidebook/internal/assets"
	"github.com/alnah/go-guidebook/internal/book"
	"github.com/alnah/go-guidebook/internal/config"
	"github.com/alnah/go-guidebook/internal/fileutil"
)

// ThemeDir is where the theme stylesheet and script are written, relative
// to the output root.
const ThemeDir = "gitbook"

// skippedDirs are never copied to the output.
var skippedDirs = []string{"node_modules", "_book"}

// PageResult holds the outcome of writing one page.
type PageResult struct {
	Path       string // source page, relative to the content root
	OutputPath string // written file, relative to the output root
	Err        error
	Duration   time.Duration
}

// BuildResult holds the outcome of a build.
type BuildResult struct {
	OutputDir string
	Pages     []PageResult
	Assets    []string // copied files, relative to the output root
	Warnings  []string // pages the book could not load
	Duration  time.Duration
}

// Failed returns the pages that could not be written.
func (r *BuildResult) Failed() []PageResult {
	var failed []PageResult
	for _, p := range r.Pages {
		if p.Err != nil {
			failed = append(failed, p)
		}
	}
	return failed
}

// Builder writes a book as a static website. It is safe for concurrent use;
// each Build loads the theme afresh so theme edits show up on rebuild.
type Builder struct {
	opts options
}

// NewBuilder creates a Builder. WithHighlighting, WithTheme and WithWorkers
// apply; unset ones fall back to the book config.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: newOptions(opts)}
}

// pageView is the data of the page template.
type pageView struct {
	Language    string
	Title       string
	BookTitle   string
	Description string
	Root        string // relative prefix back to the output root
	Nav         template.HTML
	Headings    []Heading
	Content     template.HTML
	Prev        *navLink
	Next        *navLink
	HasMermaid  bool
}

type navLink struct {
	URL   string
	Title string
}

// Build renders every page of bk into outDir, copies the other files of the
// book next to them and writes the theme assets under ThemeDir.
//
// Pages render concurrently. A page that fails does not stop the others:
// its error is kept in the result and joined into the returned error.
func (b *Builder) Build(ctx context.Context, bk *Book, outDir string) (*BuildResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	theme, err := loadTheme(themeDirFor(b.opts, bk))
	if err != nil {
		return nil, err
	}
	pageTmpl, err := template.New(assets.PageTemplate).Parse(theme.Page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	skip, err := assetSkipper(bk, outDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil { // #nosec G301 -- site output is public
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	renderer := rendererFor(b.opts, bk.Config())
	pages := bk.book.Pages
	durations := make([]time.Duration, len(pages))

	errs := runJobs(ctx, len(pages), b.opts.workers, func(_ context.Context, i int) error {
		pageStart := time.Now()
		err := writePage(bk.book, renderer, pageTmpl, pages[i], outDir)
		durations[i] = time.Since(pageStart)
		return err
	})

	result := &BuildResult{
		OutputDir: outDir,
		Pages:     make([]PageResult, len(pages)),
		Warnings:  bk.Warnings(),
	}
	var failed []error
	for i, p := range pages {
		result.Pages[i] = PageResult{
			Path:       p.Path,
			OutputPath: p.OutputPath(),
			Err:        errs[i],
			Duration:   durations[i],
		}
		if errs[i] != nil {
			failed = append(failed, errs[i])
		}
	}
	if err := ctx.Err(); err != nil {
		result.Duration = time.Since(start)
		return result, err
	}

	result.Assets, err = fileutil.CopyTree(bk.book.Dir, outDir, skip)
	if err != nil {
		failed = append(failed, fmt.Errorf("%w: %v", ErrOutputDir, err))
	}
	if err := writeThemeFiles(theme, outDir); err != nil {
		failed = append(failed, err)
	}

	result.Duration = time.Since(start)
	return result, errors.Join(failed...)
}

// writePage renders one page through the page template. The readme is also
// written under its .html name, which is what rewritten links point to.
func writePage(bk *book.Book, r *Renderer, tmpl *template.Template, p *book.Page, outDir string) error {
	content, err := r.Render(Document{Markdown: p.Markdown, Path: p.Path, Hardbreaks: bk.Config.Hardbreaks})
	if err != nil {
		return err
	}

	root := book.RootPrefix(p.Path)
	view := pageView{
		Language:    bk.Config.Language,
		Title:       p.Title,
		BookTitle:   bk.Title(),
		Description: p.Description,
		Root:        root,
		Nav:         template.HTML(bk.Nav(p.Path)), // #nosec G203 -- escaped by Nav
		Headings:    r.ExtractHeadings(p.Markdown),
		Content:     template.HTML(content), // #nosec G203 -- book markdown may carry raw HTML
		HasMermaid:  strings.Contains(content, `class="mermaid"`),
	}
	prev, next := bk.Neighbors(p)
	if prev != nil {
		view.Prev = &navLink{URL: root + prev.OutputPath(), Title: prev.Title}
	}
	if next != nil {
		view.Next = &navLink{URL: root + next.OutputPath(), Title: next.Title}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplateRender, p.Path, err)
	}

	targets := []string{p.OutputPath()}
	if p.LinkPath() != p.OutputPath() {
		targets = append(targets, p.LinkPath())
	}
	for _, target := range targets {
		if err := fileutil.WriteFile(filepath.Join(outDir, filepath.FromSlash(target)), buf.Bytes()); err != nil {
			return fmt.Errorf("%w: %v", ErrOutputDir, err)
		}
	}
	return nil
}

func writeThemeFiles(theme *assets.Theme, outDir string) error {
	files := map[string]string{
		assets.BookStyle + ".css": theme.Style,
		assets.BookScript + ".js": theme.Script,
	}
	for name, content := range files {
		if err := fileutil.WriteFile(filepath.Join(outDir, ThemeDir, name), []byte(content)); err != nil {
			return fmt.Errorf("%w: %v", ErrOutputDir, err)
		}
	}
	return nil
}

// assetSkipper leaves out markdown, config files, hidden files, dependency
// folders and the output directory itself when it sits inside the book.
func assetSkipper(bk *Book, outDir string) (fileutil.SkipFunc, error) {
	src, err := filepath.Abs(bk.book.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	dst, err := filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	outRel := ""
	if rel, err := filepath.Rel(src, dst); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		if rel == "." {
			return nil, fmt.Errorf("%w: %s is the book directory", ErrOutputDir, outDir)
		}
		outRel = filepath.ToSlash(rel)
	}

	return func(rel string, d fs.DirEntry) bool {
		if fileutil.IsHidden(rel) {
			return true
		}
		if d.IsDir() {
			return rel == outRel || slices.Contains(skippedDirs, d.Name())
		}
		if strings.EqualFold(path.Ext(rel), ".md") {
			return true
		}
		return slices.Contains(config.FileNames, rel)
	}, nil
}

// themeDirFor picks the theme directory: the option first, then the config
// value, taken relative to the book directory.
func themeDirFor(o options, bk *Book) string {
	if o.themeDir != "" {
		return o.themeDir
	}
	dir := bk.Config().Theme
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(bk.root, filepath.FromSlash(dir))
}

func loadTheme(dir string) (*assets.Theme, error) {
	resolver, err := assets.NewAssetResolver(dir)
	if err != nil {
		return nil, err
	}
	return assets.LoadTheme(resolver)
}

// rendererFor honors WithHighlighting, then the highlight section of cfg.
func rendererFor(o options, cfg *Config) *Renderer {
	switch {
	case o.highlightStyle != "":
		return NewRenderer(WithHighlighting(o.highlightStyle))
	case cfg.Highlight.Enabled && cfg.Highlight.Style != "":
		return NewRenderer(WithHighlighting(cfg.Highlight.Style))
	default:
		return NewRenderer()
	}
}
