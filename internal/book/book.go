// Package book assembles a HonKit-style book: the summary, the pages it
// links and the sidebar navigation between them.
package book

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-guidebook/internal/config"
	"github.com/alnah/go-guidebook/internal/pipeline"
	"github.com/alnah/go-guidebook/internal/yamlutil"
)

// Sentinel errors for book loading.
var (
	ErrReadmeNotFound  = errors.New("book readme not found")
	ErrSummaryNotFound = errors.New("book summary not found")
	ErrPageRead        = errors.New("failed to read page")
)

// IndexFile is the output name of the book introduction.
const IndexFile = "index.html"

// FrontMatter holds the page fields read from a leading YAML block.
type FrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Page is one markdown file of the book.
type Page struct {
	Path        string // slash-separated, relative to the content root
	Title       string // front matter title, else first H1, else summary title
	Description string // front matter description
	Markdown    string // content with the front matter removed
	FrontMatter FrontMatter
	Article     *Article // summary entry, nil for a readme left out of the summary
	IsReadme    bool
}

// LinkPath returns the .html path other pages use to link this one.
func (p *Page) LinkPath() string {
	return LinkPath(p.Path)
}

// OutputPath returns where the page is written, relative to the output root.
// The readme is the index of its directory.
func (p *Page) OutputPath() string {
	if p.IsReadme {
		return path.Join(path.Dir(p.Path), IndexFile)
	}
	return p.LinkPath()
}

// LinkPath maps a markdown path to the .html path links are rewritten to.
func LinkPath(pagePath string) string {
	return strings.TrimSuffix(pagePath, path.Ext(pagePath)) + ".html"
}

// Book is a loaded book, ready to render.
type Book struct {
	Dir      string // directory holding the pages
	Config   *config.Config
	Summary  *Summary
	Readme   *Page
	Pages    []*Page  // reading order, readme first, each page once
	Warnings []string // summary entries that could not be loaded

	byPath map[string]*Page
}

// Load reads the readme, the summary and every page the summary links.
// Entries pointing at missing files are skipped and reported in Warnings.
func Load(bookDir string, cfg *config.Config) (*Book, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	dir := cfg.ContentDir(bookDir)
	b := &Book{Dir: dir, Config: cfg, byPath: make(map[string]*Page)}
	extractor := pipeline.NewHeadingExtractor()

	summaryPath := cleanPagePath(cfg.Structure.Summary)
	summaryData, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(summaryPath))) // #nosec G304 -- inside the book
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSummaryNotFound, filepath.Join(dir, summaryPath))
		}
		return nil, fmt.Errorf("reading summary: %w", err)
	}
	b.Summary = ParseSummary(string(summaryData))

	readmePath := cleanPagePath(cfg.Structure.Readme)
	readme, err := b.loadPage(readmePath, extractor)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrReadmeNotFound, filepath.Join(dir, readmePath))
		}
		return nil, err
	}
	readme.IsReadme = true
	b.Readme = readme
	b.addPage(readme)

	seen := map[string]bool{readmePath: true, summaryPath: true}
	var loadErr error
	b.Summary.Walk(func(a *Article) {
		if loadErr != nil || !a.IsPage() {
			return
		}
		if seen[a.Path] {
			return
		}
		seen[a.Path] = true

		// Other files are copied with the assets and linked as they are.
		if !strings.EqualFold(path.Ext(a.Path), ".md") {
			return
		}
		page, err := b.loadPage(a.Path, extractor)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				b.Warnings = append(b.Warnings, fmt.Sprintf("%s: file not found, skipped", a.Path))
				return
			}
			loadErr = err
			return
		}
		b.addPage(page)
	})
	if loadErr != nil {
		return nil, loadErr
	}

	return b, nil
}

func (b *Book) addPage(p *Page) {
	b.Pages = append(b.Pages, p)
	b.byPath[p.Path] = p
}

// Page returns the loaded page at pagePath, or nil.
func (b *Book) Page(pagePath string) *Page {
	return b.byPath[pagePath]
}

func (b *Book) loadPage(pagePath string, extractor *pipeline.HeadingExtractor) (*Page, error) {
	data, err := os.ReadFile(filepath.Join(b.Dir, filepath.FromSlash(pagePath))) // #nosec G304 -- summary paths are cleaned
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrPageRead, pagePath, err)
	}

	page := &Page{Path: pagePath, Markdown: string(data), Article: b.Summary.ByPath(pagePath)}
	if raw, body, ok := yamlutil.SplitFrontMatter(page.Markdown); ok {
		page.Markdown = body
		if strings.TrimSpace(raw) != "" {
			if err := yamlutil.Unmarshal([]byte(raw), &page.FrontMatter); err != nil {
				page.FrontMatter = FrontMatter{}
				b.Warnings = append(b.Warnings, fmt.Sprintf("%s: front matter ignored: %v", pagePath, err))
			}
		}
		page.Description = page.FrontMatter.Description
	}
	page.Title = pageTitle(page, extractor)
	return page, nil
}

// pageTitle keeps a front matter title, then tries the first H1, the
// summary entry and finally the file name.
func pageTitle(p *Page, extractor *pipeline.HeadingExtractor) string {
	if p.FrontMatter.Title != "" {
		return p.FrontMatter.Title
	}
	if t := extractor.Title(p.Markdown); t != "" {
		return t
	}
	if p.Article != nil && p.Article.Title != "" {
		return p.Article.Title
	}
	return strings.TrimSuffix(path.Base(p.Path), path.Ext(p.Path))
}

func cleanPagePath(p string) string {
	return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(p)), "/")
}

// Title returns the book title from the config, else the readme title.
func (b *Book) Title() string {
	if b.Config.Title != "" {
		return b.Config.Title
	}
	if b.Readme != nil {
		return b.Readme.Title
	}
	return ""
}

// LinkPaths returns the set of .html link paths of all pages.
func (b *Book) LinkPaths() map[string]bool {
	set := make(map[string]bool, len(b.Pages))
	for _, p := range b.Pages {
		set[p.LinkPath()] = true
	}
	return set
}

// Neighbors returns the pages before and after p in reading order.
func (b *Book) Neighbors(p *Page) (prev, next *Page) {
	for i, page := range b.Pages {
		if page != p {
			continue
		}
		if i > 0 {
			prev = b.Pages[i-1]
		}
		if i+1 < len(b.Pages) {
			next = b.Pages[i+1]
		}
		return prev, next
	}
	return nil, nil
}
