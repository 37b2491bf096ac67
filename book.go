package guidebook

import (
	"fmt"

	"github.com/alnah/go-guidebook/internal/book"
)

// Book is a loaded markdown book: its readme, its summary and every page the
// summary links, in reading order.
type Book struct {
	book *book.Book
	root string // directory passed to OpenBook
}

// Page is one page of a Book.
type Page struct {
	Path        string // slash-separated, relative to the content root
	OutputPath  string // where the page is written, relative to the output root
	Title       string
	Description string
}

// OpenBook loads the book in dir. A nil cfg reads the config file of dir,
// or uses DefaultConfig when there is none.
//
// A missing summary or readme is an error. Summary entries whose file does
// not exist are skipped and reported by Warnings.
func OpenBook(dir string, cfg *Config) (*Book, error) {
	if cfg == nil {
		var err error
		if cfg, _, err = LoadConfig(dir, ""); err != nil {
			return nil, err
		}
	}

	b, err := book.Load(dir, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening book: %w", err)
	}
	return &Book{book: b, root: dir}, nil
}

// Title returns the configured title, else the title of the readme.
func (b *Book) Title() string { return b.book.Title() }

// Dir returns the directory holding the pages.
func (b *Book) Dir() string { return b.book.Dir }

// Config returns the configuration the book was loaded with.
func (b *Book) Config() *Config { return b.book.Config }

// Warnings lists the summary entries that could not be loaded.
func (b *Book) Warnings() []string {
	return append([]string(nil), b.book.Warnings...)
}

// Pages lists the pages in reading order, readme first.
func (b *Book) Pages() []Page {
	pages := make([]Page, len(b.book.Pages))
	for i, p := range b.book.Pages {
		pages[i] = Page{
			Path:        p.Path,
			OutputPath:  p.OutputPath(),
			Title:       p.Title,
			Description: p.Description,
		}
	}
	return pages
}
