package assets

import "fmt"

// Names of the theme files the book generator reads.
const (
	BookStyle     = "book"  // site stylesheet, written to gitbook/book.css
	PrintStyle    = "print" // PDF stylesheet
	BookScript    = "book"  // sidebar behavior, written to gitbook/book.js
	PageTemplate  = "page"  // one HTML page of the site
	CoverTemplate = "cover" // PDF cover page
	PrintTemplate = "print" // single-document PDF body
)

// Theme holds every file of a loaded theme.
type Theme struct {
	Style      string
	PrintStyle string
	Script     string
	Page       string
	Cover      string
	Print      string
}

// LoadTheme reads the complete theme through loader.
func LoadTheme(loader AssetLoader) (*Theme, error) {
	var t Theme
	var err error

	if t.Style, err = loader.LoadStyle(BookStyle); err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	if t.PrintStyle, err = loader.LoadStyle(PrintStyle); err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	if t.Script, err = loader.LoadScript(BookScript); err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	if t.Page, err = loader.LoadTemplate(PageTemplate); err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	if t.Cover, err = loader.LoadTemplate(CoverTemplate); err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	if t.Print, err = loader.LoadTemplate(PrintTemplate); err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	return &t, nil
}
