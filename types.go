package guidebook

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-guidebook/internal/config"
	"github.com/alnah/go-guidebook/internal/pipeline"
)

// Document is one markdown page to render.
type Document struct {
	Markdown   string // page content
	Path       string // book-root-relative path, "" when unknown
	Hardbreaks bool   // render every newline as <br>
}

// Heading is one entry of a page table of contents.
type Heading struct {
	Level int    // 2, 3 or 4
	Text  string // plain heading text
	ID    string // id of the rendered heading element
}

func toHeadings(in []pipeline.Heading) []Heading {
	if len(in) == 0 {
		return nil
	}
	out := make([]Heading, len(in))
	for i, h := range in {
		out[i] = Heading(h)
	}
	return out
}

// Config is the book configuration read from book.json or book.yaml.
type Config = config.Config

// DefaultConfig returns the configuration of a book without a config file.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// LoadConfig reads the configuration of the book in dir. With an empty path
// book.json, book.yaml and book.yml are tried in order and a book without
// any gets DefaultConfig. It returns the file that was read, or "".
func LoadConfig(dir, path string) (*Config, string, error) {
	return config.Load(dir, path)
}

// ConfigFileNames lists the config files looked up in a book directory.
func ConfigFileNames() []string {
	return append([]string(nil), config.FileNames...)
}

// SaveConfig writes cfg to path, as JSON for a .json file and YAML otherwise.
func SaveConfig(path string, cfg *Config) error {
	return config.Save(path, cfg)
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = config.MinMargin
	MaxMargin     = config.MaxMargin
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// pageSettingsFrom reads the PDF section of a book config.
func pageSettingsFrom(cfg *Config) *PageSettings {
	return &PageSettings{
		Size:        cfg.PDF.PageSize,
		Orientation: cfg.PDF.Orientation,
		Margin:      cfg.PDF.Margin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	switch strings.ToLower(p.Size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// dimensions returns the paper width and height in inches.
func (p *PageSettings) dimensions() (width, height float64) {
	switch strings.ToLower(p.Size) {
	case PageSizeA4:
		width, height = 8.27, 11.69
	case PageSizeLegal:
		width, height = 8.5, 14
	default:
		width, height = 8.5, 11
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

// Option configures a Renderer, Builder or PDFExporter. Each ignores the
// options that do not concern it.
type Option func(*options)

type options struct {
	highlightStyle string
	themeDir       string
	workers        int
	timeout        time.Duration
}

// defaultTimeout bounds one PDF export.
const defaultTimeout = 2 * time.Minute

func newOptions(opts []Option) options {
	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithHighlighting enables server-side syntax highlighting with the named
// chroma style. An empty style leaves code blocks unhighlighted.
func WithHighlighting(style string) Option {
	return func(o *options) {
		o.highlightStyle = style
	}
}

// WithTheme reads theme files from dir before the built-in theme.
func WithTheme(dir string) Option {
	return func(o *options) {
		o.themeDir = dir
	}
}

// WithWorkers sets how many pages render at once. Zero picks a value from
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithTimeout sets the PDF export timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("guidebook: WithTimeout duration must be positive")
	}
	return func(o *options) {
		o.timeout = d
	}
}
