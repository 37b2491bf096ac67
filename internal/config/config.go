package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-guidebook/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
	ErrInvalidValue   = errors.New("invalid config value")
)

// FileNames are the config files looked up in the book directory, in order.
var FileNames = []string{"book.json", "book.yaml", "book.yml"}

// Field length limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxAuthorLength      = 100
	MaxLanguageLength    = 35 // BCP 47
	MaxPathLength        = 4096
	MaxStyleLength       = 50
	MaxHostLength        = 253
)

// PDF margin bounds in inches.
const (
	MinMargin = 0.25
	MaxMargin = 3.0
)

// Config holds the book configuration read from book.json or book.yaml.
// Keys it does not know, such as HonKit plugins, are ignored.
type Config struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Author      string          `yaml:"author"`
	Language    string          `yaml:"language"`
	Root        string          `yaml:"root"` // content subdirectory, relative to the book directory
	Hardbreaks  bool            `yaml:"hardbreaks"`
	Structure   StructureConfig `yaml:"structure"`
	Output      string          `yaml:"output"`
	Theme       string          `yaml:"theme"` // directory overriding the embedded theme assets
	Highlight   HighlightConfig `yaml:"highlight"`
	Serve       ServeConfig     `yaml:"serve"`
	PDF         PDFConfig       `yaml:"pdf"`
}

// StructureConfig names the special book files.
type StructureConfig struct {
	Readme  string `yaml:"readme"`
	Summary string `yaml:"summary"`
}

// HighlightConfig controls server-side syntax highlighting.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // chroma style name
}

// ServeConfig holds the dev server defaults.
type ServeConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// PDFConfig holds the PDF export settings.
type PDFConfig struct {
	PageSize    string  `yaml:"pageSize"`    // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches, all sides
	Cover       bool    `yaml:"cover"`
	TOC         bool    `yaml:"toc"`
}

// DefaultConfig returns the configuration of a book without a config file.
func DefaultConfig() *Config {
	return &Config{
		Language: "en",
		Structure: StructureConfig{
			Readme:  "README.md",
			Summary: "SUMMARY.md",
		},
		Output:    "_book",
		Highlight: HighlightConfig{Style: "github"},
		Serve:     ServeConfig{Host: "127.0.0.1", Port: 4000},
		PDF: PDFConfig{
			PageSize:    "letter",
			Orientation: "portrait",
			Margin:      0.5,
			Cover:       true,
			TOC:         true,
		},
	}
}

// Validate checks field lengths and enumerated values.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"title", c.Title, MaxTitleLength},
		{"description", c.Description, MaxDescriptionLength},
		{"author", c.Author, MaxAuthorLength},
		{"language", c.Language, MaxLanguageLength},
		{"root", c.Root, MaxPathLength},
		{"structure.readme", c.Structure.Readme, MaxPathLength},
		{"structure.summary", c.Structure.Summary, MaxPathLength},
		{"output", c.Output, MaxPathLength},
		{"theme", c.Theme, MaxPathLength},
		{"highlight.style", c.Highlight.Style, MaxStyleLength},
		{"serve.host", c.Serve.Host, MaxHostLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Structure.Readme == "" || c.Structure.Summary == "" {
		return fmt.Errorf("%w: structure.readme and structure.summary cannot be empty", ErrInvalidValue)
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("%w: serve.port %d (must be between 0 and 65535)", ErrInvalidValue, c.Serve.Port)
	}

	switch strings.ToLower(c.PDF.PageSize) {
	case "letter", "a4", "legal":
	default:
		return fmt.Errorf("%w: pdf.pageSize %q (must be letter, a4, or legal)", ErrInvalidValue, c.PDF.PageSize)
	}
	switch strings.ToLower(c.PDF.Orientation) {
	case "portrait", "landscape":
	default:
		return fmt.Errorf("%w: pdf.orientation %q (must be portrait or landscape)", ErrInvalidValue, c.PDF.Orientation)
	}
	if c.PDF.Margin < MinMargin || c.PDF.Margin > MaxMargin {
		return fmt.Errorf("%w: pdf.margin %.2f (must be between %.2f and %.2f)", ErrInvalidValue, c.PDF.Margin, MinMargin, MaxMargin)
	}

	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// ContentDir returns the directory holding the book pages.
func (c *Config) ContentDir(bookDir string) string {
	if c.Root == "" {
		return bookDir
	}
	return filepath.Join(bookDir, filepath.FromSlash(c.Root))
}

// Load reads the book configuration. With an empty configPath the files in
// FileNames are looked up in bookDir, and a book without any gets
// DefaultConfig. An explicit configPath must exist. Values from the file
// override the defaults. The returned path is the file that was read, or ""
// when none was.
func Load(bookDir, configPath string) (*Config, string, error) {
	if configPath == "" {
		configPath = findConfigFile(bookDir)
		if configPath == "" {
			return DefaultConfig(), "", nil
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, "", fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yamlutil.Unmarshal(data, cfg); err != nil {
			return nil, "", fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("%s: %w", configPath, err)
	}

	return cfg, configPath, nil
}

// findConfigFile returns the first config file present in bookDir.
func findConfigFile(bookDir string) string {
	for _, name := range FileNames {
		p := filepath.Join(bookDir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Save writes cfg to path, as JSON for a .json file and YAML otherwise.
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = yamlutil.MarshalJSON(cfg)
	} else {
		data, err = yamlutil.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- book config is not secret
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
