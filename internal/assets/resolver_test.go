package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	if _, err := NewAssetResolver(""); err != nil {
		t.Fatalf("NewAssetResolver(\"\") error: %v", err)
	}
	if _, err := NewAssetResolver(t.TempDir()); err != nil {
		t.Fatalf("NewAssetResolver(dir) error: %v", err)
	}

	if _, err := NewAssetResolver(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrInvalidBasePath) {
		t.Errorf("NewAssetResolver(missing) error = %v, want ErrInvalidBasePath", err)
	}
}

func TestAssetResolver_CustomOverridesEmbedded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeThemeFile(t, dir, "styles/book.css", "/* custom */")
	writeThemeFile(t, dir, "scripts/book.js", "// custom")

	r, err := NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error: %v", err)
	}

	style, err := r.LoadStyle(BookStyle)
	if err != nil || style != "/* custom */" {
		t.Errorf("LoadStyle(book) = %q, %v, want custom stylesheet", style, err)
	}
	script, err := r.LoadScript(BookScript)
	if err != nil || script != "// custom" {
		t.Errorf("LoadScript(book) = %q, %v, want custom script", script, err)
	}

	// Files the directory lacks come from the embedded theme.
	page, err := r.LoadTemplate(PageTemplate)
	if err != nil || !strings.Contains(page, "book-summary") {
		t.Errorf("LoadTemplate(page) = %v, want embedded page template", err)
	}
	printCSS, err := r.LoadStyle(PrintStyle)
	if err != nil || printCSS == "" {
		t.Errorf("LoadStyle(print) = %v, want embedded print stylesheet", err)
	}
}

func TestAssetResolver_NotFound(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewAssetResolver() error: %v", err)
	}
	if _, err := r.LoadTemplate("nonexistent"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(nonexistent) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestAssetResolver_ValidationErrorsNotFallenBack(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewAssetResolver() error: %v", err)
	}
	if _, err := r.LoadStyle("../book"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadStyle(../book) error = %v, want ErrInvalidAssetName", err)
	}
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{ErrStyleNotFound, true},
		{fmt.Errorf("%w: %q", ErrTemplateNotFound, "page"), true},
		{ErrScriptNotFound, true},
		{ErrInvalidAssetName, false},
		{ErrAssetRead, false},
		{errors.New("other"), false},
	}

	for _, tt := range tests {
		if got := isNotFoundError(tt.err); got != tt.want {
			t.Errorf("isNotFoundError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
