package guidebook

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenBook(t *testing.T) {
	t.Parallel()

	dir := writeBook(t, sampleBook)
	bk, err := OpenBook(dir, nil)
	if err != nil {
		t.Fatalf("OpenBook() error: %v", err)
	}

	if got := bk.Title(); got != "Handbook" {
		t.Errorf("Title() = %q, want Handbook", got)
	}
	if bk.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", bk.Dir(), dir)
	}

	pages := bk.Pages()
	want := []Page{
		{Path: "README.md", OutputPath: "index.html", Title: "Welcome"},
		{Path: "guide/setup.md", OutputPath: "guide/setup.html", Title: "Setup", Description: "Installing things"},
		{Path: "guide/linux.md", OutputPath: "guide/linux.html", Title: "Linux"},
	}
	if len(pages) != len(want) {
		t.Fatalf("Pages() = %+v, want %d pages", pages, len(want))
	}
	for i := range want {
		if pages[i] != want[i] {
			t.Errorf("Pages()[%d] = %+v, want %+v", i, pages[i], want[i])
		}
	}
}

func TestOpenBook_ExplicitConfig(t *testing.T) {
	t.Parallel()

	dir := writeBook(t, map[string]string{
		"docs/intro.md": "# Intro\n",
		"docs/toc.md":   "* [Intro](intro.md)\n",
	})

	cfg := DefaultConfig()
	cfg.Root = "docs"
	cfg.Structure.Readme = "intro.md"
	cfg.Structure.Summary = "toc.md"

	bk, err := OpenBook(dir, cfg)
	if err != nil {
		t.Fatalf("OpenBook() error: %v", err)
	}
	if bk.Dir() != filepath.Join(dir, "docs") {
		t.Errorf("Dir() = %q, want docs subdirectory", bk.Dir())
	}
	if bk.Title() != "Intro" {
		t.Errorf("Title() = %q, want Intro", bk.Title())
	}
	if bk.Config() != cfg {
		t.Error("Config() does not return the given config")
	}
}

func TestOpenBook_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   map[string]string
		wantErr error
	}{
		{
			name:    "no summary",
			files:   map[string]string{"README.md": "# Home\n"},
			wantErr: ErrSummaryNotFound,
		},
		{
			name:    "no readme",
			files:   map[string]string{"SUMMARY.md": "* [A](a.md)\n"},
			wantErr: ErrReadmeNotFound,
		},
		{
			name: "broken config",
			files: map[string]string{
				"README.md":  "# Home\n",
				"SUMMARY.md": "",
				"book.json":  `{"title": `,
			},
			wantErr: ErrConfigParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := OpenBook(writeBook(t, tt.files), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("OpenBook() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBook_WarningsReturnsCopy(t *testing.T) {
	t.Parallel()

	bk, err := OpenBook(writeBook(t, sampleBook), nil)
	if err != nil {
		t.Fatalf("OpenBook() error: %v", err)
	}
	w := bk.Warnings()
	if len(w) != 1 {
		t.Fatalf("Warnings() = %v, want 1 entry", w)
	}
	w[0] = "changed"
	if bk.Warnings()[0] == "changed" {
		t.Error("Warnings() exposes the internal slice")
	}
}
