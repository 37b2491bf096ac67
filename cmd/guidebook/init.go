package main

import (
	"fmt"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/alnah/go-guidebook"
	"github.com/alnah/go-guidebook/internal/book"
	"github.com/alnah/go-guidebook/internal/fileutil"
)

const (
	defaultReadme  = "# Introduction\n\nWelcome to the book.\n"
	defaultSummary = "# Summary\n\n* [Introduction](README.md)\n"
	defaultConfig  = "book.json"
)

// runInit creates the files of a new book, leaving existing ones alone.
// Pages linked from an existing summary are created too.
func runInit(args []string, env *Environment) error {
	flags, positional, err := parseInitFlags(args)
	if err != nil {
		return err
	}
	out := newOutput(env, *flags)

	dir, err := bookDirFrom(positional)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	cfgPath := flags.config
	if cfgPath == "" {
		cfgPath = filepath.Join(dir, defaultConfig)
	}
	if !fileutil.FileExists(cfgPath) {
		cfg := guidebook.DefaultConfig()
		cfg.Title = bookTitleFor(dir)
		if err := guidebook.SaveConfig(cfgPath, cfg); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		out.Infof("created %s", cfgPath)
	}

	created, err := initFiles(dir, map[string]string{
		"README.md":  defaultReadme,
		"SUMMARY.md": defaultSummary,
	})
	for _, p := range created {
		out.Infof("created %s", p)
	}
	if err != nil {
		return err
	}

	summary, err := os.ReadFile(filepath.Join(dir, "SUMMARY.md")) // #nosec G304 -- inside the book
	if err != nil {
		return fmt.Errorf("reading summary: %w", err)
	}
	pages := summaryPages(string(summary))
	created, err = initFiles(dir, pages)
	for _, p := range created {
		out.Infof("created %s", p)
	}
	if err != nil {
		return err
	}

	out.Infof("Book ready in %s", dir)
	return nil
}

// initFiles writes each missing file of files under dir and returns the
// paths it created.
func initFiles(dir string, files map[string]string) ([]string, error) {
	var created []string
	for _, rel := range slices.Sorted(maps.Keys(files)) {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if fileutil.FileExists(p) {
			continue
		}
		if err := fileutil.WriteFile(p, []byte(files[rel])); err != nil {
			return created, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		created = append(created, p)
	}
	return created, nil
}

// summaryPages returns a stub for every markdown page the summary links.
// Paths are already confined to the book by the summary parser.
func summaryPages(summary string) map[string]string {
	pages := make(map[string]string)
	book.ParseSummary(summary).Walk(func(a *book.Article) {
		if a.IsPage() && path.Ext(a.Path) == ".md" {
			pages[a.Path] = "# " + a.Title + "\n"
		}
	})
	return pages
}

// bookTitleFor names a new book after its directory.
func bookTitleFor(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	return filepath.Base(abs)
}
