package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/alnah/go-guidebook"
	"github.com/alnah/go-guidebook/internal/hints"
)

// bookDirFrom returns the book directory named by the positional args,
// defaulting to the current directory.
func bookDirFrom(args []string) (string, error) {
	switch len(args) {
	case 0:
		return ".", nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected at most one book directory, got %d arguments", ErrUsage, len(args))
	}
}

// loadConfig reads the book config and applies the environment. The
// explicit --config flag wins over GUIDEBOOK_CONFIG.
func loadConfig(dir string, f commonFlags, envCfg *envConfig) (*guidebook.Config, error) {
	path := f.config
	if path == "" {
		path = envCfg.ConfigPath
	}

	cfg, _, err := guidebook.LoadConfig(dir, path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// openBook loads the book in dir with cfg, hinting at the usual fixes.
func openBook(dir string, cfg *guidebook.Config) (*guidebook.Book, error) {
	bk, err := guidebook.OpenBook(dir, cfg)
	if err != nil {
		if errors.Is(err, guidebook.ErrSummaryNotFound) {
			return nil, withHint(err, hints.ForSummaryNotFound(cfg.Structure.Summary))
		}
		return nil, err
	}
	return bk, nil
}

// renderOptions turns rendering flags into library options. A flag theme
// is used as given; the config theme is relative to the book.
func renderOptions(f themeFlags, workers int) []guidebook.Option {
	opts := []guidebook.Option{guidebook.WithWorkers(workers)}
	if f.theme != "" {
		opts = append(opts, guidebook.WithTheme(f.theme))
	}
	if f.highlight != "" {
		opts = append(opts, guidebook.WithHighlighting(f.highlight))
	}
	return opts
}

// resolveWorkers picks the worker count: flag, then environment, then auto.
func resolveWorkers(flagWorkers int, envCfg *envConfig) (int, error) {
	if flagWorkers < 0 || flagWorkers > guidebook.MaxWorkers {
		return 0, fmt.Errorf("%w: --workers must be between 0 and %d, got %d", ErrUsage, guidebook.MaxWorkers, flagWorkers)
	}
	if flagWorkers == 0 {
		flagWorkers = envCfg.Workers
	}
	return guidebook.ResolveWorkers(flagWorkers), nil
}

// outputDirFor resolves the build output: flag, then config, relative to
// the book directory when not absolute.
func outputDirFor(flagOutput, bookDir string, cfg *guidebook.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	out := cfg.Output
	if out == "" {
		out = "_book"
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(bookDir, out)
}
