package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-guidebook"
)

// defaultPDFName is the export file when neither --output nor
// GUIDEBOOK_OUTPUT is given.
const defaultPDFName = "book.pdf"

// runPDF exports the whole book as one PDF.
func runPDF(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePDFFlags(args)
	if err != nil {
		return err
	}
	out := newOutput(env, flags.common)

	bookDir, err := bookDirFrom(positional)
	if err != nil {
		return err
	}
	warnUnknownEnvVars(env, out)
	envCfg := loadEnvConfig(env)
	workers, err := resolveWorkers(flags.render.workers, envCfg)
	if err != nil {
		return err
	}
	timeout, err := resolveTimeout(flags.timeout, envCfg)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(bookDir, flags.common, envCfg)
	if err != nil {
		return err
	}
	mergePDFFlags(flags, cfg)
	bk, err := openBook(bookDir, cfg)
	if err != nil {
		return err
	}

	opts := renderOptions(flags.render, workers)
	if timeout > 0 {
		opts = append(opts, guidebook.WithTimeout(timeout))
	}
	exporter := guidebook.NewPDFExporter(opts...)
	defer func() { _ = exporter.Close() }()

	outPath := pdfOutputPath(flags.output, envCfg)
	out.Debugf("Exporting %q (%d pages) to %s", bk.Title(), len(bk.Pages()), outPath)

	start := env.Now()
	result, err := exporter.Export(ctx, bk)
	if err != nil {
		return fmt.Errorf("exporting PDF: %w", err)
	}
	for _, w := range result.Warnings {
		out.Warnf("%s", w)
	}

	if err := writeOutputFile(outPath, result.PDF); err != nil {
		return err
	}
	if flags.html {
		htmlPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".html"
		if err := writeOutputFile(htmlPath, []byte(result.HTML)); err != nil {
			return err
		}
		out.Debugf("  HTML -> %s", htmlPath)
	}

	out.Infof("Exported %d pages in %v -> %s", result.Pages, env.Now().Sub(start).Round(time.Millisecond), outPath)
	return nil
}

// mergePDFFlags applies the pdf flags to cfg (CLI wins).
func mergePDFFlags(f *pdfFlags, cfg *guidebook.Config) {
	if f.pageSize != "" {
		cfg.PDF.PageSize = f.pageSize
	}
	if f.orientation != "" {
		cfg.PDF.Orientation = f.orientation
	}
	if f.margin != 0 {
		cfg.PDF.Margin = f.margin
	}
	if f.noCover {
		cfg.PDF.Cover = false
	}
	if f.noTOC {
		cfg.PDF.TOC = false
	}
}

// resolveTimeout parses the --timeout flag, falling back to
// GUIDEBOOK_TIMEOUT. Zero means the library default.
func resolveTimeout(flagTimeout string, envCfg *envConfig) (time.Duration, error) {
	if flagTimeout == "" {
		return envCfg.Timeout, nil
	}
	d, err := time.ParseDuration(flagTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, flagTimeout)
	}
	return d, nil
}

// pdfOutputPath resolves the export file: flag, then environment, then
// book.pdf in the current directory.
func pdfOutputPath(flagOutput string, envCfg *envConfig) string {
	switch {
	case flagOutput != "":
		return flagOutput
	case envCfg.Output != "":
		return envCfg.Output
	default:
		return defaultPDFName
	}
}

// writeOutputFile writes data to path, creating missing parent directories.
func writeOutputFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- exported book is public
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
