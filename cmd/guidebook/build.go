package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-guidebook"
)

// runBuild builds the book as a static website.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args)
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

	cfg, err := loadConfig(bookDir, flags.common, envCfg)
	if err != nil {
		return err
	}
	bk, err := openBook(bookDir, cfg)
	if err != nil {
		return err
	}

	outDir := outputDirFor(flags.output, bookDir, cfg)
	out.Debugf("Building %q with %d workers into %s", bk.Title(), workers, outDir)

	result, err := guidebook.NewBuilder(renderOptions(flags.render, workers)...).Build(ctx, bk, outDir)
	if result != nil {
		printBuildResult(result, out)
	}
	if err != nil {
		return fmt.Errorf("building book: %w", err)
	}
	return nil
}

// printBuildResult reports warnings, failed pages and a summary line.
func printBuildResult(r *guidebook.BuildResult, out *output) {
	for _, w := range r.Warnings {
		out.Warnf("%s", w)
	}

	for _, p := range r.Pages {
		if p.Err != nil {
			out.Errorf("FAILED %s: %v", p.Path, p.Err)
			continue
		}
		out.Debugf("  %s -> %s (%v)", p.Path, p.OutputPath, p.Duration.Round(time.Millisecond))
	}

	failed := len(r.Failed())
	if failed > 0 {
		out.Infof("Built %d/%d pages, %d failed, in %v", len(r.Pages)-failed, len(r.Pages), failed, r.Duration.Round(time.Millisecond))
		return
	}
	out.Infof("Built %d pages and %d assets in %v -> %s", len(r.Pages), len(r.Assets), r.Duration.Round(time.Millisecond), r.OutputDir)
}
