package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"

	"github.com/alnah/go-guidebook"
	"github.com/alnah/go-guidebook/internal/hints"
	"github.com/alnah/go-guidebook/internal/server"
)

// runServe builds the book into a temporary directory, serves it and
// rebuilds on every source change until ctx is done.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args)
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

	// The config is read once for the address; every rebuild reads it
	// again so edits to it apply without a restart.
	cfg, err := loadConfig(bookDir, flags.common, envCfg)
	if err != nil {
		return err
	}
	host, port := cfg.Serve.Host, cfg.Serve.Port
	if flags.host != "" {
		host = flags.host
	}
	if flags.port != portUnset {
		port = flags.port
	}

	log := newServerLogger(env.Stderr, flags.common)
	builder := guidebook.NewBuilder(renderOptions(flags.render, workers)...)

	srv, err := server.New(server.Config{
		Addr:      net.JoinHostPort(host, strconv.Itoa(port)),
		SourceDir: bookDir,
		Logger:    log,
		Build: func(ctx context.Context, dir string) error {
			cfg, err := loadConfig(bookDir, flags.common, envCfg)
			if err != nil {
				return err
			}
			bk, err := openBook(bookDir, cfg)
			if err != nil {
				return err
			}
			result, err := builder.Build(ctx, bk, dir)
			if result != nil {
				for _, w := range result.Warnings {
					log.Warn("page skipped", "detail", w)
				}
			}
			return err
		},
	})
	if err != nil {
		return err
	}
	defer func() { _ = srv.Close() }()

	if err := srv.Rebuild(ctx); err != nil {
		return err
	}

	addr, err := srv.Listen()
	if err != nil {
		return withHint(err, hints.ForPortInUse(port))
	}

	out.Infof("Serving book on http://%s", addr)
	out.Infof("Press Ctrl+C to stop")
	return srv.Serve(ctx)
}

// newServerLogger returns the dev server logger: text on stderr, debug
// under --verbose, warnings only under --quiet.
func newServerLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.quiet:
		level = slog.LevelWarn
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
