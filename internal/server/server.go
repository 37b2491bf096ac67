// Package server serves a built book over HTTP while watching its sources.
// Each rebuild goes into a fresh directory; the served directory is swapped
// only when the build succeeds, and open pages poll /__livereload to learn
// about the new version.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Sentinel errors for server operations.
var (
	ErrListen     = errors.New("cannot listen")
	ErrBuild      = errors.New("book build failed")
	ErrWatch      = errors.New("cannot watch book sources")
	ErrNotStarted = errors.New("server is not listening")
)

// Default timings.
const (
	DefaultDebounce = 200 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// BuildFunc builds the book into dir, an empty directory.
type BuildFunc func(ctx context.Context, dir string) error

// Config configures a Server.
type Config struct {
	Addr      string        // host:port, port 0 picks a free one
	SourceDir string        // book directory to watch
	Build     BuildFunc     // called for the first build and every rebuild
	Logger    *slog.Logger  // nil discards logs
	Debounce  time.Duration // quiet period before a rebuild, 0 for DefaultDebounce
}

// Server is a live-reloading static file server for one book.
type Server struct {
	cfg     Config
	log     *slog.Logger
	router  chi.Router
	workDir string // parent of every build directory

	served   atomic.Pointer[string] // current build directory
	version  atomic.Uint64          // incremented after each successful build
	mu       sync.Mutex             // serializes builds
	previous string                 // build directory replaced last, removed on the next swap

	listener net.Listener
}

// New creates a Server. Nothing is built or bound until Rebuild and Listen.
func New(cfg Config) (*Server, error) {
	if cfg.Build == nil {
		return nil, errors.New("server: nil BuildFunc")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	workDir, err := os.MkdirTemp("", "guidebook-serve-*")
	if err != nil {
		return nil, fmt.Errorf("creating build directory: %w", err)
	}

	s := &Server{cfg: cfg, log: log, workDir: workDir}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.log))

	r.Get("/__livereload", s.handleLiveReload)
	r.Get("/*", s.handleStatic)

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Version returns the number of successful builds.
func (s *Server) Version() uint64 {
	return s.version.Load()
}

// Dir returns the directory being served, or "" before the first build.
func (s *Server) Dir() string {
	if p := s.served.Load(); p != nil {
		return *p
	}
	return ""
}

// Rebuild builds the book into a fresh directory and serves it. On failure
// the previous build stays in place and the version does not change.
func (s *Server) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := os.MkdirTemp(s.workDir, "build-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuild, err)
	}

	start := time.Now()
	if err := s.cfg.Build(ctx, dir); err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("%w: %w", ErrBuild, err)
	}

	old := s.served.Swap(&dir)
	version := s.version.Add(1)

	// Requests started before the swap may still read the replaced build,
	// so only the one before it is removed.
	if s.previous != "" {
		_ = os.RemoveAll(s.previous)
	}
	if old != nil {
		s.previous = *old
	}

	s.log.Info("book built", "version", version, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Listen binds the configured address.
func (s *Server) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("%w on %s: %v", ErrListen, s.cfg.Addr, err)
	}
	s.listener = ln
	return ln.Addr(), nil
}

// Serve serves HTTP on the bound address and rebuilds on source changes
// until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return ErrNotStarted
	}

	w, err := s.newWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go s.watch(watchCtx, w)

	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// Close removes every build directory.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.served.Store(nil)
	s.previous = ""
	return os.RemoveAll(s.workDir)
}
