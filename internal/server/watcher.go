package server

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchedExts lists the source extensions that trigger a rebuild.
var watchedExts = map[string]bool{
	".md":   true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".css":  true,
	".js":   true,
	".html": true,
}

// ignoredDirs are never watched.
var ignoredDirs = map[string]bool{
	"node_modules": true,
	"_book":        true,
}

// newWatcher watches every directory of the source tree.
func (s *Server) newWatcher() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}
	if err := s.addTree(w, s.cfg.SourceDir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}
	return w, nil
}

// addTree adds root and its subdirectories, skipping hidden and ignored ones.
func (s *Server) addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != s.cfg.SourceDir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || ignoredDirs[name]
}

// relevant reports whether an event should trigger a rebuild.
func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return false
	}
	return watchedExts[strings.ToLower(filepath.Ext(name))]
}

// watch rebuilds once events stop arriving for the debounce period.
func (s *Server) watch(ctx context.Context, w *fsnotify.Watcher) {
	timer := time.NewTimer(s.cfg.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
					if err := s.addTree(w, ev.Name); err != nil {
						s.log.Warn("cannot watch new directory", "path", ev.Name, "error", err)
					}
					continue
				}
			}
			if !relevant(ev) {
				continue
			}
			s.log.Debug("source changed", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(s.cfg.Debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "error", err)

		case <-timer.C:
			if err := s.Rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.Error("rebuild failed, serving previous build", "error", err)
			}
		}
	}
}
