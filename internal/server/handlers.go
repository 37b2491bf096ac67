package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-guidebook/internal/fileutil"
	"github.com/alnah/go-guidebook/internal/pipeline"
)

const indexFile = "index.html"

// contentTypes maps served file extensions to their Content-Type.
var contentTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".txt":   "text/plain; charset=utf-8",
	".xml":   "application/xml; charset=utf-8",
	".pdf":   "application/pdf",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
}

const defaultContentType = "application/octet-stream"

func contentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return defaultContentType
}

type liveReloadResponse struct {
	Reload  bool   `json:"reload"`
	Version uint64 `json:"version"`
}

// handleLiveReload tells a page served at version v whether a newer build
// exists. A missing or malformed v counts as 0.
func (s *Server) handleLiveReload(w http.ResponseWriter, r *http.Request) {
	client, _ := strconv.ParseUint(r.URL.Query().Get("v"), 10, 64)
	current := s.Version()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(liveReloadResponse{Reload: client < current, Version: current})
}

// handleStatic serves files of the current build. Directory paths get their
// index.html, extensionless paths are retried with .html, and HTML pages get
// the reload poller.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	root := s.Dir()
	if root == "" {
		http.Error(w, "book not built yet", http.StatusServiceUnavailable)
		return
	}

	file, ok := resolveFile(root, r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	data, err := os.ReadFile(file) // #nosec G304 -- resolved under the build directory
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ct := contentType(file)
	if strings.HasPrefix(ct, "text/html") {
		data = []byte(pipeline.InjectLiveReload(string(data), s.Version()))
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// resolveFile maps a URL path to a file under root. The cleaned path cannot
// climb out of root.
func resolveFile(root, urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	if strings.HasSuffix(urlPath, "/") {
		clean = path.Join(clean, indexFile)
	}
	file := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))

	candidates := []string{file, file + ".html", filepath.Join(file, indexFile)}
	for _, c := range candidates {
		if fileutil.FileExists(c) {
			return c, true
		}
	}
	return "", false
}
