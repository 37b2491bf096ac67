package fileutil_test

// Notes:
// - TestWriteTempFile_CreateTempError sets TMPDIR through t.Setenv and so
//   cannot run in parallel with other tests.
// - The WriteString and Close error branches of WriteTempFile and CopyFile
//   are not tested: disk write failures are platform-specific.

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alnah/go-guidebook/internal/fileutil"
)

// writeTree creates files under dir from a map of slash paths to contents.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", rel, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{"valid extension html", "html", nil},
		{"empty extension", "", fileutil.ErrExtensionEmpty},
		{"forward slash path traversal", "../etc/passwd", fileutil.ErrExtensionPathTraversal},
		{"backslash path traversal", `..\windows`, fileutil.ErrExtensionPathTraversal},
		{"null byte injection", "html\x00exe", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary file creation
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	content := "<html><body>本 book</body></html>"
	path, cleanup, err := fileutil.WriteTempFile(content, "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}

	if !strings.Contains(filepath.Base(path), "guidebook-") || !strings.HasSuffix(path, ".html") {
		t.Errorf("WriteTempFile() path = %q, want guidebook-*.html", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(data) != content {
		t.Errorf("file content = %q, want %q", data, content)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after cleanup at %s", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, cleanup, err := fileutil.WriteTempFile("content", "../foo")
	if cleanup != nil {
		t.Error("WriteTempFile() returned cleanup with an error")
	}
	if !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("WriteTempFile() error = %v, want ErrExtensionPathTraversal", err)
	}
}

func TestWriteTempFile_CreateTempError(t *testing.T) {
	t.Setenv("TMPDIR", "/nonexistent/path/that/does/not/exist")

	_, cleanup, err := fileutil.WriteTempFile("content", "html")
	if cleanup != nil {
		defer cleanup()
	}
	if err == nil || !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("WriteTempFile() error = %v, want error containing 'creating temp file'", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestDirExists - Existence checks
// ---------------------------------------------------------------------------

func TestFileExistsAndDirExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"sub/file.txt": "x"})
	file := filepath.Join(dir, "sub", "file.txt")
	sub := filepath.Join(dir, "sub")
	missing := filepath.Join(dir, "missing")

	tests := []struct {
		path     string
		wantFile bool
		wantDir  bool
	}{
		{file, true, false},
		{sub, false, true},
		{missing, false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := fileutil.FileExists(tt.path); got != tt.wantFile {
			t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.wantFile)
		}
		if got := fileutil.DirExists(tt.path); got != tt.wantDir {
			t.Errorf("DirExists(%q) = %v, want %v", tt.path, got, tt.wantDir)
		}
	}
}

// ---------------------------------------------------------------------------
// TestWriteFile / TestCopyFile - Writing into the output tree
// ---------------------------------------------------------------------------

func TestWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	dst := filepath.Join(t.TempDir(), "a", "b", "index.html")
	if err := fileutil.WriteFile(dst, []byte("<p>x</p>")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "<p>x</p>" {
		t.Errorf("ReadFile() = %q, %v, want <p>x</p>", data, err)
	}
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"img/logo.png": "\x89PNG"})
	dst := filepath.Join(t.TempDir(), "out", "img", "logo.png")

	if err := fileutil.CopyFile(filepath.Join(src, "img", "logo.png"), dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "\x89PNG" {
		t.Errorf("copied content = %q, %v", data, err)
	}

	if err := fileutil.CopyFile(filepath.Join(src, "missing.png"), dst); err == nil {
		t.Error("CopyFile(missing) error = nil, want error")
	}
}

// ---------------------------------------------------------------------------
// TestCopyTree - Recursive copy with skip rules
// ---------------------------------------------------------------------------

func TestCopyTree(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"README.md":             "# Home",
		"images/a.png":          "a",
		"guide/assets/data.csv": "1,2",
		".git/config":           "secret",
		"_book/index.html":      "old",
	})
	dst := t.TempDir()

	skip := func(rel string, d fs.DirEntry) bool {
		return fileutil.IsHidden(rel) || rel == "_book" || strings.HasSuffix(rel, ".md")
	}
	copied, err := fileutil.CopyTree(src, dst, skip)
	if err != nil {
		t.Fatalf("CopyTree() error = %v", err)
	}

	slices.Sort(copied)
	want := []string{"guide/assets/data.csv", "images/a.png"}
	if !slices.Equal(copied, want) {
		t.Errorf("CopyTree() copied = %v, want %v", copied, want)
	}
	for _, rel := range []string{".git/config", "_book/index.html", "README.md"} {
		if fileutil.FileExists(filepath.Join(dst, filepath.FromSlash(rel))) {
			t.Errorf("CopyTree() copied skipped file %s", rel)
		}
	}
}

func TestCopyTree_NotDirectory(t *testing.T) {
	t.Parallel()

	_, err := fileutil.CopyTree(filepath.Join(t.TempDir(), "missing"), t.TempDir(), nil)
	if !errors.Is(err, fileutil.ErrNotDirectory) {
		t.Errorf("CopyTree(missing) error = %v, want ErrNotDirectory", err)
	}
}

// ---------------------------------------------------------------------------
// TestIsHidden / TestIsURL - Path classification
// ---------------------------------------------------------------------------

func TestIsHidden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want bool
	}{
		{".git", true},
		{"docs/.DS_Store", true},
		{".github/workflows/ci.yml", true},
		{"docs/intro.md", false},
		{"../outside", false},
		{"file.with.dots", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsHidden(tt.rel); got != tt.want {
			t.Errorf("IsHidden(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"http://example.com", true},
		{"https://example.com", true},
		{"/path/to/file", false},
		{"./file.txt", false},
		{"", false},
		{"ftp://example.com", false},
		{"HTTP://example.com", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsURL(tt.input); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
