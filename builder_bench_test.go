//go:build bench

package guidebook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// generateBookFiles returns a book with n chapters of mixed content.
func generateBookFiles(n int) map[string]string {
	files := map[string]string{
		"README.md": "# Bench Book\n\nIntroduction.\n",
	}
	var summary strings.Builder
	summary.WriteString("# Summary\n\n* [Introduction](README.md)\n")
	for i := range n {
		name := fmt.Sprintf("part%d/chapter%d.md", i%4, i)
		fmt.Fprintf(&summary, "* [Chapter %d](%s)\n", i, name)
		files[name] = generateChapterMarkdown(i)
	}
	files["SUMMARY.md"] = summary.String()
	return files
}

func generateChapterMarkdown(i int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Chapter %d\n\n", i)
	for s := range 5 {
		fmt.Fprintf(&sb, "## Section %d.%d\n\n", i, s)
		sb.WriteString("Some **bold** text with a footnote[^n] and https://example.com.\n\n")
		sb.WriteString("| a | b |\n|---|---|\n| 1 | 2 |\n\n")
		sb.WriteString("```go\nfunc main() {}\n```\n\n")
	}
	sb.WriteString("[^n]: A note\n    with a second line\n")
	return sb.String()
}

func writeBenchBook(b *testing.B, files map[string]string) string {
	b.Helper()
	dir := b.TempDir()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			b.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			b.Fatal(err)
		}
	}
	return dir
}

// BenchmarkRender benchmarks the page rendering pipeline.
func BenchmarkRender(b *testing.B) {
	inputs := []struct {
		name    string
		content string
	}{
		{"minimal", "# Hello\n\nWorld"},
		{"chapter", generateChapterMarkdown(1)},
		{"large", strings.Repeat(generateChapterMarkdown(1), 20)},
	}

	r := NewRenderer()
	for _, input := range inputs {
		b.Run(input.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := r.Render(Document{Markdown: input.content, Path: "part/page.md"}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkBuild benchmarks whole-book builds at several worker counts.
func BenchmarkBuild(b *testing.B) {
	dir := writeBenchBook(b, generateBookFiles(40))
	bk, err := OpenBook(dir, nil)
	if err != nil {
		b.Fatal(err)
	}

	for _, workers := range []int{1, 4, 0} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			builder := NewBuilder(WithWorkers(workers))
			outDir := b.TempDir()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := builder.Build(context.Background(), bk, outDir); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
