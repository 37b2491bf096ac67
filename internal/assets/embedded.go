package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/*.css templates/*.html scripts/*.js
var theme embed.FS

// EmbeddedLoader loads the built-in theme compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (e *EmbeddedLoader) read(dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := theme.ReadFile(dir + "/" + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(content), nil
}

// LoadStyle loads a built-in stylesheet.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.read("styles", name, ".css", ErrStyleNotFound)
}

// LoadTemplate loads a built-in HTML template.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.read("templates", name, ".html", ErrTemplateNotFound)
}

// LoadScript loads a built-in script.
func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	return e.read("scripts", name, ".js", ErrScriptNotFound)
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
