// Package yamlutil wraps goccy/go-yaml for book configuration and page front
// matter. JSON is read as YAML, so book.json goes through the same path.
package yamlutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes YAML or JSON into v. Unknown keys are ignored, and
// fields of v absent from the input keep their current value.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Marshal encodes v as block-style YAML.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// MarshalJSON encodes v as JSON through the YAML encoder, so the same struct
// tags apply.
func MarshalJSON(v any) ([]byte, error) {
	result, err := yaml.MarshalWithOptions(v, yaml.JSON())
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// SplitFrontMatter separates a leading front matter block, opened by a "---"
// line and closed by a "---" or "..." line, from the rest of a markdown
// document. ok is false when the document has no complete block; body is
// then the whole content.
func SplitFrontMatter(content string) (frontMatter, body string, ok bool) {
	first, rest, found := strings.Cut(content, "\n")
	if !found || strings.TrimRight(first, " \t\r") != "---" {
		return "", content, false
	}

	offset := 0
	for {
		line, next, more := strings.Cut(rest[offset:], "\n")
		switch strings.TrimRight(line, " \t\r") {
		case "---", "...":
			return rest[:offset], next, true
		}
		if !more {
			return "", content, false
		}
		offset += len(line) + 1
	}
}
