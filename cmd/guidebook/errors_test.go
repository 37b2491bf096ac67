package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-guidebook"
)

func TestWithHint(t *testing.T) {
	t.Parallel()

	err := withHint(ErrUsage, "\n  hint: try again")
	if !strings.HasSuffix(err.Error(), "hint: try again") {
		t.Errorf("withHint() = %q", err)
	}
	if hintFor(err) != "" {
		t.Error("hintFor() should not add a second hint")
	}
}

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"output dir", guidebook.ErrOutputDir, "writable"},
		{"theme", guidebook.ErrInvalidTheme, "theme"},
		{"plain", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := hintFor(tt.err)
			if tt.want == "" && got != "" {
				t.Errorf("hintFor(%v) = %q, want none", tt.err, got)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor(%v) = %q, want it to mention %q", tt.err, got, tt.want)
			}
		})
	}
}
