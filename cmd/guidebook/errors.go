package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-guidebook"
	"github.com/alnah/go-guidebook/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrWriteOutput    = errors.New("failed to write output")
)

// withHint appends hint to err, keeping err inspectable with errors.Is.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// hintFor returns an actionable hint for errors whose hint needs no
// command context, or "".
func hintFor(err error) string {
	if strings.Contains(err.Error(), "\n  hint: ") {
		return ""
	}
	switch {
	case errors.Is(err, guidebook.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, guidebook.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, guidebook.ErrConfigParse):
		return hints.ForConfigParse(configPathOf(err))
	case errors.Is(err, guidebook.ErrConfigNotFound):
		return hints.ForConfigNotFound(guidebook.ConfigFileNames())
	case errors.Is(err, guidebook.ErrOutputDir):
		return hints.ForOutputDirectory()
	case errors.Is(err, guidebook.ErrInvalidTheme):
		return hints.ForThemeDirectory()
	}
	return ""
}

// configPathOf extracts the file name from a "failed to parse config: path: detail" error.
func configPathOf(err error) string {
	_, rest, ok := strings.Cut(err.Error(), guidebook.ErrConfigParse.Error()+": ")
	if !ok {
		return ""
	}
	path, _, _ := strings.Cut(rest, ": ")
	return path
}
