package main

import (
	"errors"
	"os"

	"github.com/alnah/go-guidebook"
	"github.com/alnah/go-guidebook/internal/server"
)

// Exit codes for the guidebook CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command succeeded
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or book structure
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitServer  = 5 // Dev server could not listen or watch
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Server errors (exit 5)
	if errors.Is(err, server.ErrListen) ||
		errors.Is(err, server.ErrWatch) {
		return ExitServer
	}

	// Browser errors (exit 4)
	if errors.Is(err, guidebook.ErrBrowserConnect) ||
		errors.Is(err, guidebook.ErrPageCreate) ||
		errors.Is(err, guidebook.ErrPageLoad) ||
		errors.Is(err, guidebook.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, guidebook.ErrOutputDir) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/book errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, guidebook.ErrConfigNotFound) ||
		errors.Is(err, guidebook.ErrConfigParse) ||
		errors.Is(err, guidebook.ErrInvalidConfig) ||
		errors.Is(err, guidebook.ErrFieldTooLong) ||
		errors.Is(err, guidebook.ErrSummaryNotFound) ||
		errors.Is(err, guidebook.ErrReadmeNotFound) ||
		errors.Is(err, guidebook.ErrInvalidTheme) ||
		errors.Is(err, guidebook.ErrInvalidPageSize) ||
		errors.Is(err, guidebook.ErrInvalidOrientation) ||
		errors.Is(err, guidebook.ErrInvalidMargin) {
		return ExitUsage
	}

	return ExitGeneral
}
