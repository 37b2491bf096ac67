// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-guidebook/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors during PDF
// export. Detects CI/Docker environment and suggests relevant environment
// variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the PDF export timeout.
func ForTimeout() string {
	return format("for large books, use --timeout flag")
}

// ForSummaryNotFound returns hints when the book has no summary file.
func ForSummaryNotFound(summary string) string {
	return format("create " + summary + " or run 'guidebook init'")
}

// ForConfigParse returns hints for a config file that does not decode.
func ForConfigParse(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return format("check " + path + " is valid JSON (no trailing commas or comments)")
	}
	return format("check " + path + " is valid YAML (indent with spaces, not tabs)")
}

// ForConfigNotFound returns hints when an explicit --config file is missing.
func ForConfigNotFound(searched []string) string {
	if len(searched) == 0 {
		return format("omit --config to use defaults")
	}
	return format("omit --config to look for " + strings.Join(searched, ", "))
}

// ForPortInUse returns hints when the dev server cannot bind its port.
func ForPortInUse(port int) string {
	return format("port " + strconv.Itoa(port) + " is taken; use --port with another value, or --port 0 for any free port")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForThemeDirectory returns hints for an unusable theme directory.
func ForThemeDirectory() string {
	return format("theme must be a directory with styles/, templates/ or scripts/; remove it to use the built-in theme")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
