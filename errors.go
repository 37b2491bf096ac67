package guidebook

import (
	"errors"

	"github.com/alnah/go-guidebook/internal/assets"
	"github.com/alnah/go-guidebook/internal/book"
	"github.com/alnah/go-guidebook/internal/config"
)

// Sentinel errors for library operations.
var (
	ErrPageRender     = errors.New("page rendering failed")
	ErrTemplateRender = errors.New("page template rendering failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrOutputDir      = errors.New("cannot write output directory")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Book loading errors.
	ErrSummaryNotFound = book.ErrSummaryNotFound
	ErrReadmeNotFound  = book.ErrReadmeNotFound

	// Configuration errors.
	ErrConfigNotFound = config.ErrConfigNotFound
	ErrConfigParse    = config.ErrConfigParse
	ErrInvalidConfig  = config.ErrInvalidValue
	ErrFieldTooLong   = config.ErrFieldTooLong

	// Theme errors.
	ErrInvalidTheme = assets.ErrInvalidBasePath
)
