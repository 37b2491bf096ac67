package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// portUnset detects if --port was explicitly set. Port 0 is valid (any
// free port), so an out-of-range sentinel is used.
const portUnset = -1

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// themeFlags holds rendering flags shared by build, serve and pdf.
type themeFlags struct {
	theme     string
	highlight string
	workers   int
}

// buildFlags holds flags for the build command.
type buildFlags struct {
	common commonFlags
	render themeFlags
	output string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	render themeFlags
	host   string
	port   int
}

// pdfFlags holds flags for the pdf command.
type pdfFlags struct {
	common      commonFlags
	render      themeFlags
	output      string
	timeout     string
	pageSize    string
	orientation string
	margin      float64
	noCover     bool
	noTOC       bool
	html        bool
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file path (default: book.json, book.yaml)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-page timing and debug logs")
}

// addThemeFlags adds rendering flags to a FlagSet.
func addThemeFlags(fs *flag.FlagSet, f *themeFlags) {
	fs.StringVar(&f.theme, "theme", "", "theme directory overriding the built-in theme")
	fs.StringVar(&f.highlight, "highlight", "", "syntax highlighting style (chroma name)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "pages rendered at once (0 = auto)")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting and
// keeps pflag's own usage output quiet.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses args, marking every failure but a help request as ErrUsage.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUsage, err)
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string) (*buildFlags, []string, error) {
	fs := newFlagSet("build")
	f := &buildFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory (default: _book)")
	addCommonFlags(fs, &f.common)
	addThemeFlags(fs, &f.render)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string) (*serveFlags, []string, error) {
	fs := newFlagSet("serve")
	f := &serveFlags{}

	fs.StringVar(&f.host, "host", "", "address to listen on (default: 127.0.0.1)")
	fs.IntVarP(&f.port, "port", "p", portUnset, "port to listen on (default: 4000, 0 = any free port)")
	addCommonFlags(fs, &f.common)
	addThemeFlags(fs, &f.render)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parsePDFFlags parses pdf command flags and returns positional args.
func parsePDFFlags(args []string) (*pdfFlags, []string, error) {
	fs := newFlagSet("pdf")
	f := &pdfFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "PDF file (default: book.pdf)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.pageSize, "page-size", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
	fs.BoolVar(&f.noCover, "no-cover", false, "disable cover page")
	fs.BoolVar(&f.noTOC, "no-toc", false, "disable table of contents")
	fs.BoolVar(&f.html, "html", false, "also write the printed HTML next to the PDF")
	addCommonFlags(fs, &f.common)
	addThemeFlags(fs, &f.render)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags and returns positional args.
func parseDoctorFlags(args []string) (*doctorFlags, []string, error) {
	fs := newFlagSet("doctor")
	f := &doctorFlags{}

	fs.BoolVar(&f.json, "json", false, "print the report as JSON")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseInitFlags parses init command flags and returns positional args.
func parseInitFlags(args []string) (*commonFlags, []string, error) {
	fs := newFlagSet("init")
	f := &commonFlags{}
	addCommonFlags(fs, f)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
