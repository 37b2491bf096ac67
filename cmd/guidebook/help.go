package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: guidebook <command> [flags] [book]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  init       Create README.md, SUMMARY.md and book.json")
	fmt.Fprintln(w, "  build      Build the book as a static website")
	fmt.Fprintln(w, "  serve      Serve the book and rebuild on changes")
	fmt.Fprintln(w, "  pdf        Export the book as one PDF")
	fmt.Fprintln(w, "  doctor     Check the book, Chrome and the environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The book directory defaults to the current directory.")
	fmt.Fprintln(w, "Run 'guidebook help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "  -c, --config <path>       Config file (default: book.json, book.yaml, book.yml)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-page timing and debug logs")
}

func printThemeFlags(w io.Writer) {
	fmt.Fprintln(w, "      --theme <dir>         Theme directory overriding the built-in theme")
	fmt.Fprintln(w, "      --highlight <style>   Syntax highlighting with a chroma style")
	fmt.Fprintln(w, "  -w, --workers <n>         Pages rendered at once (0 = auto)")
}

func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: guidebook init [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Create the files of a new book. Existing files are kept; pages linked")
	fmt.Fprintln(w, "from an existing SUMMARY.md are created when missing.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <path>       Config file to create (default: <dir>/book.json)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: guidebook build [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the book as a static website.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: config output or _book)")
	printThemeFlags(w)
	printCommonFlags(w)
}

func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: guidebook serve [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the book with live reload. Sources are watched and the book is")
	fmt.Fprintln(w, "rebuilt on change; a failed rebuild keeps the previous version online.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --host <addr>         Address to listen on (default: 127.0.0.1)")
	fmt.Fprintln(w, "  -p, --port <n>            Port to listen on (default: 4000, 0 = any free port)")
	printThemeFlags(w)
	printCommonFlags(w)
}

func printPDFUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: guidebook pdf [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export the whole book as one PDF with headless Chrome.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <file>       PDF file (default: book.pdf)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --page-size <s>       Page size: letter, a4, legal (default: letter)")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape (default: portrait)")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches, 0.25-3.0 (default: 0.5)")
	fmt.Fprintln(w, "      --no-cover            Disable cover page")
	fmt.Fprintln(w, "      --no-toc              Disable table of contents")
	fmt.Fprintln(w, "      --html                Also write the printed HTML")
	printThemeFlags(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Chrome binary to use")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1          Disable the Chrome sandbox (Docker/CI)")
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: guidebook doctor [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the book structure, the config, Chrome and the environment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print the report as JSON")
	printCommonFlags(w)
}

func printVersionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: guidebook version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show version information.")
}

func printHelpUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: guidebook help [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show help for a command.")
}

// commandUsage maps command names to their usage printers.
var commandUsage = map[string]func(io.Writer){
	"init":    printInitUsage,
	"build":   printBuildUsage,
	"serve":   printServeUsage,
	"pdf":     printPDFUsage,
	"doctor":  printDoctorUsage,
	"version": printVersionUsage,
	"help":    printHelpUsage,
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	usage, ok := commandUsage[args[0]]
	if !ok {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	usage(env.Stdout)
	return ExitSuccess
}
