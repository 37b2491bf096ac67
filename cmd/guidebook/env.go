package main

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
	}
}

// output writes command progress honoring --quiet and --verbose.
type output struct {
	env     *Environment
	quiet   bool
	verbose bool
}

func newOutput(env *Environment, f commonFlags) *output {
	return &output{env: env, quiet: f.quiet, verbose: f.verbose && !f.quiet}
}

// Infof prints unless --quiet.
func (o *output) Infof(format string, args ...any) {
	if !o.quiet {
		fmt.Fprintf(o.env.Stdout, format+"\n", args...)
	}
}

// Debugf prints under --verbose only.
func (o *output) Debugf(format string, args ...any) {
	if o.verbose {
		fmt.Fprintf(o.env.Stderr, format+"\n", args...)
	}
}

// Warnf prints unless --quiet.
func (o *output) Warnf(format string, args ...any) {
	if !o.quiet {
		fmt.Fprintf(o.env.Stderr, "warning: "+format+"\n", args...)
	}
}

// Errorf always prints.
func (o *output) Errorf(format string, args ...any) {
	fmt.Fprintf(o.env.Stderr, format+"\n", args...)
}
