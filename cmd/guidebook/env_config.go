package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-guidebook"
)

// envConfig holds configuration from GUIDEBOOK_* environment variables.
// Precedence: CLI flags > environment > config file > defaults.
type envConfig struct {
	ConfigPath string        // GUIDEBOOK_CONFIG: config file path
	Output     string        // GUIDEBOOK_OUTPUT: build directory or PDF file
	Theme      string        // GUIDEBOOK_THEME: theme directory
	Timeout    time.Duration // GUIDEBOOK_TIMEOUT: PDF export timeout
	Workers    int           // GUIDEBOOK_WORKERS: pages rendered at once
	Host       string        // GUIDEBOOK_HOST: dev server host
	Port       int           // GUIDEBOOK_PORT: dev server port, -1 when unset
	PageSize   string        // GUIDEBOOK_PAGE_SIZE: letter, a4, legal
}

// knownEnvVars lists the recognized GUIDEBOOK_* variables.
var knownEnvVars = map[string]bool{
	"GUIDEBOOK_CONFIG":    true,
	"GUIDEBOOK_OUTPUT":    true,
	"GUIDEBOOK_THEME":     true,
	"GUIDEBOOK_TIMEOUT":   true,
	"GUIDEBOOK_WORKERS":   true,
	"GUIDEBOOK_HOST":      true,
	"GUIDEBOOK_PORT":      true,
	"GUIDEBOOK_PAGE_SIZE": true,
	"GUIDEBOOK_CONTAINER": true, // read by doctor
}

// loadEnvConfig reads the GUIDEBOOK_* variables. Malformed numbers and
// durations are ignored.
func loadEnvConfig(env *Environment) *envConfig {
	cfg := &envConfig{
		ConfigPath: env.Getenv("GUIDEBOOK_CONFIG"),
		Output:     env.Getenv("GUIDEBOOK_OUTPUT"),
		Theme:      env.Getenv("GUIDEBOOK_THEME"),
		Host:       env.Getenv("GUIDEBOOK_HOST"),
		PageSize:   env.Getenv("GUIDEBOOK_PAGE_SIZE"),
		Port:       portUnset,
	}

	if timeout := env.Getenv("GUIDEBOOK_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := env.Getenv("GUIDEBOOK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	if port := env.Getenv("GUIDEBOOK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p >= 0 && p <= 65535 {
			cfg.Port = p
		}
	}

	return cfg
}

// unknownEnvVars returns GUIDEBOOK_* variables that are not recognized,
// catching typos like GUIDEBOOK_PROT.
func unknownEnvVars(env *Environment) []string {
	var unknown []string
	for _, kv := range env.Environ() {
		if !strings.HasPrefix(kv, "GUIDEBOOK_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// warnUnknownEnvVars prints a warning per unrecognized GUIDEBOOK_* variable.
func warnUnknownEnvVars(env *Environment, out *output) {
	for _, name := range unknownEnvVars(env) {
		out.Warnf("unknown environment variable %s (typo?)", name)
	}
}

// applyEnvConfig overrides config file values with the environment.
func applyEnvConfig(env *envConfig, cfg *guidebook.Config) {
	if env.Output != "" {
		cfg.Output = env.Output
	}
	if env.Theme != "" {
		cfg.Theme = env.Theme
	}
	if env.Host != "" {
		cfg.Serve.Host = env.Host
	}
	if env.Port != portUnset {
		cfg.Serve.Port = env.Port
	}
	if env.PageSize != "" {
		cfg.PDF.PageSize = env.PageSize
	}
}
