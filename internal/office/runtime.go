// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package office locates the office-suite binary and runs headless document
// conversions with it.
package office

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	binSoffice     = "soffice"
	binLibreoffice = "libreoffice"

	// profileDir is created inside the output directory so that concurrent
	// invocations never share a LibreOffice user profile (and its lock file).
	profileDir = ".profile"
)

// ErrNotFound is wrapped by Detect when no office binary can be located.
var ErrNotFound = errors.New("office suite binary not found")

// Suite runs conversions with an office-suite binary.
type Suite interface {
	// Name returns the binary name ("soffice" or "libreoffice").
	Name() string

	// Path returns the resolved binary path.
	Path() string

	// Convert converts input into format, writing into outDir. It returns the
	// path of the produced file.
	Convert(ctx context.Context, input, outDir, format string) (string, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunCombined(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// suite implements Suite for a resolved binary.
type suite struct {
	name    string
	path    string
	timeout time.Duration
	exec    executor
}

func (s *suite) Name() string { return s.name }

func (s *suite) Path() string { return s.path }

func (s *suite) Convert(ctx context.Context, input, outDir, format string) (string, error) {
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory %s: %w", outDir, err)
	}
	absIn, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("resolving input %s: %w", input, err)
	}

	profile := filepath.Join(absOut, profileDir)
	if err := os.MkdirAll(profile, 0o755); err != nil {
		return "", fmt.Errorf("creating office profile directory: %w", err)
	}
	defer os.RemoveAll(profile)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	args := []string{
		"-env:UserInstallation=file://" + filepath.ToSlash(profile),
		"--headless",
		"--convert-to", format,
		"--outdir", absOut,
		absIn,
	}
	out, err := s.exec.RunCombined(ctx, s.path, args...)
	if err != nil {
		return "", fmt.Errorf("%s --convert-to %s failed: %w, output: %s",
			s.name, format, err, strings.TrimSpace(string(out)))
	}

	produced, err := OutputPath(absIn, absOut, format)
	if err != nil {
		return "", fmt.Errorf("%s reported success: %w", s.name, err)
	}
	return produced, nil
}

// OutputPath returns the file the office suite writes for input when
// converting to format inside outDir: the input's base name with the new
// extension. When that exact name is missing, a case-insensitive match is
// accepted.
func OutputPath(input, outDir, format string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	want := base + "." + format
	expected := filepath.Join(outDir, want)
	if _, err := os.Stat(expected); err == nil {
		return expected, nil
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", outDir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), want) {
			return filepath.Join(outDir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no output file %s found in %s", want, outDir)
}

// Options configures detection.
type Options struct {
	// Binary, when set, is the only candidate tried.
	Binary string
	// Timeout bounds each conversion; zero means none.
	Timeout time.Duration
}

var defaultExec = &osExecutor{}

// Detect locates the office suite. With opts.Binary set only that binary is
// tried; otherwise soffice is preferred and libreoffice is the fallback.
// The returned error wraps ErrNotFound when nothing is found.
func Detect(opts Options) (Suite, error) {
	return detect(defaultExec, opts)
}

func detect(exec executor, opts Options) (Suite, error) {
	candidates := []string{binSoffice, binLibreoffice}
	if opts.Binary != "" {
		candidates = []string{opts.Binary}
	}

	for _, bin := range candidates {
		path, err := exec.LookPath(bin)
		if err != nil {
			continue
		}
		return &suite{
			name:    filepath.Base(bin),
			path:    path,
			timeout: opts.Timeout,
			exec:    exec,
		}, nil
	}

	return nil, fmt.Errorf("%w: tried %s on PATH", ErrNotFound, strings.Join(candidates, ", "))
}
