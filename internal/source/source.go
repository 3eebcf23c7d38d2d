// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source provides the ways a document reaches the converter: a path
// on the command line, an interactive prompt, or a web upload. The caller
// picks the variant; nothing here inspects the host environment.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/resconv/pkg/types"
)

// Source yields the local path of a document to convert.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// CLIPath is a path given on the command line.
type CLIPath struct {
	Path string
}

// Fetch resolves the path to an absolute one and checks that it exists.
func (c CLIPath) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := strings.TrimSpace(c.Path)
	if p == "" {
		return "", types.NewError(types.KindNoUploadProvided,
			"no input provided: pass a file path or use --prompt", nil)
	}
	return checkFile(p)
}

// checkFile returns the absolute path of p after verifying it is a regular file.
func checkFile(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", types.NewError(types.KindMissingFile, fmt.Sprintf("file not found: %s", abs), err)
		}
		return "", fmt.Errorf("checking %s: %w", abs, err)
	}
	if info.IsDir() {
		return "", types.NewError(types.KindInvalidInput, fmt.Sprintf("%s is a directory", abs), nil)
	}
	return abs, nil
}
