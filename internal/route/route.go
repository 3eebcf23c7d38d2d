// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package route decides the target format and output path for a source
// document.
package route

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/resconv/pkg/types"
)

// DefaultName is the output base name used when neither an output path nor
// Options.DefaultName is given.
const DefaultName = "output_resume"

// Options carries the caller's optional overrides.
type Options struct {
	// To forces the target format ("pdf" or "docx"). Empty means the
	// opposite of the source format.
	To string

	// Output is the requested output path. Its extension is coerced to the
	// target format when it does not match.
	Output string

	// DefaultName is the base name used when Output is empty.
	DefaultName string
}

// SourceFormat returns the format of sourcePath or an InvalidInput error.
func SourceFormat(sourcePath string) (types.Format, error) {
	f, ok := types.FormatOf(sourcePath)
	if !ok {
		return "", types.NewError(types.KindInvalidInput,
			fmt.Sprintf("unsupported file %q: only .docx and .pdf files are supported", filepath.Base(sourcePath)), nil)
	}
	return f, nil
}

// TargetFor returns the default target format for sourcePath.
func TargetFor(sourcePath string) (types.Format, error) {
	src, err := SourceFormat(sourcePath)
	if err != nil {
		return "", err
	}
	return src.Opposite(), nil
}

// Resolve builds the conversion request for sourcePath.
func Resolve(sourcePath string, opts Options) (types.ConversionRequest, error) {
	src, err := SourceFormat(sourcePath)
	if err != nil {
		return types.ConversionRequest{}, err
	}

	target := src.Opposite()
	if opts.To != "" {
		target, err = types.ParseFormat(opts.To)
		if err != nil {
			return types.ConversionRequest{}, types.NewError(types.KindInvalidInput,
				fmt.Sprintf("cannot convert to %q: choose pdf or docx", opts.To), nil)
		}
	}
	if target == src {
		return types.ConversionRequest{}, types.NewError(types.KindInvalidInput,
			"input and output types are the same; choose the opposite format", nil)
	}

	dir, err := types.DirectionFor(src, target)
	if err != nil {
		return types.ConversionRequest{}, types.NewError(types.KindInvalidInput, "unsupported conversion", err)
	}

	return types.ConversionRequest{
		SourcePath:      sourcePath,
		DestinationPath: outputPath(opts, target),
		Direction:       dir,
	}, nil
}

func outputPath(opts Options, target types.Format) string {
	if opts.Output == "" {
		name := opts.DefaultName
		if name == "" {
			name = DefaultName
		}
		return name + target.Ext()
	}
	ext := filepath.Ext(opts.Output)
	if strings.EqualFold(ext, target.Ext()) {
		return opts.Output
	}
	return strings.TrimSuffix(opts.Output, ext) + target.Ext()
}
