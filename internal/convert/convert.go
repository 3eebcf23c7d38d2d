// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs DOCX⇄PDF conversions through ordered fallback tiers.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/resconv/internal/logger"
	"github.com/pdiddy/resconv/internal/office"
	"github.com/pdiddy/resconv/pkg/types"
)

// Converter is one fallback tier. Different backends (in-process library,
// office suite, PDF text layer) implement this interface.
type Converter interface {
	// Name identifies the tier in logs, outcomes and diagnostics.
	Name() string

	// Convert reads the document at src and writes the converted document
	// to dst.
	Convert(ctx context.Context, src, dst string) error
}

// Attempt records one tier's try. Err is nil for the tier that succeeded.
type Attempt struct {
	Tier string
	Err  error
}

// Outcome describes how a conversion was produced.
type Outcome struct {
	Direction types.Direction
	// Tier is the name of the tier that produced the output; empty on failure.
	Tier     string
	Attempts []Attempt
	Duration time.Duration
}

// Fallbacks reports how many tiers failed before the winning one.
func (o Outcome) Fallbacks() int {
	n := 0
	for _, a := range o.Attempts {
		if a.Err != nil {
			n++
		}
	}
	return n
}

// Orchestrator holds the tier chains for both directions. It keeps no
// per-request state and is safe for concurrent use.
type Orchestrator struct {
	docxToPDF []Converter
	pdfToDocx []Converter
	log       *zap.Logger
}

// Options configures New.
type Options struct {
	Office office.Options
	Logger *zap.Logger
}

// New builds the default chains:
//
//	docx→pdf: native library, then office suite
//	pdf→docx: office suite, then PDF text layer
func New(opts Options) *Orchestrator {
	off := NewOfficeConverter(func() (office.Suite, error) {
		return office.Detect(opts.Office)
	})
	return NewWithTiers(
		[]Converter{NewNativeConverter(), off},
		[]Converter{off, NewTextLayerConverter()},
		opts.Logger,
	)
}

// NewWithTiers builds an orchestrator from explicit chains.
func NewWithTiers(docxToPDF, pdfToDocx []Converter, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		docxToPDF: docxToPDF,
		pdfToDocx: pdfToDocx,
		log:       logger.OrNop(log),
	}
}

// Convert dispatches req to the chain for its direction.
func (o *Orchestrator) Convert(ctx context.Context, req types.ConversionRequest) (Outcome, error) {
	switch req.Direction {
	case types.DocxToPDF:
		return o.DocxToPDF(ctx, req.SourcePath, req.DestinationPath)
	case types.PDFToDocx:
		return o.PDFToDocx(ctx, req.SourcePath, req.DestinationPath)
	}
	return Outcome{Direction: req.Direction}, types.NewError(types.KindInvalidInput,
		fmt.Sprintf("unknown conversion direction %q", req.Direction), nil)
}

// DocxToPDF converts src to dst. When every tier fails because the office
// suite is missing the error kind is DependencyMissing.
func (o *Orchestrator) DocxToPDF(ctx context.Context, src, dst string) (Outcome, error) {
	return o.run(ctx, types.DocxToPDF, o.docxToPDF, src, dst)
}

// PDFToDocx converts src to dst, preferring the office suite.
func (o *Orchestrator) PDFToDocx(ctx context.Context, src, dst string) (Outcome, error) {
	return o.run(ctx, types.PDFToDocx, o.pdfToDocx, src, dst)
}

func (o *Orchestrator) run(ctx context.Context, dir types.Direction, tiers []Converter, src, dst string) (Outcome, error) {
	start := time.Now()
	out := Outcome{Direction: dir}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return out, fmt.Errorf("creating output directory for %s: %w", dst, err)
	}

	// Tiers write to a partial file so that a failed chain never touches a
	// file already at dst.
	partial := partialPath(dst)
	defer os.Remove(partial)

	var (
		diagnostics []error
		last        error
	)
	for _, tier := range tiers {
		if err := ctx.Err(); err != nil {
			out.Duration = time.Since(start)
			return out, types.NewError(types.KindConversionFailed,
				fmt.Sprintf("%s conversion cancelled after %d tier(s)", dir, len(out.Attempts)),
				errors.Join(append(diagnostics, err)...))
		}

		err := tier.Convert(ctx, src, partial)
		if err == nil {
			err = checkOutput(partial)
		}
		if err == nil {
			if err = os.Rename(partial, dst); err != nil {
				err = fmt.Errorf("moving output to %s: %w", dst, err)
			}
		}
		if err == nil {
			out.Tier = tier.Name()
			out.Attempts = append(out.Attempts, Attempt{Tier: tier.Name()})
			out.Duration = time.Since(start)
			o.log.Info("conversion complete",
				zap.Stringer("direction", dir),
				zap.String("tier", tier.Name()),
				zap.String("destination", dst),
				zap.Duration("duration", out.Duration),
			)
			return out, nil
		}

		o.log.Debug("tier failed, falling back",
			zap.Stringer("direction", dir),
			zap.String("tier", tier.Name()),
			zap.Error(err),
		)
		out.Attempts = append(out.Attempts, Attempt{Tier: tier.Name(), Err: err})
		diagnostics = append(diagnostics, fmt.Errorf("%s: %w", tier.Name(), err))
		last = err
		_ = os.Remove(partial)
	}

	out.Duration = time.Since(start)
	combined := errors.Join(diagnostics...)

	var missing *types.Error
	if errors.As(last, &missing) && missing.Kind == types.KindDependencyMissing {
		return out, types.NewError(types.KindDependencyMissing,
			fmt.Sprintf("%s conversion failed and %s", dir, missing.Message), combined)
	}
	return out, types.NewError(types.KindConversionFailed,
		fmt.Sprintf("%s conversion failed after %d tier(s)", dir, len(tiers)), combined)
}

// partialPath returns a hidden sibling of dst with the same extension, which
// the office tier uses to infer the target format.
func partialPath(dst string) string {
	ext := filepath.Ext(dst)
	stem := strings.TrimSuffix(filepath.Base(dst), ext)
	return filepath.Join(filepath.Dir(dst), "."+stem+".partial-"+uuid.NewString()+ext)
}

// checkOutput verifies that a tier reporting success left a readable file.
func checkOutput(dst string) error {
	info, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("reported success but %s is missing: %w", dst, err)
	}
	if info.IsDir() {
		return fmt.Errorf("reported success but %s is a directory", dst)
	}
	return nil
}
