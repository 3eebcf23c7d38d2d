// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"os"

	docx2pdf "github.com/DwifteJB/docx2pdf-bytes"
)

// NativeConverter converts DOCX to PDF in-process with the docx2pdf-bytes
// library.
type NativeConverter struct {
	convert func([]byte) ([]byte, error)
}

// NewNativeConverter creates the library-backed DOCX→PDF tier.
func NewNativeConverter() *NativeConverter {
	return &NativeConverter{convert: docx2pdf.ConvertBytes}
}

func (n *NativeConverter) Name() string { return "native" }

func (n *NativeConverter) Convert(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	out, err := n.convert(in)
	if err != nil {
		return fmt.Errorf("docx2pdf: %w", err)
	}
	if len(out) == 0 {
		return errors.New("docx2pdf produced empty output")
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}
