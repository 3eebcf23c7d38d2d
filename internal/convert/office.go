// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/resconv/internal/office"
	"github.com/pdiddy/resconv/internal/workspace"
	"github.com/pdiddy/resconv/pkg/types"
)

// OfficeConverter converts through a headless office suite. The suite is
// located on every call so that a binary installed after startup is found.
type OfficeConverter struct {
	locate func() (office.Suite, error)
}

// NewOfficeConverter creates the office-suite tier. locate is typically a
// closure over office.Detect.
func NewOfficeConverter(locate func() (office.Suite, error)) *OfficeConverter {
	return &OfficeConverter{locate: locate}
}

func (c *OfficeConverter) Name() string { return "office" }

// Convert runs the suite into a scratch directory next to dst, then renames
// the deterministically named output to dst.
func (c *OfficeConverter) Convert(ctx context.Context, src, dst string) error {
	suite, err := c.locate()
	if err != nil {
		return types.NewError(types.KindDependencyMissing,
			"LibreOffice (soffice) is required but was not found on PATH", err)
	}

	format, ok := types.FormatOf(dst)
	if !ok {
		return fmt.Errorf("cannot infer target format from %s", dst)
	}

	scratch, err := workspace.New(filepath.Dir(dst))
	if err != nil {
		return err
	}
	defer scratch.Cleanup()

	produced, err := suite.Convert(ctx, src, scratch.Dir, string(format))
	if err != nil {
		return err
	}
	if produced == dst {
		return nil
	}
	if err := os.Rename(produced, dst); err != nil {
		return fmt.Errorf("moving %s to %s: %w", produced, dst, err)
	}
	return nil
}
