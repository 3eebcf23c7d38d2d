// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package environment prepares the host once at startup. Installing the
// office suite is opt-in and never happens implicitly.
package environment

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/resconv/internal/logger"
	"github.com/pdiddy/resconv/internal/office"
	"github.com/pdiddy/resconv/pkg/types"
)

// Options configures Prepare.
type Options struct {
	// InstallOffice allows installing LibreOffice when it is missing.
	InstallOffice bool
	// Office is passed to office.Detect when checking for the binary.
	Office office.Options
}

// runner abstracts command execution for testing.
type runner interface {
	RunCombined(ctx context.Context, name string, args ...string) ([]byte, error)
}

type osRunner struct{}

func (osRunner) RunCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

type preparer struct {
	opts   Options
	locate func() error
	run    runner
	goos   string
	log    *zap.Logger
}

// Prepare makes sure the office suite is available. When it is missing and
// InstallOffice is false, Prepare only logs a warning: conversions that need
// the suite report DependencyMissing on their own.
func Prepare(ctx context.Context, opts Options, log *zap.Logger) error {
	p := &preparer{
		opts: opts,
		locate: func() error {
			_, err := office.Detect(opts.Office)
			return err
		},
		run:  osRunner{},
		goos: runtime.GOOS,
		log:  logger.OrNop(log),
	}
	return p.prepare(ctx)
}

// installSteps installs LibreOffice with apt.
var installSteps = [][]string{
	{"apt-get", "update"},
	{"apt-get", "install", "-y", "libreoffice"},
}

func (p *preparer) prepare(ctx context.Context) error {
	if err := p.locate(); err == nil {
		p.log.Debug("office suite found")
		return nil
	}

	if !p.opts.InstallOffice {
		p.log.Warn("office suite not found; office conversions will be skipped",
			zap.String("hint", "install LibreOffice or pass --install-office"))
		return nil
	}

	if p.goos != "linux" {
		return types.NewError(types.KindDependencyMissing,
			fmt.Sprintf("LibreOffice is missing and automatic installation is not supported on %s", p.goos), nil)
	}

	p.log.Info("installing LibreOffice, this may take a moment")
	for _, step := range installSteps {
		out, err := p.run.RunCombined(ctx, step[0], step[1:]...)
		if err != nil {
			return types.NewError(types.KindDependencyMissing,
				fmt.Sprintf("%s failed: %s", strings.Join(step, " "), strings.TrimSpace(string(out))), err)
		}
	}

	if err := p.locate(); err != nil {
		return types.NewError(types.KindDependencyMissing, "LibreOffice installed but soffice is still not on PATH", err)
	}
	p.log.Info("LibreOffice installed")
	return nil
}
