// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server serves the resume upload form and the conversion endpoint.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pdiddy/resconv/internal/convert"
	"github.com/pdiddy/resconv/internal/history"
	"github.com/pdiddy/resconv/internal/logger"
	"github.com/pdiddy/resconv/internal/route"
	"github.com/pdiddy/resconv/internal/source"
	"github.com/pdiddy/resconv/internal/workspace"
	"github.com/pdiddy/resconv/pkg/types"
)

const defaultMaxUploadMB = 20

// TierHeader names the response header carrying the tier that produced the file.
const TierHeader = "X-Resconv-Tier"

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

// Converter runs a conversion request.
type Converter interface {
	Convert(ctx context.Context, req types.ConversionRequest) (convert.Outcome, error)
}

// Recorder stores conversion history. It may be nil.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
}

// Server is the web front end. Every request works in its own workspace,
// discarded once the response is built.
type Server struct {
	cfg    types.ServerConfig
	conv   Converter
	hist   Recorder
	logger *zap.Logger
	app    *fiber.App
}

// New creates a Server and registers its routes.
func New(cfg types.ServerConfig, conv Converter, hist Recorder, log *zap.Logger) *Server {
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = defaultMaxUploadMB
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             maxMB * 1024 * 1024,
	})

	s := &Server{
		cfg:    cfg,
		conv:   conv,
		hist:   hist,
		logger: logger.OrNop(log),
		app:    app,
	}

	app.Get("/", s.handleForm)
	app.Post("/convert", s.handleConvert)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on the configured address until Shutdown.
func (s *Server) Run() error {
	s.logger.Info("starting web server", zap.String("listen", s.cfg.ListenAddr))
	return s.app.Listen(s.cfg.ListenAddr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleForm(c *fiber.Ctx) error {
	return s.renderForm(c, fiber.StatusOK, "")
}

func (s *Server) renderForm(c *fiber.Ctx, status int, msg string) error {
	c.Status(status)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return formTemplate.Execute(c, struct{ Error string }{Error: msg})
}

func (s *Server) handleConvert(c *fiber.Ctx) error {
	ctx := c.UserContext()

	header, err := c.FormFile("file")
	if err != nil {
		header = nil
	}

	ws, err := workspace.New(s.cfg.WorkDir)
	if err != nil {
		s.logger.Error("failed to create workspace", zap.Error(err))
		return s.fail(c, err)
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			s.logger.Warn("workspace cleanup failed", zap.String("dir", ws.Dir), zap.Error(err))
		}
	}()
	log := s.logger.With(zap.String("request", ws.ID))

	src, err := source.WebUpload{Header: header, Dir: ws.Dir}.Fetch(ctx)
	if err != nil {
		log.Info("upload rejected", zap.Error(err))
		return s.fail(c, err)
	}

	name := filepath.Base(src)
	req, err := route.Resolve(src, route.Options{
		To:          c.FormValue("to"),
		DefaultName: filepath.Join(ws.Dir, strings.TrimSuffix(name, filepath.Ext(name))),
	})
	if err != nil {
		log.Info("request rejected", zap.String("file", name), zap.Error(err))
		return s.fail(c, err)
	}

	log.Info("converting upload",
		zap.String("file", name),
		zap.Stringer("direction", req.Direction),
	)
	outcome, err := s.conv.Convert(ctx, req)
	s.record(ctx, log, req, outcome, err)
	if err != nil {
		log.Error("conversion failed", zap.Error(err))
		return s.fail(c, err)
	}

	data, err := os.ReadFile(req.DestinationPath)
	if err != nil {
		log.Error("failed to read result", zap.Error(err))
		return s.fail(c, err)
	}

	c.Attachment(filepath.Base(req.DestinationPath))
	c.Set(TierHeader, outcome.Tier)
	return c.Status(fiber.StatusOK).Send(data)
}

func (s *Server) record(ctx context.Context, log *zap.Logger, req types.ConversionRequest, outcome convert.Outcome, err error) {
	if s.hist == nil {
		return
	}
	e := history.NewEntry(req, outcome.Tier, outcome.Duration, err)
	e.Source = filepath.Base(req.SourcePath)
	e.Destination = filepath.Base(req.DestinationPath)
	if _, herr := s.hist.Record(ctx, e); herr != nil {
		log.Warn("failed to record history", zap.Error(herr))
	}
}

// fail renders err into the form for browsers and as JSON otherwise.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMETextHTML {
		return s.renderForm(c, status, msg)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg, "kind": string(types.KindOf(err))})
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch types.KindOf(err) {
	case types.KindInvalidInput, types.KindNoUploadProvided, types.KindMissingFile:
		return fiber.StatusBadRequest
	case types.KindDependencyMissing:
		return fiber.StatusServiceUnavailable
	case types.KindConversionFailed:
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}
