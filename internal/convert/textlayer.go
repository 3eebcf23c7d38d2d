// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/resconv/internal/docx"
)

// TextLayerConverter rebuilds a PDF's embedded text layer as a plain DOCX,
// one section per page. Scanned (image-only) PDFs have no text layer and
// fail this tier.
type TextLayerConverter struct {
	extract func(path string) ([]string, error)
}

// NewTextLayerConverter creates the PDF→DOCX library tier.
func NewTextLayerConverter() *TextLayerConverter {
	return &TextLayerConverter{extract: extractPages}
}

func (t *TextLayerConverter) Name() string { return "textlayer" }

func (t *TextLayerConverter) Convert(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pages, err := t.extract(src)
	if err != nil {
		return err
	}

	var doc docx.Document
	empty := true
	for _, text := range pages {
		paras := docx.Paragraphs(text)
		if len(paras) > 0 {
			empty = false
		}
		doc.Pages = append(doc.Pages, paras)
	}
	if empty {
		return errors.New("pdf has no extractable text layer")
	}

	if err := docx.WriteFile(dst, doc); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

// extractPages returns the plain text of every page of the PDF at path.
func extractPages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	fonts := make(map[string]*pdf.Font)
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return pages, nil
}
