// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx writes minimal WordprocessingML documents: plain paragraphs
// grouped into pages, with no styling.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

	relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

	documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentTail = `<w:sectPr/></w:body></w:document>`

	pageBreak = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`
)

// Document is an ordered list of pages, each an ordered list of paragraphs.
type Document struct {
	Pages [][]string
}

// Write encodes doc as a .docx package to w.
func Write(w io.Writer, doc Document) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(relsXML)},
		{"word/document.xml", documentXML(doc)},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", p.name, err)
		}
		if _, err := f.Write(p.body); err != nil {
			return fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

// WriteFile encodes doc to path, creating parent directories.
func WriteFile(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func documentXML(doc Document) []byte {
	var b bytes.Buffer
	b.WriteString(documentHead)
	for i, page := range doc.Pages {
		if i > 0 {
			b.WriteString(pageBreak)
		}
		for _, para := range page {
			writeParagraph(&b, para)
		}
	}
	b.WriteString(documentTail)
	return b.Bytes()
}

func writeParagraph(b *bytes.Buffer, text string) {
	b.WriteString("<w:p>")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		b.WriteString("<w:r>")
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		xml.EscapeText(b, []byte(line))
		b.WriteString("</w:t></w:r>")
	}
	b.WriteString("</w:p>")
}

// Paragraphs splits extracted page text into paragraphs on blank lines,
// trimming surrounding whitespace and dropping empty paragraphs.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		if p := strings.TrimSpace(block); p != "" {
			out = append(out, p)
		}
	}
	return out
}
