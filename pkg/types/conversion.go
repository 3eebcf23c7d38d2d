// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a supported document format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

// Ext returns the file extension for the format, including the leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Opposite returns the format a document of this format converts to by default.
func (f Format) Opposite() Format {
	if f == FormatDOCX {
		return FormatPDF
	}
	return FormatDOCX
}

// ParseFormat accepts "pdf", "docx", ".PDF" and similar spellings.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "docx":
		return FormatDOCX, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// FormatOf infers the format of path from its extension.
func FormatOf(path string) (Format, bool) {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return "", false
	}
	return f, true
}

// Direction is a conversion pairing.
type Direction string

const (
	DocxToPDF Direction = "DOCX_TO_PDF"
	PDFToDocx Direction = "PDF_TO_DOCX"
)

// DirectionFor returns the direction converting from src to dst.
func DirectionFor(src, dst Format) (Direction, error) {
	switch {
	case src == FormatDOCX && dst == FormatPDF:
		return DocxToPDF, nil
	case src == FormatPDF && dst == FormatDOCX:
		return PDFToDocx, nil
	}
	return "", fmt.Errorf("no conversion from %s to %s", src, dst)
}

// Target returns the format this direction produces.
func (d Direction) Target() Format {
	if d == DocxToPDF {
		return FormatPDF
	}
	return FormatDOCX
}

// String renders the direction as "docx→pdf" for logs and messages.
func (d Direction) String() string {
	switch d {
	case DocxToPDF:
		return "docx→pdf"
	case PDFToDocx:
		return "pdf→docx"
	}
	return string(d)
}

// ConversionRequest describes a single conversion. It is built by the format
// router and treated as immutable afterwards.
type ConversionRequest struct {
	// SourcePath is the local path of the document to convert.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// DestinationPath is where the converted document is written. Its
	// extension always matches Direction.Target().
	DestinationPath string `json:"destination_path" yaml:"destination_path"`

	// Direction is the conversion pairing.
	Direction Direction `json:"direction" yaml:"direction"`
}
