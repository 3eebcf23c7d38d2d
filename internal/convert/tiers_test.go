// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeConverter(t *testing.T) {
	tests := []struct {
		name    string
		convert func([]byte) ([]byte, error)
		wantErr string
	}{
		{
			name:    "writes library output",
			convert: func(in []byte) ([]byte, error) { return append([]byte("%PDF-"), in...), nil },
		},
		{
			name:    "library error",
			convert: func([]byte) ([]byte, error) { return nil, errors.New("unsupported element") },
			wantErr: "docx2pdf: unsupported element",
		},
		{
			name:    "empty output",
			convert: func([]byte) ([]byte, error) { return nil, nil },
			wantErr: "empty output",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, tmpDir := setupSource(t, "resume.docx")
			dst := filepath.Join(tmpDir, "resume.pdf")
			n := &NativeConverter{convert: tt.convert}

			err := n.Convert(context.Background(), src, dst)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.NoFileExists(t, dst)
				return
			}
			require.NoError(t, err)
			data, err := os.ReadFile(dst)
			require.NoError(t, err)
			assert.Equal(t, "%PDF-source", string(data))
		})
	}
}

func TestNativeConverter_MissingSource(t *testing.T) {
	n := &NativeConverter{convert: func(b []byte) ([]byte, error) { return b, nil }}
	err := n.Convert(context.Background(), filepath.Join(t.TempDir(), "nope.docx"), "out.pdf")
	assert.Error(t, err)
}

func TestTextLayerConverter(t *testing.T) {
	src, tmpDir := setupSource(t, "resume.pdf")
	dst := filepath.Join(tmpDir, "resume.docx")
	c := &TextLayerConverter{extract: func(path string) ([]string, error) {
		assert.Equal(t, src, path)
		return []string{"Jane Doe\n\nEngineer", "", "References"}, nil
	}}

	require.NoError(t, c.Convert(context.Background(), src, dst))

	zr, err := zip.OpenReader(dst)
	require.NoError(t, err)
	defer zr.Close()
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "word/document.xml")
}

func TestTextLayerConverter_NoText(t *testing.T) {
	src, tmpDir := setupSource(t, "scan.pdf")
	dst := filepath.Join(tmpDir, "scan.docx")
	c := &TextLayerConverter{extract: func(string) ([]string, error) {
		return []string{"", "   "}, nil
	}}

	err := c.Convert(context.Background(), src, dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no extractable text layer")
	assert.NoFileExists(t, dst)
}

func TestTextLayerConverter_ExtractError(t *testing.T) {
	src, tmpDir := setupSource(t, "broken.pdf")
	c := &TextLayerConverter{extract: func(string) ([]string, error) {
		return nil, errors.New("malformed PDF: missing xref")
	}}
	err := c.Convert(context.Background(), src, filepath.Join(tmpDir, "broken.docx"))
	assert.ErrorContains(t, err, "missing xref")
}

func TestExtractPages_NotAPDF(t *testing.T) {
	src, _ := setupSource(t, "fake.pdf")
	_, err := extractPages(src)
	assert.Error(t, err)
}
