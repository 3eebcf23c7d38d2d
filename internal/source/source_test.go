// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resconv/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestCLIPath(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "resume.docx", "docx")

	tests := []struct {
		name     string
		path     string
		want     string
		wantKind types.ErrorKind
	}{
		{name: "existing file", path: existing, want: existing},
		{name: "missing file", path: filepath.Join(dir, "nope.pdf"), wantKind: types.KindMissingFile},
		{name: "empty path", path: "  ", wantKind: types.KindNoUploadProvided},
		{name: "directory", path: dir, wantKind: types.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CLIPath{Path: tt.path}.Fetch(context.Background())
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, types.IsKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCLIPath_RelativeBecomesAbsolute(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cv.pdf", "pdf")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	got, err := CLIPath{Path: "cv.pdf"}.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "cv.pdf", filepath.Base(got))
}

// answer returns an AskFunc that answers the prompt with s.
func answer(s string) AskFunc {
	return func(_ survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
		*(response.(*string)) = s
		return nil
	}
}

func TestInteractivePrompt(t *testing.T) {
	dir := t.TempDir()
	pdf := writeFile(t, dir, "resume.pdf", "pdf")
	txt := writeFile(t, dir, "notes.txt", "txt")

	tests := []struct {
		name     string
		ask      AskFunc
		want     string
		wantKind types.ErrorKind
	}{
		{name: "valid answer", ask: answer(pdf), want: pdf},
		{name: "unsupported answer", ask: answer(txt), wantKind: types.KindInvalidInput},
		{
			name: "interrupted",
			ask: func(survey.Prompt, interface{}, ...survey.AskOpt) error {
				return terminal.InterruptErr
			},
			wantKind: types.KindNoUploadProvided,
		},
		{
			name: "no terminal",
			ask: func(survey.Prompt, interface{}, ...survey.AskOpt) error {
				return errors.New("inappropriate ioctl for device")
			},
			wantKind: types.KindNoUploadProvided,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InteractivePrompt{Ask: tt.ask}.Fetch(context.Background())
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, types.IsKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateAnswer(t *testing.T) {
	dir := t.TempDir()
	docx := writeFile(t, dir, "cv.DOCX", "docx")
	txt := writeFile(t, dir, "cv.txt", "txt")

	assert.NoError(t, ValidateAnswer(docx))
	assert.ErrorContains(t, ValidateAnswer(""), "no file given")
	assert.ErrorContains(t, ValidateAnswer(txt), "not a DOCX/PDF")
	assert.ErrorContains(t, ValidateAnswer(filepath.Join(dir, "gone.pdf")), "does not exist")
	assert.Error(t, ValidateAnswer(42))
}

// fileHeader builds a multipart.FileHeader carrying content under filename.
func fileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestWebUpload(t *testing.T) {
	dir := t.TempDir()
	got, err := WebUpload{Header: fileHeader(t, "resume.docx", "docx bytes"), Dir: dir}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "resume.docx"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "docx bytes", string(data))
}

func TestWebUpload_NoHeader(t *testing.T) {
	_, err := WebUpload{Dir: t.TempDir()}.Fetch(context.Background())
	assert.True(t, types.IsKind(err, types.KindNoUploadProvided))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"resume.docx", "resume.docx"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\cv.pdf`, "cv.pdf"},
		{"<b>cv</b>.pdf", "cv.pdf"},
		{"Smith & Jones.pdf", "Smith & Jones.pdf"},
		{"..", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
