// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"html"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/resconv/pkg/types"
)

var (
	namePolicyOnce sync.Once
	namePolicy     *bluemonday.Policy
)

// WebUpload is a multipart file posted to the web form. Fetch stores it in Dir.
type WebUpload struct {
	Header *multipart.FileHeader
	Dir    string
}

func (u WebUpload) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if u.Header == nil {
		return "", types.NewError(types.KindNoUploadProvided, "no file uploaded", nil)
	}
	name := SanitizeFilename(u.Header.Filename)
	if name == "" {
		return "", types.NewError(types.KindInvalidInput, "uploaded file has no usable name", nil)
	}

	in, err := u.Header.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer in.Close()

	dst := filepath.Join(u.Dir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("saving upload: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("saving upload: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("saving upload: %w", err)
	}
	return dst, nil
}

// SanitizeFilename reduces a client-supplied filename to a bare base name
// with any markup stripped. It returns "" when nothing usable remains.
func SanitizeFilename(name string) string {
	name = html.UnescapeString(nameSanitizer().Sanitize(name))
	name = strings.ReplaceAll(name, `\`, "/")
	name = strings.TrimSpace(filepath.Base(name))
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}

func nameSanitizer() *bluemonday.Policy {
	namePolicyOnce.Do(func() {
		namePolicy = bluemonday.StrictPolicy()
	})
	return namePolicy
}
