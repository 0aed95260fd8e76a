// Package upload stores admin-submitted product images on local disk.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// SecureFilename reduces a client-supplied filename to a form that is safe
// to join under the upload directory: directory components are stripped,
// anything outside [A-Za-z0-9._-] becomes an underscore, and leading dots
// are dropped so no hidden or traversal name survives.
func SecureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "._")
	return out
}

// Save writes one multipart file under dir using its sanitized name and
// returns that name. The write is synchronous and best-effort: a crash
// mid-copy can leave a partial file behind.
func Save(fh *multipart.FileHeader, dir string) (string, error) {
	name := SecureFilename(fh.Filename)
	if name == "" {
		return "", fmt.Errorf("unusable filename %q", fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload target: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return name, nil
}

// Remove deletes a stored image, tolerating files that are already gone.
func Remove(dir, name string) error {
	err := os.Remove(filepath.Join(dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
