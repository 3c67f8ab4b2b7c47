package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

type localStorage struct {
	root      string
	urlPrefix string
}

// NewLocalStorage writes files below root and returns paths under urlPrefix
// (e.g. "/uploads/materials/1700000000-notes.pdf").
func NewLocalStorage(root, urlPrefix string) (FileStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &localStorage{root: root, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *localStorage) Upload(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	dir := filepath.Join(s.root, filepath.Clean("/" + folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFileName(fileName))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, readerWithContext(ctx, r)); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path.Join(s.urlPrefix, filepath.ToSlash(filepath.Clean("/"+folder)), name), nil
}

func (s *localStorage) Delete(ctx context.Context, fileURL string) error {
	rel := strings.TrimPrefix(fileURL, s.urlPrefix)
	if rel == fileURL {
		return fmt.Errorf("file %s is not managed by local storage", fileURL)
	}

	err := os.Remove(filepath.Join(s.root, filepath.Clean("/"+rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// sanitizeFileName keeps letters, digits, dot, dash and underscore.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '-', r == '_':
			return r
		case unicode.IsSpace(r):
			return '_'
		}
		return -1
	}, name)
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "file"
	}
	return cleaned
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
