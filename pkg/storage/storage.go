package storage

import (
	"context"
	"io"
)

// FileStorage stores uploaded course materials and result sheets.
type FileStorage interface {
	// Upload stores the content of r under folder and returns a URL or
	// server-relative path the client can fetch it from.
	Upload(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// Delete removes a previously uploaded file identified by the value Upload returned.
	Delete(ctx context.Context, fileURL string) error
}

// File is an uploaded file on its way to a FileStorage.
type File struct {
	Name    string
	Content io.Reader
}
