package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader abstracts object storage for tournament assets.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error

	// GetPublicURL returns the public URL for a stored key, or an empty
	// string when no public base is configured.
	GetPublicURL(key string) string
}
