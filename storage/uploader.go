package storage

//go:generate mockgen -source=uploader.go -destination=mocks/mock_uploader.go -package=mocks

import (
	"context"
	"errors"
	"io"
)

var ErrNotConfigured = errors.New("file storage is not configured")

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
	// KeyFromURL returns the object key behind a public URL, or "" if the URL is foreign.
	KeyFromURL(publicURL string) string
}
