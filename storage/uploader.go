// Package storage persists evidence screenshots in object storage. Keys are
// opaque to the rest of the engine; matches only ever carry keys and public
// URLs, never bytes.
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

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}
