package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored object. Location is the public URL
// served to clients; Key is what Delete expects back.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader is the object-storage surface used for profile photos
// and promo images. Keys are path-like ("users/7/avatar-....jpg") and
// map one-to-one onto the public URL path.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	// GetPublicURL resolves a key to the URL clients fetch it from.
	GetPublicURL(key string) string
}
