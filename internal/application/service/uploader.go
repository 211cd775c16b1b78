package service

import (
	"context"
)

// Uploader mirrors externally hosted assets into the delivery CDN.
type Uploader interface {
	// UploadFromURL fetches a remote asset and returns its delivery URL.
	UploadFromURL(ctx context.Context, sourceURL, folder, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
