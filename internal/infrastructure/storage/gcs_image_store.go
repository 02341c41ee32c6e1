package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/inventory-order-api/pkg/helpers"
)

// GCSImageStore uploads product images into one bucket.
type GCSImageStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSImageStore returns nil when no client or bucket is configured.
func NewGCSImageStore(client *gcs.Client, bucket string) *GCSImageStore {
	if client == nil || bucket == "" {
		return nil
	}
	return &GCSImageStore{client: client, bucket: bucket}
}

func (s *GCSImageStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.client, s.bucket, objectPath, contentType, r)
}

// Delete removes an image previously returned by Upload. Foreign URLs are left alone.
func (s *GCSImageStore) Delete(ctx context.Context, url string) error {
	objectPath, ok := helpers.ObjectPath(s.bucket, url)
	if !ok {
		return nil
	}
	return helpers.DeleteObject(ctx, s.client, s.bucket, objectPath)
}
