package store

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ObjectReader opens an object for reading.
type ObjectReader interface {
	NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

// GCSClient adapts *storage.Client to ObjectReader.
type GCSClient struct {
	Client *storage.Client
}

// NewGCSClient creates a storage client, using credentialsFile when set and
// application default credentials otherwise.
func NewGCSClient(ctx context.Context, credentialsFile string) (*GCSClient, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadOnly)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSClient{Client: client}, nil
}

// NewReader implements ObjectReader.
func (c *GCSClient) NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	return c.Client.Bucket(bucket).Object(object).NewReader(ctx)
}

// Close releases the underlying client.
func (c *GCSClient) Close() error {
	return c.Client.Close()
}

// GCSStore reads artifacts from a Cloud Storage bucket.
type GCSStore struct {
	client ObjectReader
	bucket string
	prefix string
}

// GCS returns a store reading bucket/prefix through client.
func GCS(client ObjectReader, bucket, prefix string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}
}

// Fetch implements Store.
func (s *GCSStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return firstAvailable(ctx, s.prefix, ref, func(ctx context.Context, key string) ([]byte, error) {
		rc, err := s.client.NewReader(ctx, s.bucket, key)
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	})
}
