package ml

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const objectScheme = "s3://"

// Source yields the raw bytes of a classifier artifact.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Location() string
}

// ObjectStoreConfig holds the connection settings for artifacts kept in an
// S3-compatible bucket.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// NewSource picks a source for location: "s3://bucket/key" reads from the
// object store, anything else is a local file path.
func NewSource(location string, store ObjectStoreConfig) (Source, error) {
	if !strings.HasPrefix(location, objectScheme) {
		return FileSource{path: location}, nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(location, objectScheme), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid object location %q: want s3://bucket/key", location)
	}
	if store.Endpoint == "" {
		return nil, fmt.Errorf("object location %q requires MINIO_ENDPOINT", location)
	}

	client, err := minio.New(store.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(store.AccessKey, store.SecretKey, ""),
		Secure: store.UseSSL,
		Region: store.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	return &ObjectSource{client: client, bucket: bucket, key: key}, nil
}

// FileSource reads an artifact from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource creates a source for a local path.
func NewFileSource(path string) FileSource {
	return FileSource{path: path}
}

func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	return f, nil
}

func (s FileSource) Location() string { return s.path }

// ObjectSource reads an artifact from a MinIO / S3 bucket.
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
}

func (s *ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, s.key, minio.StatObjectOptions{}); err != nil {
		return nil, fmt.Errorf("failed to stat artifact %s: %w", s.Location(), err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact %s: %w", s.Location(), err)
	}
	return obj, nil
}

func (s *ObjectSource) Location() string {
	return objectScheme + s.bucket + "/" + s.key
}
