package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gael-paolo/st-parts-track/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioService reads the source tables out of object storage. This side of
// the system is read-only: the control sheets are maintained elsewhere and
// uploaded by the logistics team.
type MinioService struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

func NewMinioService(cfg *config.MinioConfig) (*MinioService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// CheckBucket verifies the source bucket exists. Called once at startup so a
// misconfigured bucket fails fast instead of on the first lookup.
func (s *MinioService) CheckBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("source bucket %q does not exist", s.bucket)
	}
	return nil
}

// FetchObject downloads a source table object in full. The per-call timeout
// comes from config; a slow storage backend must not hang a user request.
func (s *MinioService) FetchObject(ctx context.Context, objectName string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object %q: %w", objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", objectName, err)
	}
	return data, nil
}

func (s *MinioService) timeout() time.Duration {
	if s.config.TimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.config.TimeoutMs) * time.Millisecond
}
