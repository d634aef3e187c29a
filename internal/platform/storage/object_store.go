package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"conesa_estates_backend/internal/config"
)

// ObjectStore wraps a MinIO client for property image storage.
// It is optional: when STORAGE_ENDPOINT is unset NewObjectStore returns
// (nil, nil) and the upload endpoints answer 503.
type ObjectStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	useSSL    bool
	endpoint  string
	logger    *zap.Logger
}

// NewObjectStore creates the MinIO-backed object store and ensures the
// configured bucket exists.
func NewObjectStore(cfg *config.Config, logger *zap.Logger) (*ObjectStore, error) {
	if cfg.StorageEndpoint == "" || cfg.StorageAccessKey == "" || cfg.StorageSecretKey == "" {
		logger.Info("Object storage is not configured. Image uploads will be unavailable.")
		return nil, nil
	}

	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio.New: %w", err)
	}

	store := &ObjectStore{
		client:    client,
		bucket:    cfg.StorageBucket,
		publicURL: strings.TrimRight(cfg.StoragePublicURL, "/"),
		useSSL:    cfg.StorageUseSSL,
		endpoint:  cfg.StorageEndpoint,
		logger:    logger.Named("object_store"),
	}

	if err := store.ensureBucket(context.Background()); err != nil {
		return nil, err
	}

	logger.Info("Object store initialized",
		zap.String("endpoint", cfg.StorageEndpoint),
		zap.String("bucket", cfg.StorageBucket),
	)
	return store, nil
}

func (s *ObjectStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Created storage bucket", zap.String("bucket", s.bucket))
	return nil
}

// Put stores one object and returns its publicly fetchable URL.
func (s *ObjectStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// Remove deletes one object. Missing objects are not an error.
func (s *ObjectStore) Remove(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

// PublicURL resolves an object key to the URL clients fetch it from.
func (s *ObjectStore) PublicURL(key string) string {
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
	}
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}
