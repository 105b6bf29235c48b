// Package storage archives uploaded meeting audio in object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	apperrors "mom-generator/internal/app/errors"
)

// ArchiveStore keeps the original recording next to its minutes
type ArchiveStore interface {
	// Put stores data and returns the object key and its URL
	Put(ctx context.Context, name, contentType string, data []byte) (key string, objectURL string, err error)
	Enabled() bool
}

// Config configures the MinIO client
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

// MinioStore writes objects to a MinIO or S3 compatible bucket
type MinioStore struct {
	client *minio.Client
	bucket string
	host   string
	logger *zap.Logger
	now    func() time.Time
}

// NewMinioStore connects to the endpoint and creates the bucket when missing
func NewMinioStore(ctx context.Context, cfg Config, logger *zap.Logger) (*MinioStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, apperrors.Mark(apperrors.ErrInvalidConfig, "storage endpoint and bucket are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info("created audio archive bucket", zap.String("bucket", cfg.Bucket))
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		host:   fmt.Sprintf("%s://%s", scheme, cfg.Endpoint),
		logger: logger,
		now:    time.Now,
	}, nil
}

func (s *MinioStore) Enabled() bool {
	return true
}

// Put uploads data under meetings/<date>/<uuid><ext>
func (s *MinioStore) Put(ctx context.Context, name, contentType string, data []byte) (string, string, error) {
	key := ObjectKey(s.now(), name)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-name": url.QueryEscape(name),
			"uploaded-at":   s.now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("upload failed: %w", err)
	}

	s.logger.Debug("archived meeting audio", zap.String("key", key), zap.Int("bytes", len(data)))
	return key, s.objectURL(key), nil
}

func (s *MinioStore) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.host, s.bucket, key)
}

// ObjectKey builds the archive key for a recording uploaded at t
func ObjectKey(t time.Time, name string) string {
	ext := strings.ToLower(path.Ext(name))
	return fmt.Sprintf("meetings/%s/%s%s", t.UTC().Format("2006-01-02"), uuid.NewString(), ext)
}

// NoopStore is used when archiving is disabled
type NoopStore struct{}

func (NoopStore) Enabled() bool {
	return false
}

func (NoopStore) Put(context.Context, string, string, []byte) (string, string, error) {
	return "", "", nil
}
