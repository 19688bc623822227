package storage

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig carries the object-store connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessID  string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AvatarStorage stores avatar blobs in a Minio bucket and mints
// time-limited presigned GET URLs for them.
type AvatarStorage struct {
	client *minio.Client
	bucket string
}

func NewAvatarStorage(cfg MinioConfig) (*AvatarStorage, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessID, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &AvatarStorage{client: mc, bucket: cfg.Bucket}, nil
}

func (s *AvatarStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *AvatarStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
