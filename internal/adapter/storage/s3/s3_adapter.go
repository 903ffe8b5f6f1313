package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

// S3Storage resolves stored listing image references into presigned,
// client-servable URLs. Uploads belong to the listing service; the feed
// only reads.
type S3Storage struct {
	client *minio.Client
	bucket string
	urlTTL time.Duration
	logger logger.Logger
}

func NewS3Storage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, urlTTL time.Duration, log logger.Logger) (*S3Storage, error) {
	log.Infof("S3Storage: initializing MinIO client for %s (bucket %s)", endpoint, bucketName)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	if urlTTL <= 0 {
		urlTTL = time.Hour
	}
	return &S3Storage{client: client, bucket: bucketName, urlTTL: urlTTL, logger: log}, nil
}

func (s *S3Storage) URL(ctx context.Context, objectKey string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, s.urlTTL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s in bucket %s: %w", objectKey, s.bucket, err)
	}
	return u.String(), nil
}
