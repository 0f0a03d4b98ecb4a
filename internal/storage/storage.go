package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"tradeportal-backend/internal/config"
	"tradeportal-backend/internal/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Attachments live in one S3-compatible bucket, addressed by logical path.
// The workflow layer only ever uses Save / URL.

var (
	client    *minio.Client
	bucket    string
	publicURL string
)

func Init(cfg *config.Config) {
	var err error
	client, err = minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		logger.L().Fatal("failed to create storage client", zap.Error(err))
	}

	bucket = cfg.StorageBucket
	publicURL = cfg.StoragePublicURL

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		logger.L().Warn("could not check storage bucket", zap.Error(err))
		return
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			logger.L().Warn("could not create storage bucket", zap.String("bucket", bucket), zap.Error(err))
			return
		}
	}
	logger.L().Info("storage ready", zap.String("bucket", bucket))
}

// Save streams the object to the bucket and returns its path.
func Save(ctx context.Context, path string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := client.PutObject(ctx, bucket, path, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}

// URL resolves a stored path to something a browser can fetch. With a public
// base URL configured we build it directly; otherwise a presigned link.
func URL(ctx context.Context, path string) (string, error) {
	if publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", publicURL, bucket, path), nil
	}
	u, err := client.PresignedGetObject(ctx, bucket, path, 24*time.Hour, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Ping checks bucket reachability, used by the health endpoint.
func Ping(ctx context.Context) error {
	ok, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", bucket)
	}
	return nil
}
