package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rowdysden/rowdysden-backend/pkg/config"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
	"github.com/rowdysden/rowdysden-backend/pkg/storage"
)

type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts miniogo.RemoveObjectOptions) error
}

// Client stores uploads in an S3-compatible bucket.
type Client struct {
	api     objectAPI
	bucket  string
	baseURL string
}

var _ storage.ObjectStore = (*Client)(nil)

// New connects to the configured endpoint and verifies the bucket exists.
func New(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (*Client, error) {
	if cfg.MinioEndpoint == "" || cfg.MinioBucket == "" {
		return nil, errors.New("minio endpoint and bucket are required")
	}
	api, err := miniogo.New(cfg.MinioEndpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	client := &Client{
		api:     api,
		bucket:  cfg.MinioBucket,
		baseURL: publicBaseURL(cfg),
	}
	if err := client.Ping(ctx); err != nil {
		return nil, err
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"minio_endpoint": cfg.MinioEndpoint,
			"minio_bucket":   cfg.MinioBucket,
		}), "object storage connected")
	}
	return client, nil
}

func publicBaseURL(cfg config.StorageConfig) string {
	if base := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"); base != "" {
		return base
	}
	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: cfg.MinioEndpoint, Path: "/" + cfg.MinioBucket}
	return u.String()
}

// Put uploads body under key.
func (c *Client) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (storage.Object, error) {
	if key == "" {
		return storage.Object{}, errors.New("object key is required")
	}
	info, err := c.api.PutObject(ctx, c.bucket, key, body, size, miniogo.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return storage.Object{}, fmt.Errorf("put object %q: %w", key, err)
	}
	if info.Size > 0 {
		size = info.Size
	}
	return storage.Object{
		Key:         key,
		URL:         c.baseURL + "/" + strings.TrimLeft(key, "/"),
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Delete removes the object; missing objects are not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.api.RemoveObject(ctx, c.bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

// Ping verifies the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", c.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", c.bucket)
	}
	return nil
}
