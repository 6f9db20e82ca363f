package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"versu/versu/config"
	"versu/versu/utils/logging"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const avatarPrefix = "avatars"

// Anonymous read on the avatar prefix so the stored URL can be used straight from <img>.
const publicReadPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/%s/*"]
  }]
}`

type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinIOClient(ctx context.Context, cfg config.Config) (*MinIOClient, error) {
	m, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	if err := m.ensureBucket(ctx); err != nil {
		return nil, err
	}
	logging.AppLogger.Info("avatar storage ready",
		zap.String("endpoint", cfg.MinIOEndpoint), zap.String("bucket", m.bucket))
	return m, nil
}

func newClient(cfg config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	public := strings.TrimRight(cfg.MinIOPublicURL, "/")
	if public == "" {
		scheme := "http"
		if cfg.MinIOUseSSL {
			scheme = "https"
		}
		public = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinIOEndpoint, cfg.MinIOBucket)
	}
	return &MinIOClient{client: client, bucket: cfg.MinIOBucket, publicURL: public}, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	policy := fmt.Sprintf(publicReadPolicy, m.bucket, avatarPrefix)
	if err := m.client.SetBucketPolicy(ctx, m.bucket, policy); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}
	return nil
}

// UploadAvatar stores the image under a fresh key and returns its public URL.
func (m *MinIOClient) UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (string, error) {
	defer logging.LogDuration(ctx, "UploadAvatar")()
	key := avatarKey(userID, contentType, time.Now())
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=86400",
	})
	if err != nil {
		return "", fmt.Errorf("put avatar: %w", err)
	}
	return m.ObjectURL(key), nil
}

func (m *MinIOClient) ObjectURL(key string) string {
	return m.publicURL + "/" + key
}

func avatarKey(userID, contentType string, now time.Time) string {
	ext := ".img"
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	name := fmt.Sprintf("%d-%s%s", now.Unix(), uuid.NewString()[:8], ext)
	return path.Join(avatarPrefix, userID, name)
}
