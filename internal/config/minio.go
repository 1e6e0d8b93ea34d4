package config

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// NewMinIOClient returns nil without error when no endpoint is configured;
// the webhook payload archive is optional.
func NewMinIOClient(cfg *Config) (*minio.Client, error) {
	if cfg.MinIOEndpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.ArchiveBucket)
	if err != nil {
		return nil, err
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.ArchiveBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		log.WithField("bucket", cfg.ArchiveBucket).Info("created webhook archive bucket")
	}

	return client, nil
}
