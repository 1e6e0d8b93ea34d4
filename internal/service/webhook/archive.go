package webhook

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// PayloadArchive keeps the untouched request bodies for replay.
type PayloadArchive interface {
	Put(ctx context.Context, id uuid.UUID, day string, body []byte) error
}

type minioArchive struct {
	client *minio.Client
	bucket string
}

func NewMinIOArchive(client *minio.Client, bucket string) PayloadArchive {
	return &minioArchive{client: client, bucket: bucket}
}

func archiveKey(id uuid.UUID, day string) string {
	return fmt.Sprintf("webhooks/%s/%s.json", day, id)
}

func (a *minioArchive) Put(ctx context.Context, id uuid.UUID, day string, body []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, archiveKey(id, day), bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return errors.Wrap(err, "unable to archive webhook payload")
}
