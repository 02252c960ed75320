package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"musehub/model"
)

// TrackFiles stores uploaded track audio in object storage, one object per
// track. Re-uploading overwrites the previous object.
type TrackFiles struct {
	client *minio.Client
	bucket string
}

// NewTrackFiles wraps a connected MinIO client.
func NewTrackFiles(client *minio.Client, bucket string) *TrackFiles {
	return &TrackFiles{client: client, bucket: bucket}
}

func objectName(trackID uint64) string {
	return fmt.Sprintf("tracks/%d", trackID)
}

// Upload streams a track file into the bucket. Size must be known up front
// and is capped at model.MaxTrackFileSize.
func (t *TrackFiles) Upload(ctx context.Context, trackID uint64, r io.Reader, size int64, contentType string) error {
	if size > model.MaxTrackFileSize {
		return fmt.Errorf("track file of %d bytes exceeds the %d byte limit", size, model.MaxTrackFileSize)
	}
	_, err := t.client.PutObject(ctx, t.bucket, objectName(trackID), r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload track %d: %w", trackID, err)
	}
	return nil
}

// Download opens the stored object for reading. The caller closes it.
func (t *TrackFiles) Download(ctx context.Context, trackID uint64) (io.ReadCloser, error) {
	obj, err := t.client.GetObject(ctx, t.bucket, objectName(trackID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("download track %d: %w", trackID, err)
	}
	return obj, nil
}

// Delete removes the stored object. Deleting a missing object is a no-op.
func (t *TrackFiles) Delete(ctx context.Context, trackID uint64) error {
	return t.client.RemoveObject(ctx, t.bucket, objectName(trackID), minio.RemoveObjectOptions{})
}
