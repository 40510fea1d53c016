package checks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"pmteambuilder/core/storage"

	"github.com/minio/minio-go/v7"
)

// StorageReport describes the object backend holding the sync checkpoint.
type StorageReport struct {
	Bucket       string `json:"bucket"`
	BucketExists bool   `json:"bucket_exists"`
	Object       string `json:"object"`
	ObjectExists bool   `json:"object_exists"`
}

// CheckCheckpointStorage verifies that the checkpoint bucket exists and whether a checkpoint was written.
// A missing object is not an error; the first sync creates it.
func CheckCheckpointStorage(ctx context.Context, client storage.Client, bucket, object string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Object: object}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return report, nil
	}
	report.BucketExists = true

	obj, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return report, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	defer obj.Close()

	// minio reports a missing key on first read, not on GetObject
	var probe [1]byte
	if _, err := obj.Read(probe[:]); err != nil && !errors.Is(err, io.EOF) {
		if storage.IsNotFound(err) {
			return report, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	report.ObjectExists = true
	return report, nil
}
