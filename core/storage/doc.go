// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that AWS S3 and
// self-hosted MinIO can be used interchangeably, and so tests can substitute the
// testify mock in core/storage/mocks. The progress package stores sync checkpoints
// through it when the object backend is selected.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
