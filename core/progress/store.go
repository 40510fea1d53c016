package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pmteambuilder/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Store persists the checkpoint outside the relational store.
type Store interface {
	// Load returns the last saved state. A missing or unreadable checkpoint yields an empty state.
	Load(ctx context.Context) (*State, error)
	// Save replaces the checkpoint atomically.
	Save(ctx context.Context, s *State) error
	// Clear removes the checkpoint.
	Clear(ctx context.Context) error
}

// FileStore keeps the checkpoint in a JSON file on local disk.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (f *FileStore) Load(_ context.Context) (*State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("Progress file unreadable, starting fresh", zap.String("path", f.path), zap.Error(err))
		}
		return NewState(), nil
	}
	return decode(data, f.logger, f.path), nil
}

// Save writes to a temp file in the same directory and renames it over the target,
// so a crash leaves either the old or the new checkpoint on disk.
func (f *FileStore) Save(_ context.Context, s *State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".progress-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp progress file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close progress: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove progress file: %w", err)
	}
	return nil
}

// ObjectStore keeps the checkpoint as one object in a bucket.
// A single PUT replaces the object as a whole.
type ObjectStore struct {
	client storage.Client
	bucket string
	object string
	logger *zap.Logger
}

// NewObjectStore creates a store writing bucket/object through client.
func NewObjectStore(client storage.Client, bucket, object string, logger *zap.Logger) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, object: object, logger: logger}
}

func (o *ObjectStore) Load(ctx context.Context) (*State, error) {
	obj, err := o.client.GetObject(ctx, o.bucket, o.object, minio.GetObjectOptions{})
	if err != nil {
		o.logProblem(err)
		return NewState(), nil
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		o.logProblem(err)
		return NewState(), nil
	}
	return decode(data, o.logger, o.bucket+"/"+o.object), nil
}

func (o *ObjectStore) Save(ctx context.Context, s *State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	_, err = o.client.PutObject(ctx, o.bucket, o.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload progress: %w", err)
	}
	return nil
}

func (o *ObjectStore) Clear(ctx context.Context) error {
	if err := o.client.RemoveObject(ctx, o.bucket, o.object, minio.RemoveObjectOptions{}); err != nil && !storage.IsNotFound(err) {
		return fmt.Errorf("remove progress object: %w", err)
	}
	return nil
}

func (o *ObjectStore) logProblem(err error) {
	if storage.IsNotFound(err) {
		return
	}
	o.logger.Warn("Progress object unreadable, starting fresh",
		zap.String("bucket", o.bucket), zap.String("object", o.object), zap.Error(err))
}

func decode(data []byte, logger *zap.Logger, where string) *State {
	s := NewState()
	if len(bytes.TrimSpace(data)) == 0 {
		return s
	}
	if err := json.Unmarshal(data, s); err != nil {
		logger.Warn("Progress checkpoint corrupt, starting fresh", zap.String("source", where), zap.Error(err))
		return NewState()
	}
	if s.Stages == nil {
		s.Stages = make(map[string]Value)
	}
	return s
}
