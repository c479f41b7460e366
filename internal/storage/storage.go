package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, opts PutOptions) (ObjectInfo, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}

// Upload stores data under key and confirms the stored size with a Stat.
func Upload(ctx context.Context, store ObjectStore, key string, data []byte, opts PutOptions) (ObjectInfo, error) {
	if store == nil {
		return ObjectInfo{}, fmt.Errorf("object store is not configured")
	}
	if err := ValidateKey(key); err != nil {
		return ObjectInfo{}, err
	}
	if _, err := store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return ObjectInfo{}, err
	}
	info, err := store.Stat(ctx, key)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("verify upload: %w", err)
	}
	if info.Size != int64(len(data)) {
		return ObjectInfo{}, fmt.Errorf("verify upload: stored size %d, want %d", info.Size, len(data))
	}
	return info, nil
}
