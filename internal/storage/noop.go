package storage

import (
	"errors"
	"io"
)

// ErrNotConfigured is returned by the disabled storage backend.
var ErrNotConfigured = errors.New("photo storage is not configured")

type noopStorage struct{}

// NewNoop returns a disabled storage backend for deployments without an S3
// bucket. Saves fail with ErrNotConfigured and URLs come back empty, so
// profiles simply render without photos.
func NewNoop() Storage {
	return noopStorage{}
}

func (noopStorage) Save(string, io.Reader) error { return ErrNotConfigured }
func (noopStorage) Delete(string) error          { return nil }
func (noopStorage) URL(string) string            { return "" }
