package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrUploadNotFound is returned by Open for an unknown file name.
	ErrUploadNotFound = errors.New("upload not found")
	// ErrInvalidName is returned for names that are empty or escape the upload area.
	ErrInvalidName = errors.New("invalid upload name")
)

// UploadStore defines the contract for keeping uploaded price files between
// the upload request and the report requests that read them.
type UploadStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	Ping(ctx context.Context) error
}

// CleanName reduces a client-supplied file name to its base name and rejects
// anything that could address a path outside the upload area.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", ErrInvalidName
	}
	base := filepath.Base(name)
	if base == "." || base == ".." || base != name {
		return "", ErrInvalidName
	}
	return base, nil
}
