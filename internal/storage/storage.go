// Package storage keeps opaque blobs under string keys, either as one JSON
// file per key or as rows of a SQLite table.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// BlobStore is a flat key/value store. Get returns (nil, nil) for a key
// that was never written.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	// Quarantine moves the value of key aside to key+".corrupt" so a fresh
	// value can be written without losing the unreadable one.
	Quarantine(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func checkKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("storage error: invalid key %q", key)
	}
	return nil
}

// BaseDir returns the root data directory (~/.mapty).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".mapty"), nil
}

// Open returns the BlobStore for backend rooted at dir.
func Open(ctx context.Context, backend, dir string) (BlobStore, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(dir), nil
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(dir, "mapty.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", backend, BackendFile, BackendSQLite)
	}
}
