package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes images under a directory served as static files
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the root directory if needed
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir is the root directory of the store
func (s *LocalStore) Dir() string {
	return s.dir
}

// Put writes img to <dir>/<folder>/<name> and returns <baseURL>/<folder>/<name>
func (s *LocalStore) Put(ctx context.Context, folder string, img *Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(folder))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image folder: %w", err)
	}
	if err := os.WriteFile(filepath.Join(target, img.Name), img.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.baseURL + "/" + strings.Trim(folder, "/") + "/" + img.Name, nil
}
