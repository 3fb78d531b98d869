package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PublicPrefix is the URL path the server mounts the uploads directory on.
const PublicPrefix = "/uploads"

// LocalImageStore writes images under <Dir>/products.
type LocalImageStore struct {
	Dir string
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, productsPrefix), os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", dir, err)
	}
	return &LocalImageStore{Dir: dir}, nil
}

func (s *LocalImageStore) Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	filePath := filepath.Join(s.Dir, productsPrefix, name)
	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return PublicPrefix + "/" + productsPrefix + "/" + name, nil
}
