package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImageArchive keeps generated image bytes on local disk, one file per
// generation, so the raw output survives outside the record store. Wired as
// the workbench archiver when IMAGE_ARCHIVE_DIR is set.
type ImageArchive struct {
	root string
}

func NewImageArchive(root string) (*ImageArchive, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage: archive root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create archive root: %w", err)
	}
	return &ImageArchive{root: root}, nil
}

// Write stores data under key, relative to the archive root, and returns the
// key as stored. Keys that would escape the root are rejected.
func (a *ImageArchive) Write(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := archiveKey(key)
	if err != nil {
		return "", err
	}
	path := filepath.Join(a.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("storage: create archive directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write image: %w", err)
	}
	return key, nil
}

func archiveKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", errors.New("storage: archive key is required")
	}
	clean := strings.ReplaceAll(filepath.Clean(key), "\\", "/")
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.New("storage: archive key escapes the root")
	}
	return clean, nil
}
