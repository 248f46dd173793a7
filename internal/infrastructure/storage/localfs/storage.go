package localfs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Storage keeps uploaded call audio on the local filesystem.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/storage"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) Save(_ context.Context, key string, data io.Reader) error {
	path := filepath.Join(s.basePath, key)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path := filepath.Join(s.basePath, key)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// PurgeTransient removes backup and temporary artifacts that accumulate
// in the storage path. Primary data is never touched.
func (s *Storage) PurgeTransient() {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		slog.Error("purge_read_dir_failed", "path", s.basePath, "error", err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !isTransient(name) {
			continue
		}
		path := filepath.Join(s.basePath, name)
		if err := os.RemoveAll(path); err != nil {
			slog.Error("purge_remove_failed", "path", path, "error", err)
			continue
		}
		slog.Info("purged_transient_artifact", "path", path)
	}
}

func isTransient(name string) bool {
	return strings.HasSuffix(name, ".bak") ||
		strings.HasPrefix(name, "temp_") ||
		strings.HasPrefix(name, "chroma-")
}
