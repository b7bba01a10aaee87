// Package file persists records as JSON files in a data directory, one file
// per record. It is the default backend and needs no external services.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type KV struct {
	dir string
}

// NewKV creates the data directory if needed.
func NewKV(dir string) (*KV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &KV{dir: dir}, nil
}

func (s *KV) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read record %s: %w", key, err)
	}
	return raw, true, nil
}

// Set writes through a temp file and renames, so a crash mid-write cannot
// leave a half-written record for the tolerant loader to reject.
func (s *KV) Set(_ context.Context, key string, value []byte) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("write record %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace record %s: %w", key, err)
	}
	return nil
}

func (s *KV) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
